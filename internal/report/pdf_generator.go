package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/ep_plotter_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func() // map of style name to function that sets font, color etc.
	lineHeight  float64
	currentY    float64 // To manually track Y position for flowing content
	pageHeight  float64
	contentTopY float64 // Top Y after margin
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["warning"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(178, 34, 34) // firebrick
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1 // Small gap after paragraph
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.ImageOptions(imageName, x, s.currentY, width, height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// writeTable draws a header row and data rows, breaking pages as needed.
func (s *pdfStyler) writeTable(headers []string, colWidthsRel []float64, rows [][]string) {
	colWidthsAbs := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidthsAbs[i] = rel * pdfContentWidth
	}

	writeHeader := func() {
		sX := pdfMargin
		s.applyStyle("tableHeader")
		for i, header := range headers {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * math.Min(float64(len(rows))+1, 5))
	writeHeader()

	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			writeHeader()
		}
		sX := pdfMargin
		s.applyStyle("tableCell")
		for i, cell := range row {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}

// BuildPDFReport writes a summary document: the figure, one table of series
// statistics per panel and any warnings collected along the way.
// figurePNG may be empty, in which case the figure section says so.
func BuildPDFReport(filepath string, title string, results *analysis.AnalysisResults,
	figurePNG []byte, figureAspect float64, warnings []string) error {

	pdf := gofpdf.New("L", "mm", "Letter", "") // Landscape, mm, Letter size
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	nSeries := 0
	if results != nil {
		nSeries = results.TotalSeries()
	}
	styler.writeParagraph(fmt.Sprintf("%s (%d Series)", title, nSeries), "h1", "C")
	styler.addSpacer(3)

	if len(figurePNG) > 0 {
		if figureAspect <= 0 {
			figureAspect = 0.6
		}
		imgWidth := pdfContentWidth * 0.85
		imgHeight := imgWidth * figureAspect
		if maxH := styler.pageHeight - styler.currentY - styler.lineHeight*2; imgHeight > maxH {
			imgHeight = maxH
			imgWidth = imgHeight / figureAspect
		}
		styler.addImage(figurePNG, "figure", imgWidth, imgHeight, "Exceptional points per 2N against M / 2N")
	} else {
		styler.writeParagraph("Figure not available.", "normal", "L")
	}

	if results == nil || len(results.Panels) == 0 {
		styler.writeParagraph("No analysis results to display.", "normal", "L")
		return finishPDF(pdf, filepath)
	}

	styler.newPage()
	headers := []string{"Series", "Source", "Points", "x min", "x max", "y min", "y max", "y mean", "x at y max"}
	colWidthsRel := []float64{0.08, 0.32, 0.07, 0.08, 0.08, 0.09, 0.09, 0.09, 0.10}
	for _, panel := range results.Panels {
		heading := panel.Title
		if panel.Tag != "" {
			heading = fmt.Sprintf("(%s) %s", panel.Tag, panel.Title)
		}
		styler.writeParagraph(heading, "h2", "L")
		if len(panel.Series) == 0 {
			styler.writeParagraph("No series loaded for this panel.", "normal", "L")
			styler.addSpacer(4)
			continue
		}

		rows := make([][]string, 0, len(panel.Series))
		for _, ss := range panel.Series {
			rows = append(rows, []string{
				ss.Label,
				ss.Source,
				fmt.Sprintf("%d", ss.Points),
				formatValue(ss.XMin),
				formatValue(ss.XMax),
				formatValue(ss.YMin),
				formatValue(ss.YMax),
				formatValue(ss.YMean),
				formatValue(ss.PeakX),
			})
		}
		styler.writeTable(headers, colWidthsRel, rows)
		styler.addSpacer(5)
	}

	all := append(append([]string(nil), warnings...), results.AnalysisErrors...)
	if len(all) > 0 {
		styler.writeParagraph("Warnings", "h2", "L")
		for _, w := range all {
			styler.writeParagraph(w, "warning", "L")
		}
	}

	return finishPDF(pdf, filepath)
}

func finishPDF(pdf *gofpdf.Fpdf, filepath string) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	if err := pdf.OutputFileAndClose(filepath); err != nil {
		return fmt.Errorf("failed to write PDF %s: %w", filepath, err)
	}
	return nil
}
