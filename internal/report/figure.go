package report

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/ep_plotter_go/internal/analysis"
	"github.com/user/ep_plotter_go/internal/config"
	"github.com/user/ep_plotter_go/internal/dataset"
)

// axisPadFraction widens the shared axis ranges so edge markers are not clipped.
const axisPadFraction = 0.05

// FigureOptions controls figure layout and styling.
type FigureOptions struct {
	Width, Height vg.Length
	Palette       []color.Color
	Markers       []draw.GlyphDrawer
	Style         string
	XLabel        string
	YLabel        string
	TitleSize     vg.Length
	LabelSize     vg.Length
	TickSize      vg.Length
	LegendSize    vg.Length
	TagSize       vg.Length
	MarkerRadius  vg.Length
	LineWidth     vg.Length
}

// NewFigureOptions resolves colours, markers and sizes from the configuration.
func NewFigureOptions(cfg *config.Config) (FigureOptions, error) {
	pal, err := ParsePalette(cfg.Palette)
	if err != nil {
		return FigureOptions{}, err
	}
	markers, err := ParseMarkers(cfg.Markers)
	if err != nil {
		return FigureOptions{}, err
	}
	return FigureOptions{
		Width:        vg.Length(cfg.Width) * vg.Inch,
		Height:       vg.Length(cfg.Height) * vg.Inch,
		Palette:      pal,
		Markers:      markers,
		Style:        cfg.Style,
		XLabel:       cfg.XLabel,
		YLabel:       cfg.YLabel,
		TitleSize:    vg.Points(16),
		LabelSize:    vg.Points(16),
		TickSize:     vg.Points(14),
		LegendSize:   vg.Points(13),
		TagSize:      vg.Points(18),
		MarkerRadius: vg.Points(3),
		LineWidth:    vg.Points(1.5),
	}, nil
}

// figureFormats are the output formats draw.NewFormattedCanvas understands.
var figureFormats = map[string]bool{
	"eps": true, "jpg": true, "jpeg": true, "pdf": true,
	"png": true, "svg": true, "tex": true, "tif": true, "tiff": true,
}

// FormatFromPath derives the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !figureFormats[ext] {
		return "", fmt.Errorf("unsupported figure format %q for %s", ext, path)
	}
	return ext, nil
}

type axisRange struct {
	min, max float64
}

func (r *axisRange) include(vals []float64) {
	for _, v := range vals {
		r.min = math.Min(r.min, v)
		r.max = math.Max(r.max, v)
	}
}

func (r axisRange) padded() (float64, float64, bool) {
	if math.IsInf(r.min, 1) {
		return 0, 0, false
	}
	span := r.max - r.min
	if span == 0 {
		return r.min - 0.5, r.max + 0.5, true
	}
	return r.min - span*axisPadFraction, r.max + span*axisPadFraction, true
}

// BuildPanels creates one plot per panel with shared x and y ranges.
// Only the leftmost panel carries the y label.
func BuildPanels(panels []dataset.Panel, opts FigureOptions) ([]*plot.Plot, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("no panels to plot")
	}
	if len(opts.Palette) == 0 || len(opts.Markers) == 0 {
		return nil, fmt.Errorf("palette and markers must not be empty")
	}

	xr := axisRange{min: math.Inf(1), max: math.Inf(-1)}
	yr := axisRange{min: math.Inf(1), max: math.Inf(-1)}
	plots := make([]*plot.Plot, 0, len(panels))

	for i, panel := range panels {
		p := plot.New()
		p.Title.Text = panel.Title
		p.Title.TextStyle.Font.Size = opts.TitleSize
		p.X.Label.Text = opts.XLabel
		p.X.Label.TextStyle.Font.Size = opts.LabelSize
		if i == 0 {
			p.Y.Label.Text = opts.YLabel
			p.Y.Label.TextStyle.Font.Size = opts.LabelSize
		}
		p.X.Tick.Label.Font.Size = opts.TickSize
		p.Y.Tick.Label.Font.Size = opts.TickSize
		p.Add(plotter.NewGrid())

		for j, s := range panel.Series {
			xs, ys, err := analysis.XY(s)
			if err != nil {
				return nil, err
			}
			if len(xs) == 0 {
				continue
			}
			xr.include(xs)
			yr.include(ys)

			pts := make(plotter.XYs, len(xs))
			for k := range xs {
				pts[k].X = xs[k]
				pts[k].Y = ys[k]
			}

			glyph := draw.GlyphStyle{
				Color:  opts.Palette[j%len(opts.Palette)],
				Radius: opts.MarkerRadius,
				Shape:  opts.Markers[j%len(opts.Markers)],
			}

			switch opts.Style {
			case config.StyleScatter:
				sc, err := plotter.NewScatter(pts)
				if err != nil {
					return nil, fmt.Errorf("failed to create scatter for %s: %v", s.Label, err)
				}
				sc.GlyphStyle = glyph
				p.Add(sc)
				p.Legend.Add(s.Label, sc)
			default:
				line, sc, err := plotter.NewLinePoints(pts)
				if err != nil {
					return nil, fmt.Errorf("failed to create line for %s: %v", s.Label, err)
				}
				line.Color = glyph.Color
				line.LineStyle.Width = opts.LineWidth
				sc.GlyphStyle = glyph
				p.Add(line, sc)
				p.Legend.Add(s.Label, line, sc)
			}
		}

		p.Legend.Top = true
		p.Legend.TextStyle.Font.Size = opts.LegendSize
		plots = append(plots, p)
	}

	// sharex / sharey
	xMin, xMax, okX := xr.padded()
	yMin, yMax, okY := yr.padded()
	for _, p := range plots {
		if okX {
			p.X.Min, p.X.Max = xMin, xMax
		}
		if okY {
			p.Y.Min, p.Y.Max = yMin, yMax
		}
	}
	return plots, nil
}

// RenderFigure draws the panels side by side and writes them to w in format.
func RenderFigure(w io.Writer, panels []dataset.Panel, opts FigureOptions, format string) error {
	plots, err := BuildPanels(panels, opts)
	if err != nil {
		return err
	}

	c, err := draw.NewFormattedCanvas(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("failed to create %s canvas: %v", format, err)
	}
	dc := draw.New(c)

	tagRoom := opts.TagSize * 1.5
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Millimeter * 4,
		PadTop:    tagRoom,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
		drawPanelTag(canvases[0][i], p, panels[i].Tag, opts.TagSize, tagRoom)
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write figure: %v", err)
	}
	return nil
}

// drawPanelTag writes the bold panel letter above the panel's top-left corner.
func drawPanelTag(c draw.Canvas, p *plot.Plot, tag string, size, room vg.Length) {
	if tag == "" {
		return
	}
	sty := p.Title.TextStyle
	sty.Font.Size = size
	sty.Font.Weight = xfont.WeightBold
	sty.XAlign = draw.XLeft
	sty.YAlign = draw.YTop
	c.FillText(sty, vg.Point{X: c.Min.X, Y: c.Max.Y + room}, tag)
}

// RenderFigureBytes renders the figure into memory.
func RenderFigureBytes(panels []dataset.Panel, opts FigureOptions, format string) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := RenderFigure(buf, panels, opts, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFigure renders the figure to path, choosing the format from its extension.
func SaveFigure(path string, panels []dataset.Panel, opts FigureOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	b, err := RenderFigureBytes(panels, opts, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write figure %s: %w", path, err)
	}
	return nil
}
