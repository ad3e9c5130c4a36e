package analysis

import (
	"fmt"
	"math"

	"github.com/user/ep_plotter_go/internal/dataset"
)

// Helper to calculate mean
func calculateMean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// calculateExtent returns min and max, NaN for empty input.
func calculateExtent(data []float64) (float64, float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}
	minVal, maxVal := data[0], data[0]
	for _, v := range data[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// Helper to calculate range (max - min)
func calculateRange(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	if len(data) == 1 {
		return 0.0
	}
	minVal, maxVal := calculateExtent(data)
	return maxVal - minVal
}

// XY extracts the first two columns of a series. Rows with fewer than two
// values are an error since they cannot be placed on the figure; extra
// columns are ignored.
func XY(s dataset.Series) ([]float64, []float64, error) {
	if s.Table == nil {
		return nil, nil, fmt.Errorf("%s: no table loaded", s.Source)
	}
	xs := make([]float64, 0, s.Table.Len())
	ys := make([]float64, 0, s.Table.Len())
	for i, row := range s.Table.Rows {
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("%s: row %d has %d column(s), need at least 2", s.Source, i+1, len(row))
		}
		xs = append(xs, row[0])
		ys = append(ys, row[1])
	}
	return xs, ys, nil
}

// SummarizeSeries computes the summary of one series.
func SummarizeSeries(panel string, s dataset.Series) (SeriesSummary, error) {
	xs, ys, err := XY(s)
	if err != nil {
		return SeriesSummary{}, err
	}

	sum := SeriesSummary{
		Panel:  panel,
		Label:  s.Label,
		Size:   s.Size,
		Source: s.Source,
		Points: len(xs),
		PeakX:  math.NaN(),
	}
	if s.Table.Len() > 0 {
		sum.Columns = len(s.Table.Rows[0])
	}
	sum.XMin, sum.XMax = calculateExtent(xs)
	sum.YMin, sum.YMax = calculateExtent(ys)
	sum.YMean = calculateMean(ys)
	sum.YRange = calculateRange(ys)
	for i, y := range ys {
		if y == sum.YMax {
			sum.PeakX = xs[i]
			break
		}
	}
	return sum, nil
}

// AnalyzePanels summarizes every series and records shape inconsistencies
// as AnalysisErrors. Shapes are reported, never repaired.
func AnalyzePanels(panels []dataset.Panel) (*AnalysisResults, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("no panels to analyze")
	}

	results := NewAnalysisResults()
	for _, panel := range panels {
		ps := PanelSummary{Title: panel.Title, Tag: panel.Tag}
		if len(panel.Series) == 0 {
			results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Warning: panel '%s' has no series.", panel.Title))
		}

		refWidth := -1
		for _, s := range panel.Series {
			if w, ok := s.Table.Width(); !ok {
				results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Warning: %s has rows of differing column counts (first row has %d).", s.Source, w))
			}

			sum, err := SummarizeSeries(panel.Title, s)
			if err != nil {
				return nil, err
			}
			if sum.Points == 0 {
				results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Warning: %s has no data rows.", s.Source))
			}

			// point counts legitimately differ between chain sizes; column counts should not
			if refWidth < 0 {
				refWidth = sum.Columns
			} else if sum.Columns != refWidth {
				results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Warning: panel '%s': %s has %d columns, first series has %d.", panel.Title, s.Source, sum.Columns, refWidth))
			}
			ps.Series = append(ps.Series, sum)
		}
		results.Panels = append(results.Panels, ps)
	}
	return results, nil
}
