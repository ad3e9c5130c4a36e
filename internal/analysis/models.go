package analysis

// SeriesSummary holds descriptive numbers for one series (first column is x, second is y).
type SeriesSummary struct {
	Panel   string
	Label   string
	Size    int
	Source  string
	Points  int
	Columns int // column count of the first row
	XMin    float64
	XMax    float64
	YMin    float64
	YMax    float64
	YMean   float64
	YRange  float64
	PeakX   float64 // x at the first occurrence of YMax
}

// PanelSummary groups the series summaries of one panel.
type PanelSummary struct {
	Title  string
	Tag    string
	Series []SeriesSummary
}

// AnalysisResults holds all results from the analysis.
type AnalysisResults struct {
	Panels         []PanelSummary
	AnalysisErrors []string // non-fatal shape problems, reported not fixed
}

func NewAnalysisResults() *AnalysisResults {
	return &AnalysisResults{
		Panels:         make([]PanelSummary, 0),
		AnalysisErrors: make([]string, 0),
	}
}

// TotalSeries counts series across all panels.
func (r *AnalysisResults) TotalSeries() int {
	n := 0
	for _, p := range r.Panels {
		n += len(p.Series)
	}
	return n
}
