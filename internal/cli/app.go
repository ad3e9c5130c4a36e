package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/user/ep_plotter_go/internal/analysis"
	"github.com/user/ep_plotter_go/internal/config"
	"github.com/user/ep_plotter_go/internal/dataset"
	"github.com/user/ep_plotter_go/internal/report"
)

// ReportTitle heads the summary PDF.
const ReportTitle = "Exceptional Point Summary"

// App runs the load, analyze and render pipeline for one configuration.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	loader *dataset.Loader
}

// NewApp creates a new App for cfg. Result lines go to out, progress to logger.
func NewApp(cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if out == nil {
		out = io.Discard
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		out:    out,
		loader: dataset.NewLoader(logger),
	}
}

func (a *App) sendStatus(message string, args ...any) {
	a.logger.Info(message, args...)
}

// prepare loads every series and summarizes the panels.
func (a *App) prepare(ctx context.Context) (*dataset.Result, *analysis.AnalysisResults, error) {
	a.sendStatus("loading tables", "sizes", a.cfg.Sizes, "data_dir", a.cfg.DataDir)
	res, err := a.loader.Load(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range res.Warnings {
		a.logger.Warn(w)
	}

	results, err := analysis.AnalyzePanels(res.Panels)
	if err != nil {
		return nil, nil, fmt.Errorf("error analyzing data: %w", err)
	}
	a.sendStatus("analysis complete", "series", results.TotalSeries())
	for _, e := range results.AnalysisErrors {
		a.logger.Warn(e)
	}
	return res, results, nil
}

// GenerateFigure renders the two-panel figure to the configured output and
// returns its path.
func (a *App) GenerateFigure(ctx context.Context) (string, error) {
	res, _, err := a.prepare(ctx)
	if err != nil {
		return "", err
	}
	opts, err := report.NewFigureOptions(a.cfg)
	if err != nil {
		return "", err
	}

	a.sendStatus("rendering figure", "output", a.cfg.Output, "style", a.cfg.Style)
	if err := report.SaveFigure(a.cfg.Output, res.Panels, opts); err != nil {
		return "", fmt.Errorf("error generating figure: %w", err)
	}
	fmt.Fprintf(a.out, "Figure written to: %s\n", a.cfg.Output)
	return a.cfg.Output, nil
}

// GenerateReport writes the summary PDF to pdfPath. A figure that fails to
// render is logged and left out of the report.
func (a *App) GenerateReport(ctx context.Context, pdfPath string) error {
	res, results, err := a.prepare(ctx)
	if err != nil {
		return err
	}
	opts, err := report.NewFigureOptions(a.cfg)
	if err != nil {
		return err
	}

	a.sendStatus("rendering figure for report")
	png, err := report.RenderFigureBytes(res.Panels, opts, "png")
	if err != nil {
		a.logger.Error("error generating figure", "error", err)
		png = nil
	}

	a.sendStatus("generating PDF", "path", pdfPath)
	aspect := a.cfg.Height / a.cfg.Width
	if err := report.BuildPDFReport(pdfPath, ReportTitle, results, png, aspect, res.Warnings); err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	fmt.Fprintf(a.out, "Report written to: %s\n", pdfPath)
	return nil
}
