// Package dataset turns a figure configuration into panels of loaded series.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/user/ep_plotter_go/internal/config"
	"github.com/user/ep_plotter_go/internal/parser"
)

// Series is one loaded table with its legend label.
type Series struct {
	Size   int
	Label  string
	Source string
	Table  *parser.Table
}

// Panel is one side of the figure.
type Panel struct {
	Title  string
	Tag    string
	Series []Series
}

// Result is the outcome of Load. Warnings lists series that were skipped.
type Result struct {
	Panels   []Panel
	Warnings []string
}

// Loader reads tables for a Config. ReadTable is swappable in tests.
type Loader struct {
	ReadTable func(path string, opts ...parser.Option) (*parser.Table, error)
	Logger    *slog.Logger
}

// NewLoader returns a Loader backed by parser.LoadTable.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{ReadTable: parser.LoadTable, Logger: logger}
}

type job struct {
	panel int
	slot  int
	size  int
	path  string
}

// Load reads every (pattern, size) resource concurrently. Series keep the
// order of cfg.Sizes. The first error aborts the run unless cfg.SkipMissing
// is set, in which case missing resources are skipped with a warning.
func (l *Loader) Load(ctx context.Context, cfg *config.Config) (*Result, error) {
	patterns := cfg.Patterns()
	slots := make([][]*Series, len(patterns))
	var jobs []job
	for p, pattern := range patterns {
		slots[p] = make([]*Series, len(cfg.Sizes))
		for s, n := range cfg.Sizes {
			jobs = append(jobs, job{panel: p, slot: s, size: n, path: cfg.ResourceName(pattern, n)})
		}
	}

	var opts []parser.Option
	if cfg.StrictShape {
		opts = append(opts, parser.WithRectangular())
	}

	missing := make([]error, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table, err := l.ReadTable(j.path, opts...)
			if err != nil {
				if cfg.SkipMissing && errors.Is(err, parser.ErrResourceNotFound) {
					missing[i] = err
					return nil
				}
				return fmt.Errorf("failed to load %s: %w", j.path, err)
			}
			l.Logger.Debug("table loaded", "path", j.path, "rows", table.Len())
			slots[j.panel][j.slot] = &Series{
				Size:   j.size,
				Label:  cfg.SeriesLabel(j.size),
				Source: j.path,
				Table:  table,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Panels: make([]Panel, len(patterns))}
	for i, err := range missing {
		if err == nil {
			continue
		}
		msg := fmt.Sprintf("Warning: skipping N=%d in %s: %v", jobs[i].size, cfg.PanelTitles[jobs[i].panel], err)
		res.Warnings = append(res.Warnings, msg)
		l.Logger.Warn("series skipped", "path", jobs[i].path, "size", jobs[i].size)
	}
	for p := range patterns {
		panel := Panel{Title: cfg.PanelTitles[p], Tag: cfg.PanelTags[p]}
		for _, s := range slots[p] {
			if s != nil {
				panel.Series = append(panel.Series, *s)
			}
		}
		res.Panels[p] = panel
	}
	return res, nil
}
