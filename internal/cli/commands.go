package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/user/ep_plotter_go/internal/config"
	"github.com/user/ep_plotter_go/internal/parser"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the two-panel figure",
		Long: `Load every configured table, draw the Case 1 and Case 2 panels side by
side and write the figure to the output path. With --watch the figure is
redrawn whenever one of the input files changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts, watch)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when input files change")
	return cmd
}

func runRender(cmd *cobra.Command, opts *rootOptions, watch bool) error {
	app, done, err := opts.newApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	if watch {
		return app.Watch(cmd.Context())
	}
	_, err = app.GenerateFigure(cmd.Context())
	return err
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	var pdfPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF summary of the loaded series",
		Long: `Write a PDF document holding the figure, per-panel statistics for every
series and any warnings raised while loading.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, done, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			defer done()
			return app.GenerateReport(cmd.Context(), pdfPath)
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "EP_report.pdf", "Report output path")
	return cmd
}

func newInspectCommand(opts *rootOptions) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show the shape of .dat tables",
		Long: `Parse each file and print its row and column counts. With --rows N the
first N rows are printed as well.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, logger, done, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer done()

			var loadOpts []parser.Option
			if loaded.StrictShape {
				loadOpts = append(loadOpts, parser.WithRectangular())
			}
			tables := make([]*parser.Table, 0, len(args))
			for _, path := range args {
				t, err := parser.LoadTable(path, loadOpts...)
				if err != nil {
					return err
				}
				logger.Debug("table loaded", "path", path, "rows", t.Len())
				tables = append(tables, t)
			}
			return renderInspect(cmd.OutOrStdout(), tables, rows)
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Number of leading rows to print per file")
	return cmd
}

// columnsLabel is "3" for rectangular tables and "2-3" for ragged ones.
func columnsLabel(t *parser.Table) string {
	w, ok := t.Width()
	if ok {
		return strconv.Itoa(w)
	}
	maxW := 0
	for _, row := range t.Rows {
		maxW = max(maxW, len(row))
	}
	return fmt.Sprintf("%d-%d", t.MinWidth(), maxW)
}

// columnRanges describes the min and max of each column every row has,
// e.g. "c0 [0, 1] c1 [0.1, 0.75]".
func columnRanges(t *parser.Table) (string, error) {
	parts := make([]string, 0, t.MinWidth())
	for i := 0; i < t.MinWidth(); i++ {
		col, err := t.Column(i)
		if err != nil {
			return "", err
		}
		lo, hi := slices.Min(col), slices.Max(col)
		parts = append(parts, fmt.Sprintf("c%d [%s, %s]", i, formatFloat(lo), formatFloat(hi)))
	}
	return strings.Join(parts, " "), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func renderInspect(w io.Writer, tables []*parser.Table, rows int) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Rows", "Columns", "Rectangular", "Ranges"})
	for _, tbl := range tables {
		_, ok := tbl.Width()
		ranges, err := columnRanges(tbl)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{tbl.Source, tbl.Len(), columnsLabel(tbl), ok, ranges})
	}
	t.Render()

	if rows <= 0 {
		return nil
	}
	for _, tbl := range tables {
		_, _ = fmt.Fprintf(w, "\n%s\n", tbl.Source)
		if tbl.Len() == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			continue
		}

		pt := table.NewWriter()
		pt.SetOutputMirror(w)
		pt.SetStyle(table.StyleLight)
		header := table.Row{"#"}
		for i := 0; i < tbl.MinWidth(); i++ {
			header = append(header, fmt.Sprintf("c%d", i))
		}
		pt.AppendHeader(header)
		for i, row := range tbl.Rows {
			if i >= rows {
				break
			}
			r := table.Row{i + 1}
			for _, v := range row {
				r = append(r, formatFloat(v))
			}
			pt.AppendRow(r)
		}
		pt.Render()
	}
	return nil
}

func newInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a starter configuration file",
		Long:  `Write the default configuration as YAML to PATH (default ./ep_plotter.yaml).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFileNames[0]
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display ep_plotter version information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ep_plotter v%s\n", version)
		},
	}
}
