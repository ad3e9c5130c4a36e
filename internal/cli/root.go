// Package cli provides the command-line interface for ep_plotter.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/ep_plotter_go/internal/config"
	"github.com/user/ep_plotter_go/internal/logging"
)

// Version information (set at build time).
var Version = "0.1.0"

// rootOptions carries state shared by every subcommand.
type rootOptions struct {
	cfgFile string
}

// load resolves the configuration for cmd and sets up logging. The returned
// func flushes the log sinks and must be called when the command is done.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Loaded, *slog.Logger, func(), error) {
	loaded, err := config.Load(o.cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog, err := logging.Setup(logging.Config{
		Level:  loaded.LogLevel,
		SeqURL: loaded.SeqURL,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: log_level: %w", err)
	}
	if loaded.File != "" {
		logger.Debug("using config file", "path", loaded.File)
	}
	return loaded, logger, closeLog, nil
}

// newApp loads the configuration and builds the pipeline for cmd.
func (o *rootOptions) newApp(cmd *cobra.Command) (*App, func(), error) {
	loaded, logger, closeLog, err := o.load(cmd)
	if err != nil {
		return nil, nil, err
	}
	return NewApp(loaded.Config, logger, cmd.OutOrStdout()), closeLog, nil
}

// NewRootCmd creates and returns the root command. Run without a
// subcommand it behaves like render.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ep_plotter",
		Short: "Plot exceptional point counts from .dat tables",
		Long: `ep_plotter loads the EP1_N*.dat and EP2_N*.dat tables produced by the
exceptional point scans and draws them as a two-panel figure, one series per
chain size. Table entries may be decimals or exact rationals such as 3/8.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags; names map to config keys with - replaced by _
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: ./ep_plotter.yaml)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("seq-url", "", "Seq server URL for structured logs")
	pf.IntSlice("sizes", nil, "Chain sizes to plot, e.g. --sizes 2,4,6")
	pf.String("data-dir", "", "Directory holding the .dat files")
	pf.String("output", "", "Figure output path; the extension picks the format")
	pf.String("style", "", "Series style (line|scatter)")
	pf.Bool("strict-shape", false, "Fail on tables whose rows differ in column count")
	pf.Bool("skip-missing", false, "Skip missing .dat files instead of failing")

	_ = rootCmd.RegisterFlagCompletionFunc("style", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.StyleLine, config.StyleScatter}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newReportCommand(opts))
	rootCmd.AddCommand(newInspectCommand(opts))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context, which ends render --watch cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
