package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/xfer/internal/config"
	"github.com/bamsammich/xfer/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// globalOptions are the persistent flags shared by every subcommand, plus
// the state PersistentPreRunE derives from them.
type globalOptions struct {
	verbose    bool
	quiet      bool
	noProgress bool
	logFile    string
	configPath string

	cfg     config.Config
	logSink io.Closer
}

func run() int {
	opts := &globalOptions{}
	rootCmd := newRootCmd(opts)

	err := rootCmd.Execute()
	if opts.logSink != nil {
		opts.logSink.Close()
	}
	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "xfer",
		Short: "Copy and move files with validation, retries and progress",
		Long: `xfer copies and moves files and directory trees.

Every transfer is validated before anything touches the disk, transient
device errors are retried, a read-only destination is cleared once when
overwriting, and moves across volumes fall back to copy + delete when
allowed. Moves can also be deferred until the next system start.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "xfer %s\n", version)
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.setup()
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	pf.BoolVar(&opts.noProgress, "no-progress", false, "disable the live progress line")
	pf.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	pf.StringVar(&opts.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/xfer/config.toml)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newCopyCmd(opts))
	rootCmd.AddCommand(newMoveCmd(opts))
	rootCmd.AddCommand(newPendingCmd(opts))
	rootCmd.AddCommand(newDocsCmd())
	return rootCmd
}

// setup configures logging and loads the config file.
func (o *globalOptions) setup() error {
	logLevel := slog.LevelWarn
	if o.verbose {
		logLevel = slog.LevelDebug
	} else if !o.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	if o.logFile != "" {
		lf, err := os.Create(o.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		o.logSink = lf
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFile(o.configPath)
	} else {
		o.cfg, err = config.Load()
	}
	if err != nil {
		// A broken config never blocks a transfer.
		slog.Warn("failed to load config", "error", err)
		o.cfg = config.Config{}
	}
	return nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
