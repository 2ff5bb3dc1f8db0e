package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/xfer/internal/config"
	"github.com/bamsammich/xfer/internal/deferred"
	"github.com/bamsammich/xfer/internal/engine"
	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/pathnorm"
	"github.com/bamsammich/xfer/internal/platform"
	"github.com/bamsammich/xfer/internal/stats"
	"github.com/bamsammich/xfer/internal/ui"
)

// transferFlags are the flags copy and move share.
type transferFlags struct {
	retries       int
	retryInterval time.Duration
	bwLimit       string
	chunkSize     string
	pathFormat    string
	keepPartial   bool
}

func (f *transferFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.retries, "retries", 1, "attempts per file for transient device errors")
	fs.DurationVar(&f.retryInterval, "retry-interval", time.Second, "wait between attempts")
	fs.StringVar(&f.bwLimit, "bwlimit", "", "bandwidth limit (e.g. 100M, 1G)")
	fs.StringVar(&f.chunkSize, "chunk-size", "", "progress/copy chunk size (default 1MiB)")
	fs.StringVar(&f.pathFormat, "path-format", "relative", "how paths are given: relative, absolute or canonical")
	fs.BoolVar(&f.keepPartial, "keep-partial", false,
		"on the first interrupt stop and keep partial files; a second interrupt cancels")
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func (f *transferFlags) applyConfigDefaults(cmd *cobra.Command, d config.DefaultsConfig) {
	if !cmd.Flags().Changed("retries") && d.Retries != nil {
		f.retries = *d.Retries
	}
	if iv, ok := d.RetryIntervalDuration(); ok && !cmd.Flags().Changed("retry-interval") {
		f.retryInterval = iv
	}
	if !cmd.Flags().Changed("bwlimit") && d.BWLimit != nil {
		f.bwLimit = *d.BWLimit
	}
	if !cmd.Flags().Changed("chunk-size") && d.ChunkSize != nil {
		f.chunkSize = *d.ChunkSize
	}
}

// job is one source/destination pair from the command line.
type job struct {
	src, dst string
}

// resolveJobs pairs sources with destinations. A single source goes to dst
// as given; several sources go inside dst, which must then be a directory.
func resolveJobs(sources []string, dst string) ([]job, error) {
	if len(sources) == 1 {
		return []job{{src: sources[0], dst: dst}}, nil
	}
	info, err := os.Stat(dst)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("destination %s must be an existing directory for %d sources", dst, len(sources))
	}
	jobs := make([]job, 0, len(sources))
	for _, src := range sources {
		jobs = append(jobs, job{src: src, dst: filepath.Join(dst, filepath.Base(filepath.Clean(src)))})
	}
	return jobs, nil
}

// runner executes requests through one engine while a presenter renders
// the event stream.
type runner struct {
	opts  *globalOptions
	flags *transferFlags
	dst   string
	// request builds the engine request for a job.
	request func(job) engine.RawRequest
}

//nolint:revive // cognitive-complexity: CLI orchestration of engine, presenter and signals
func (r *runner) run(ctx context.Context, jobs []job) error {
	format, err := pathnorm.ParseFormat(r.flags.pathFormat)
	if err != nil {
		return err
	}
	var bwLimit, chunk int64
	if r.flags.bwLimit != "" {
		if bwLimit, err = config.ParseSize(r.flags.bwLimit); err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
	}
	if r.flags.chunkSize != "" {
		if chunk, err = config.ParseSize(r.flags.chunkSize); err != nil {
			return fmt.Errorf("invalid --chunk-size: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var interrupted atomic.Bool
	sigCh := make(chan os.Signal, 3)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	finished := make(chan struct{})
	defer close(finished)
	go watchSignals(sigCh, finished, r.flags.keepPartial, &interrupted, cancel, os.Exit)

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine
	// that writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if r.opts.logFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				ui.LogEvent(context.Background(), slog.Default(), ev)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:     os.Stdout,
		ErrWriter:  os.Stderr,
		Stats:      collector,
		DstRoot:    r.dst,
		IsTTY:      ui.IsTTY(os.Stderr),
		Width:      ui.TermWidth(os.Stderr),
		Quiet:      r.opts.quiet,
		Verbose:    r.opts.verbose,
		NoProgress: r.opts.noProgress,
	})

	eng := engine.New(engine.Config{
		Deferred:  deferred.Default(r.opts.cfg.QueuePath()),
		Logger:    slog.Default(),
		Events:    events,
		Stats:     collector,
		ChunkSize: int(chunk),
		BWLimit:   bwLimit,
	})

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	var progress engine.ProgressFunc
	if r.flags.keepPartial {
		progress = func(engine.Progress, any) engine.Decision {
			if interrupted.Load() {
				return engine.Stop
			}
			return engine.Continue
		}
	}

	var (
		succeeded, failed int
		canceled          bool
	)
	for _, j := range jobs {
		if interrupted.Load() || ctx.Err() != nil {
			canceled = true
			break
		}
		req := r.request(j)
		req.PathFormat = format
		req.Retry = engine.RetryPolicy{Count: r.flags.retries, Interval: r.flags.retryInterval}
		req.Progress = progress

		res, err := eng.Transfer(ctx, req)
		switch {
		case err != nil:
			failed++
			slog.Error("transfer failed", "source", j.src, "code", res.ErrorCode, "error", err)
		case res.Canceled:
			canceled = true
		default:
			succeeded++
			slog.Debug("transfer finished",
				"source", res.Source,
				"destination", res.Destination,
				"bytes", res.TotalBytes,
				"files", res.TotalFiles,
				"folders", res.TotalFolders,
				"attempts", res.Attempts,
				"elapsed", res.Elapsed,
			)
		}
		if canceled {
			break
		}
	}

	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
	}
	if !r.opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(os.Stderr, summary)
		}
	}
	slog.Debug("transfer stats", "stats", collector.Snapshot().String())

	return exitFor(succeeded, failed, canceled)
}

// watchSignals turns interrupts into transfer decisions until finished is
// closed. With keepPartial the first interrupt sets interrupted, which the
// progress callback answers with Stop; otherwise it cancels. An interrupt
// after cancellation does not wait for the copies to unwind: in-flight
// partial files are removed and exit is called with 130.
func watchSignals(
	sigCh <-chan os.Signal,
	finished <-chan struct{},
	keepPartial bool,
	interrupted *atomic.Bool,
	cancel context.CancelFunc,
	exit func(int),
) {
	canceled := false
	for {
		select {
		case <-sigCh:
			switch {
			case keepPartial && !interrupted.Swap(true):
				slog.Warn("interrupted, stopping after the current chunk (interrupt again to cancel)")
			case !canceled:
				canceled = true
				slog.Warn("interrupted, canceling (interrupt again to quit now)")
				cancel()
			default:
				if n := platform.CleanupPartials(); n > 0 {
					slog.Warn("removed partial files", "count", n)
				}
				exit(130)
				return
			}
		case <-finished:
			return
		}
	}
}

// exitFor maps the outcome of a run to the process exit code:
// 0 everything succeeded, 1 canceled or partially failed, 2 nothing succeeded.
func exitFor(succeeded, failed int, canceled bool) error {
	switch {
	case failed == 0 && !canceled:
		return nil
	case failed > 0 && succeeded == 0 && !canceled:
		return &exitError{code: 2}
	default:
		return &exitError{code: 1}
	}
}
