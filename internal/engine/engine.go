package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/xfer/internal/config"
	"github.com/bamsammich/xfer/internal/deferred"
	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/pathnorm"
	"github.com/bamsammich/xfer/internal/platform"
	"github.com/bamsammich/xfer/internal/stats"
)

// Config wires an Engine. Zero fields get OS-backed defaults.
type Config struct {
	FS         FileSystem
	Primitives Primitives
	Deferred   deferred.Registry
	Normalizer *pathnorm.Normalizer

	Logger *slog.Logger
	Events chan<- event.Event
	Stats  *stats.Collector

	// Backoff builds the retry policy for a request.
	Backoff func(RetryPolicy) Backoff
	// Sleep waits between attempts; it must return early when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error

	ChunkSize int
	// BWLimit caps throughput in bytes/sec across all transfers; 0 is unlimited.
	BWLimit int64
}

// Engine runs transfers. It holds no per-transfer state and may be shared.
type Engine struct {
	fs        FileSystem
	prims     Primitives
	deferred  deferred.Registry
	validator Validator

	logger *slog.Logger
	events chan<- event.Event
	stats  *stats.Collector

	backoff   func(RetryPolicy) Backoff
	sleep     func(context.Context, time.Duration) error
	chunkSize int
	limiter   *rate.Limiter
}

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	e := &Engine{
		fs:        cfg.FS,
		prims:     cfg.Primitives,
		deferred:  cfg.Deferred,
		logger:    cfg.Logger,
		events:    cfg.Events,
		stats:     cfg.Stats,
		backoff:   cfg.Backoff,
		sleep:     cfg.Sleep,
		chunkSize: cfg.ChunkSize,
	}
	if e.fs == nil {
		e.fs = OSFileSystem()
	}
	if e.prims == nil {
		e.prims = OSPrimitives()
	}
	if e.deferred == nil {
		e.deferred = deferred.Default(config.StatePath())
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.backoff == nil {
		e.backoff = defaultBackoff
	}
	if e.sleep == nil {
		e.sleep = sleepContext
	}
	if cfg.BWLimit > 0 {
		e.limiter = platform.NewBWLimiter(cfg.BWLimit)
	}

	norm := pathnorm.New()
	if cfg.Normalizer != nil {
		norm = *cfg.Normalizer
	}
	e.validator = Validator{FS: e.fs, Normalizer: norm}
	return e
}

// Validate checks req without running it. The returned request can be
// passed to Transfer, which then skips validation.
func (e *Engine) Validate(req Request) (*ValidatedRequest, error) {
	return e.validator.Validate(req)
}

// Transfer validates and runs req. Validation failures return an error
// before any native call. A canceled transfer returns a Result with
// Canceled set and a nil error.
func (e *Engine) Transfer(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	v, err := e.validator.Validate(req)
	if err != nil {
		e.logger.Debug("transfer rejected", "error", err)
		return Result{ErrorCode: validationCode(err), Elapsed: time.Since(start)}, err
	}

	res := Result{
		Source:         v.source,
		Destination:    v.destination,
		IsCopy:         v.isCopy,
		IsMove:         !v.isCopy,
		IsEmulatedMove: v.emulateMove,
	}
	e.logger.Debug("transfer started",
		"source", v.source,
		"destination", v.destination,
		"copy", v.isCopy,
		"directory", v.isDirectory,
		"emulate_move", v.emulateMove,
		"deferred", v.delay,
	)
	if !v.isDirectory {
		emitEvent(e.events, event.Event{Type: event.FileStarted, Path: v.source, Destination: v.destination})
	}

	relay := newProgressRelay(ctx, v, e.stats, e.events)
	err = e.coordinate(ctx, v, &res, relay)
	res.Elapsed = time.Since(start)
	e.report(v, res, err)
	return res, err
}

// Copy is Transfer for a plain copy.
func (e *Engine) Copy(ctx context.Context, src, dst string, opts CopyOptions) (Result, error) {
	return e.Transfer(ctx, RawRequest{Source: src, Destination: dst, Copy: &opts})
}

// Move is Transfer for a plain move.
func (e *Engine) Move(ctx context.Context, src, dst string, opts MoveOptions) (Result, error) {
	return e.Transfer(ctx, RawRequest{Source: src, Destination: dst, Move: &opts})
}

func (e *Engine) report(v *ValidatedRequest, res Result, err error) {
	ev := event.Event{
		Path:        v.source,
		Destination: v.destination,
		Size:        res.TotalBytes,
	}
	switch {
	case res.Canceled:
		ev.Type = event.FileCanceled
		if e.stats != nil && !v.isDirectory {
			e.stats.AddFilesCanceled(1)
		}
		e.logger.Debug("transfer canceled", "source", v.source, "stopped", res.Stopped)
	case err != nil:
		ev.Type = event.FileFailed
		ev.Error = err
		if e.stats != nil && !v.isDirectory {
			e.stats.AddFilesFailed(1)
		}
		e.logger.Debug("transfer failed", "source", v.source, "attempts", res.Attempts, "error", err)
	default:
		ev.Type = event.FileCompleted
		if e.stats != nil && !v.isDirectory && !v.delay {
			e.stats.AddFilesCopied(1)
		}
	}
	if v.isDirectory && ev.Type == event.FileCompleted {
		// children already reported themselves
		return
	}
	emitEvent(e.events, ev)
}

func validationCode(err error) platform.Code {
	switch {
	case errors.Is(err, ErrSourceNotFound):
		return platform.FileNotFound
	case errors.Is(err, ErrDestinationNotFound):
		return platform.PathNotFound
	default:
		return platform.InvalidParameter
	}
}

func emitEvent(ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
