package ui

import (
	"io"

	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/stats"
)

// Event is the engine event the presenters consume.
type Event = event.Event

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer     io.Writer
	ErrWriter  io.Writer
	Stats      *stats.Collector
	DstRoot    string
	IsTTY      bool
	Width      int
	Quiet      bool
	Verbose    bool
	NoProgress bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // picks one of several presenters
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	plain := &plainPresenter{
		w:       cfg.Writer,
		errW:    cfg.ErrWriter,
		stats:   cfg.Stats,
		dstRoot: cfg.DstRoot,
		verbose: cfg.Verbose,
		st:      newStyles(false),
	}
	if !cfg.IsTTY || cfg.NoProgress {
		return plain
	}
	plain.st = newStyles(true)
	return &livePresenter{
		plainPresenter: plain,
		w:              cfg.ErrWriter, // status line renders to stderr (the TTY)
		width:          cfg.Width,
	}
}
