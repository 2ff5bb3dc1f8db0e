package engine

import (
	"context"

	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/platform"
	"github.com/bamsammich/xfer/internal/stats"
)

// Decision is the caller's answer to a progress report.
type Decision int

const (
	Continue Decision = iota
	// Cancel aborts and removes the partial destination.
	Cancel
	// Stop aborts and keeps the partial destination.
	Stop
	// Quiet continues without further reports.
	Quiet
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Cancel:
		return "cancel"
	case Stop:
		return "stop"
	case Quiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// Progress is one report delivered to a ProgressFunc.
type Progress struct {
	Source            string
	Destination       string
	TotalSize         int64
	Transferred       int64
	StreamSize        int64
	StreamTransferred int64
	StreamIndex       int
	Reason            platform.Reason
}

// ProgressFunc is called synchronously from the transfer after every chunk.
type ProgressFunc func(p Progress, userData any) Decision

// progressRelay adapts primitive ticks to the caller's ProgressFunc and
// feeds the stats collector and event stream on the way.
type progressRelay struct {
	ctx      context.Context
	fn       ProgressFunc
	userData any
	src, dst string
	stats    *stats.Collector
	events   chan<- event.Event

	sent     int64 // bytes credited to stats in the current attempt
	quiet    bool
	canceled bool
	stopped  bool
}

func newProgressRelay(
	ctx context.Context,
	req *ValidatedRequest,
	collector *stats.Collector,
	events chan<- event.Event,
) *progressRelay {
	return &progressRelay{
		ctx:      ctx,
		fn:       req.progress,
		userData: req.userData,
		src:      req.source,
		dst:      req.destination,
		stats:    collector,
		events:   events,
	}
}

// sink returns the adapter handed to the primitive, or nil when nobody
// listens so the primitive skips callbacks entirely.
func (r *progressRelay) sink() platform.ProgressSink {
	if r.fn == nil && r.stats == nil && r.events == nil {
		return nil
	}
	return r.onTick
}

// reset starts a new attempt. Bytes credited by a failed attempt are taken
// back so retries do not inflate the totals.
func (r *progressRelay) reset() {
	if r.stats != nil && r.sent > 0 {
		r.stats.AddBytesCopied(-r.sent)
	}
	r.sent = 0
	r.canceled = false
	r.stopped = false
}

// commit keeps the bytes credited by a successful attempt.
func (r *progressRelay) commit() { r.sent = 0 }

func (r *progressRelay) onTick(t platform.Tick) platform.Action {
	if r.ctx.Err() != nil {
		r.canceled = true
		return platform.Cancel
	}
	if r.stats != nil && t.Transferred > r.sent {
		r.stats.AddBytesCopied(t.Transferred - r.sent)
		r.sent = t.Transferred
	}
	if t.Reason == platform.ChunkFinished {
		emitEvent(r.events, event.Event{
			Type:        event.FileProgress,
			Path:        r.src,
			Destination: r.dst,
			Size:        t.Transferred,
			TotalSize:   t.TotalSize,
		})
	}
	if r.fn == nil || r.quiet {
		return platform.Continue
	}

	switch r.fn(Progress{
		Source:            r.src,
		Destination:       r.dst,
		TotalSize:         t.TotalSize,
		Transferred:       t.Transferred,
		StreamSize:        t.StreamSize,
		StreamTransferred: t.StreamTransferred,
		StreamIndex:       t.StreamIndex,
		Reason:            t.Reason,
	}, r.userData) {
	case Cancel:
		r.canceled = true
		return platform.Cancel
	case Stop:
		r.stopped = true
		return platform.Stop
	case Quiet:
		// keep ticks flowing for stats, just stop asking
		r.quiet = true
	}
	return platform.Continue
}
