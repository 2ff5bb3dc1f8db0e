package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/stats"
)

// plainPresenter outputs one line per finished file to stdout,
// and periodic progress to stderr when not a TTY.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	dstRoot string
	verbose bool
	st      styles
}

func (p *plainPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-secTicker.C:
			p.stats.Tick()
		case <-ticker.C:
			p.printProgress()
		}
	}
}

//nolint:revive // cyclomatic: one case per event type
func (p *plainPresenter) handleEvent(ev Event) {
	path := StripRoot(p.dstRoot, ev.Destination)
	if path == "" {
		path = ev.Path
	}
	switch ev.Type {
	case event.FileCompleted:
		speed := p.stats.RollingSpeed(5)
		fmt.Fprintf(p.w, "%s  %s  %s\n",
			p.st.path.Render(path), FormatBytes(ev.Size), p.st.speed.Render(FormatRate(speed)))
	case event.FileFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s  %s  %s\n", p.st.path.Render(path), FormatBytes(ev.Size), p.st.failed.Render(errMsg))
	case event.FileCanceled:
		fmt.Fprintf(p.w, "%s  %s\n", p.st.path.Render(path), p.st.warn.Render("canceled"))
	case event.RetryScheduled:
		fmt.Fprintf(p.errW, "retry: %s  attempt %d in %s\n", ev.Path, ev.Attempt, ev.Delay)
	case event.AttributesReset:
		fmt.Fprintf(p.errW, "cleared read-only: %s\n", path)
	case event.DeferredQueued:
		target := ev.Destination
		if target == "" {
			target = "(delete)"
		}
		fmt.Fprintf(p.w, "queued: %s -> %s\n", ev.Path, target)
	case event.VerifyFailed:
		fmt.Fprintf(p.w, "%s %s\n", p.st.failed.Render("MISMATCH:"), path)
	case event.DirCreated:
		if p.verbose {
			fmt.Fprintf(p.w, "%s/\n", p.st.muted.Render(StripRoot(p.dstRoot, ev.Path)))
		}
	case event.ScanComplete:
		if p.verbose {
			fmt.Fprintf(p.errW, "scan: %s files, %s\n", FormatCount(ev.Total), FormatBytes(ev.TotalSize))
		}
	}
}

func (p *plainPresenter) printProgress() {
	fmt.Fprintln(p.errW, "progress: "+p.progressLine())
}

func (p *plainPresenter) progressLine() string {
	snap := p.stats.Snapshot()
	speed := p.stats.RollingSpeed(10)
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesCopied) / float64(snap.BytesTotal)
		return fmt.Sprintf("%.0f%% %s/%s %s/%s files %s eta %s",
			pct*100,
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal),
			FormatRate(speed),
			FormatETA(p.stats.ETA()),
		)
	}
	return fmt.Sprintf("%s copied %s files %s",
		FormatBytes(snap.BytesCopied),
		FormatCount(snap.FilesCopied),
		FormatRate(speed),
	)
}

func (p *plainPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot(), p.st)
}
