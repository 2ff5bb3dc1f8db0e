package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/xfer/internal/event"
)

const (
	progressBarWidth = 20
	redrawInterval   = 100 * time.Millisecond
)

// livePresenter prints the plain feed and keeps a single status line at the
// bottom of the terminal that redraws in place.
type livePresenter struct {
	*plainPresenter
	w     io.Writer
	width int

	current string // file in flight
	drawn   bool
}

func (p *livePresenter) Run(events <-chan Event) error {
	// Seed the speed ring quickly, then tick once a second.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	seeded := false

	redraw := time.NewTicker(redrawInterval)
	defer redraw.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clear()
				return nil
			}
			p.handleEvent(ev)
		case <-redraw.C:
			p.draw()
		case <-secTicker.C:
			p.stats.Tick()
			if !seeded {
				seeded = true
				secTicker.Reset(time.Second)
			}
		}
	}
}

func (p *livePresenter) handleEvent(ev Event) {
	switch ev.Type {
	case event.FileStarted:
		p.current = StripRoot(p.dstRoot, ev.Destination)
		return
	case event.FileProgress:
		return
	}
	// Feed lines go above the status line.
	p.clear()
	p.plainPresenter.handleEvent(ev)
	p.draw()
}

func (p *livePresenter) statusLine() string {
	snap := p.stats.Snapshot()
	var bar string
	if snap.BytesTotal > 0 {
		bar = ProgressBar(float64(snap.BytesCopied)/float64(snap.BytesTotal), progressBarWidth) + " "
	}
	line := bar + p.progressLine()
	if p.current != "" {
		line += "  " + p.current
	}
	if p.width > 0 {
		// truncate before styling so escapes are never cut
		line = Truncate(line, p.width-1)
	}
	return p.st.muted.Render(line)
}

func (p *livePresenter) draw() {
	fmt.Fprintf(p.w, "\r\033[K%s", p.statusLine())
	p.drawn = true
}

func (p *livePresenter) clear() {
	if !p.drawn {
		return
	}
	fmt.Fprint(p.w, "\r\033[K")
	p.drawn = false
}
