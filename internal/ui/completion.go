package ui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/xfer/internal/stats"
)

// CompletionSummary builds the final summary line from a snapshot.
// Format: done ✓  files 1,024  size 2.1 GiB  avg 641 MiB/s  time 3m 17s  errors 0
func CompletionSummary(snap stats.Snapshot) string {
	return completionSummary(snap, newStyles(false))
}

func completionSummary(snap stats.Snapshot, st styles) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	icon := st.done.Render("✓")
	switch {
	case snap.FilesFailed > 0 || snap.FilesVerifyFailed > 0:
		icon = st.failed.Render("✗")
	case snap.FilesCanceled > 0:
		icon = st.warn.Render("■")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  files %s  size %s  avg %s  time %s",
		st.heading.Render("done"),
		icon,
		FormatCount(snap.FilesCopied),
		FormatBytes(snap.BytesCopied),
		st.speed.Render(FormatRate(avgSpeed)),
		FormatDuration(snap.Elapsed),
	)
	if snap.DirsCreated > 0 {
		fmt.Fprintf(&b, "  dirs %s", FormatCount(snap.DirsCreated))
	}
	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		fmt.Fprintf(&b, "  verified %s", FormatCount(snap.FilesVerified))
	}
	if snap.Retries > 0 {
		fmt.Fprintf(&b, "  retries %d", snap.Retries)
	}
	if snap.AttributeResets > 0 {
		fmt.Fprintf(&b, "  resets %d", snap.AttributeResets)
	}
	if snap.DeferredQueued > 0 {
		fmt.Fprintf(&b, "  deferred %d", snap.DeferredQueued)
	}
	if snap.FilesCanceled > 0 {
		fmt.Fprintf(&b, "  canceled %d", snap.FilesCanceled)
	}
	fmt.Fprintf(&b, "  errors %d", snap.FilesFailed+snap.FilesVerifyFailed)
	return b.String()
}
