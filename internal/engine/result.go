package engine

import (
	"time"

	"github.com/bamsammich/xfer/internal/platform"
)

// Result describes a finished transfer. A canceled or stopped transfer is
// not an error: Canceled is set and ErrorCode is RequestAborted.
type Result struct {
	Source      string
	Destination string

	TotalBytes   int64
	TotalFiles   int64
	TotalFolders int64

	ErrorCode platform.Code
	Canceled  bool
	// Stopped distinguishes a Stop decision, which keeps the partial
	// destination, from a Cancel, which removes it.
	Stopped bool

	Attempts int
	Elapsed  time.Duration

	IsCopy         bool
	IsMove         bool
	IsEmulatedMove bool
}

// Succeeded reports whether the transfer ran to completion.
func (r Result) Succeeded() bool {
	return r.ErrorCode == platform.Success && !r.Canceled
}
