package platform

import (
	"golang.org/x/time/rate"
)

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
	Sendfile                 // Linux sendfile(2)
	Clonefile                // macOS clonefile(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	case Clonefile:
		return "clonefile"
	default:
		return "unknown"
	}
}

// Reason tells a progress sink why it is being called.
type Reason int

const (
	ChunkFinished Reason = iota
	StreamSwitch
)

func (r Reason) String() string {
	if r == StreamSwitch {
		return "stream_switch"
	}
	return "chunk_finished"
}

// Action is what a progress sink asks the primitive to do next.
type Action int

const (
	Continue Action = iota
	Cancel          // abort and remove the partial destination
	Stop            // abort and keep the partial destination
	Quiet           // continue without further callbacks
)

func (a Action) String() string {
	switch a {
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

// Tick is one progress report from a copy or move primitive.
type Tick struct {
	TotalSize         int64
	Transferred       int64
	StreamSize        int64
	StreamTransferred int64
	StreamIndex       int
	Reason            Reason
}

// ProgressSink receives ticks. A nil sink means the primitive never calls back.
type ProgressSink func(Tick) Action

// CopyOptions tunes CopyFile.
type CopyOptions struct {
	// Overwrite truncates an existing destination instead of failing with
	// FileExists.
	Overwrite bool
	// ChunkSize is the unit of work between progress ticks. Zero means 1 MiB.
	ChunkSize int
	// Limiter caps throughput when non-nil.
	Limiter *rate.Limiter
}

// MoveOptions tunes MoveFile.
type MoveOptions struct {
	ReplaceExisting bool
	// CopyAllowed lets a cross-volume file move fall back to copy + delete.
	CopyAllowed bool
	Copy        CopyOptions
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}
