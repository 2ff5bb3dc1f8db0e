package engine

import (
	"time"

	"github.com/bamsammich/xfer/internal/pathnorm"
)

// Kind says what the source is expected to be.
type Kind int

const (
	// KindAuto probes the source to find out.
	KindAuto Kind = iota
	KindFile
	KindDirectory
)

// CopyOptions selects a copy transfer.
type CopyOptions struct {
	Overwrite          bool
	PreserveTimestamps bool
	// ComputeSize scans a directory source up front so progress has totals.
	ComputeSize bool
	// Verify compares BLAKE3 digests of source and destination after copying.
	Verify bool
}

// MoveOptions selects a move transfer.
type MoveOptions struct {
	ReplaceExisting bool
	// CopyAllowed lets a move across volumes fall back to copy + delete.
	CopyAllowed bool
	// DelayUntilReboot queues the move for the next system start. With an
	// empty destination the source is deleted instead.
	DelayUntilReboot bool
}

// RetryPolicy bounds the attempts made for transient failures. Count is the
// total number of attempts; values below 1 mean a single attempt.
type RetryPolicy struct {
	Count    int
	Interval time.Duration
}

// Request is either a RawRequest or a *ValidatedRequest.
type Request interface {
	request()
}

// RawRequest is a transfer as the caller describes it. Setting neither Copy
// nor Move means a copy with default options; setting both is an error.
type RawRequest struct {
	Source      string
	Destination string
	PathFormat  pathnorm.Format
	Kind        Kind
	// PathsChecked skips the existence probes; the caller vouches for the
	// source and the destination container, and Kind is taken as given.
	PathsChecked bool

	Copy  *CopyOptions
	Move  *MoveOptions
	Retry RetryPolicy

	Progress ProgressFunc
	UserData any
}

func (RawRequest) request() {}

// ValidatedRequest is an immutable, validated transfer. Only the validator
// creates one; passing it back in skips validation entirely.
type ValidatedRequest struct {
	rawSource, rawDestination string
	source, destination       string

	isDirectory     bool
	isCopy          bool
	emulateMove     bool
	delay           bool
	deleteOnStartup bool

	overwrite          bool
	preserveTimestamps bool
	computeSize        bool
	verify             bool
	copyAllowed        bool

	retry    RetryPolicy
	progress ProgressFunc
	userData any
}

func (*ValidatedRequest) request() {}

// Source is the canonical source path.
func (v *ValidatedRequest) Source() string { return v.source }

// Destination is the canonical destination path, empty for delete-on-startup.
func (v *ValidatedRequest) Destination() string { return v.destination }

func (v *ValidatedRequest) RawSource() string      { return v.rawSource }
func (v *ValidatedRequest) RawDestination() string { return v.rawDestination }
func (v *ValidatedRequest) IsDirectory() bool      { return v.isDirectory }
func (v *ValidatedRequest) IsCopy() bool           { return v.isCopy }
func (v *ValidatedRequest) IsMove() bool           { return !v.isCopy }
func (v *ValidatedRequest) EmulateMove() bool      { return v.emulateMove }
func (v *ValidatedRequest) DelayUntilReboot() bool { return v.delay }
func (v *ValidatedRequest) DeleteOnStartup() bool  { return v.deleteOnStartup }

// Overwrite reports whether an existing destination may be replaced (copy
// overwrite or move replace-existing).
func (v *ValidatedRequest) Overwrite() bool { return v.overwrite }

func (v *ValidatedRequest) PreserveTimestamps() bool { return v.preserveTimestamps }
func (v *ValidatedRequest) ComputeSize() bool        { return v.computeSize }
func (v *ValidatedRequest) Verify() bool             { return v.verify }
func (v *ValidatedRequest) CopyAllowed() bool        { return v.copyAllowed }
func (v *ValidatedRequest) Retry() RetryPolicy       { return v.retry }
func (v *ValidatedRequest) HasProgress() bool        { return v.progress != nil }
