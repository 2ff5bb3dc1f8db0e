package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bamsammich/xfer/internal/pathnorm"
	"github.com/bamsammich/xfer/internal/platform"
)

// Error kinds. Match them with errors.Is; the concrete error is a
// *TransferError carrying the offending path and native code.
var (
	ErrMalformedPath                = pathnorm.ErrMalformedPath
	ErrSameSourceAndDestination     = errors.New("source and destination are the same")
	ErrIncompatibleMoveOptions      = errors.New("incompatible transfer options")
	ErrNetworkPathNotAllowed        = errors.New("network path not allowed for deferred move")
	ErrSourceNotFound               = errors.New("source not found")
	ErrDestinationNotFound          = errors.New("destination not found")
	ErrDestinationContainerNotFound = fmt.Errorf("destination container: %w", ErrDestinationNotFound)
	ErrDestinationAlreadyExists     = errors.New("destination already exists")
	ErrDestinationTypeMismatch      = errors.New("destination is a directory but source is a file")
	ErrDestinationReadOnly          = errors.New("destination is read-only")
	ErrDeviceNotReady               = errors.New("device not ready")
	ErrCanceled                     = errors.New("transfer canceled")
	ErrChecksumMismatch             = errors.New("checksum mismatch")
	ErrUnclassified                 = errors.New("transfer failed")
)

// TransferError is a classified transfer failure.
type TransferError struct {
	Kind error
	Op   string
	Path string
	Code platform.Code
	Err  error
}

func (e *TransferError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteByte(' ')
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Code != platform.Success {
		fmt.Fprintf(&b, " (%s, code %d)", e.Code, uint32(e.Code))
	}
	if e.Err != nil && e.Err != e.Kind {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransferError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op, path string) *TransferError {
	return &TransferError{Kind: kind, Op: op, Path: path}
}

// CodeOf returns the native code carried by err, or GenFailure.
func CodeOf(err error) platform.Code {
	var te *TransferError
	if errors.As(err, &te) && te.Code != platform.Success {
		return te.Code
	}
	return platform.CodeOf(err)
}
