package platform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Code is a native error code. Values match the Win32 codes so results carry
// the same numbers on every OS; on Unix they are mapped from errno.
type Code uint32

const (
	Success          Code = 0
	FileNotFound     Code = 2
	PathNotFound     Code = 3
	AccessDenied     Code = 5
	NotSameDevice    Code = 17
	NotReady         Code = 21
	GenFailure       Code = 31
	SharingViolation Code = 32
	InvalidParameter Code = 87
	FileExists       Code = 80
	DirNotEmpty      Code = 145
	AlreadyExists    Code = 183
	RequestAborted   Code = 1235
)

var codeNames = map[Code]string{
	Success:          "success",
	FileNotFound:     "file not found",
	PathNotFound:     "path not found",
	AccessDenied:     "access denied",
	NotSameDevice:    "not same device",
	NotReady:         "device not ready",
	GenFailure:       "general failure",
	SharingViolation: "sharing violation",
	InvalidParameter: "invalid parameter",
	FileExists:       "file exists",
	DirNotEmpty:      "directory not empty",
	AlreadyExists:    "already exists",
	RequestAborted:   "request aborted",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "code " + strconv.FormatUint(uint64(c), 10)
}

// Exists reports whether c is one of the "destination already there" codes.
func (c Code) Exists() bool {
	return c == FileExists || c == AlreadyExists
}

// NotFound reports whether c is one of the "path missing" codes.
func (c Code) NotFound() bool {
	return c == FileNotFound || c == PathNotFound
}

// Error is a failed native operation.
type Error struct {
	Op   string
	Path string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrCanceled is returned when a progress sink cancels a copy. The
	// partial destination has been removed.
	ErrCanceled = errors.New("copy canceled")
	// ErrStopped is returned when a progress sink stops a copy. The partial
	// destination is left in place.
	ErrStopped = errors.New("copy stopped")
)

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Code: CodeOf(err), Err: err}
}

// CodeOf extracts the native code carried by err. Unknown errors map to
// GenFailure; nil maps to Success.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	if errors.Is(err, ErrCanceled) || errors.Is(err, ErrStopped) ||
		errors.Is(err, context.Canceled) {
		return RequestAborted
	}
	if c, ok := codeFromErrno(err); ok {
		return c
	}
	return GenFailure
}
