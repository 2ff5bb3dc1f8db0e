package engine

import (
	"time"

	"github.com/bamsammich/xfer/internal/platform"
)

type action int

const (
	actionFatal action = iota
	actionRetry
	actionRestart
)

func (a action) String() string {
	switch a {
	case actionRetry:
		return "retry"
	case actionRestart:
		return "restart"
	default:
		return "fatal"
	}
}

type decision struct {
	action action
	delay  time.Duration
	err    *TransferError
}

func fatal(kind error, path string, code platform.Code, cause error) decision {
	return decision{
		action: actionFatal,
		err:    &TransferError{Kind: kind, Op: "transfer", Path: path, Code: code, Err: cause},
	}
}

// classify maps a failed attempt to the next step. Probes are made fresh
// because the failure may have changed the filesystem.
//
// An existence collision is always fatal, even with retries left.
//
//nolint:revive // cognitive-complexity: decision table
func (e *Engine) classify(req *ValidatedRequest, out outcome, retries int, cleared bool, b Backoff) decision {
	code := out.code
	src, dst := req.source, req.destination

	if code == platform.NotReady {
		if delay, ok := b.Next(retries); ok {
			return decision{action: actionRetry, delay: delay}
		}
		return fatal(ErrDeviceNotReady, src, code, out.err)
	}

	if !e.fs.Exists(src, req.isDirectory) {
		return fatal(ErrSourceNotFound, src, code, out.err)
	}

	// Delete-on-startup has no destination to inspect.
	if !req.deleteOnStartup {
		dstIsDir := e.fs.Exists(dst, true)
		switch {
		case code.Exists():
			if dstIsDir && !req.isDirectory {
				return fatal(ErrDestinationTypeMismatch, dst, code, out.err)
			}
			return fatal(ErrDestinationAlreadyExists, dst, code, out.err)

		case code == platform.AccessDenied:
			if dstIsDir && !req.isDirectory {
				return fatal(ErrDestinationTypeMismatch, dst, code, out.err)
			}
			attrs, err := e.fs.Attributes(dst)
			if err == nil && attrs&platform.BlockingAttributes != 0 {
				if req.overwrite && !cleared {
					return decision{action: actionRestart}
				}
				return fatal(ErrDestinationReadOnly, dst, code, out.err)
			}

		case code.NotFound():
			if !e.fs.Exists(e.validator.Normalizer.Style.Dir(dst), true) {
				return fatal(ErrDestinationNotFound, dst, code, out.err)
			}
		}
	}

	path := dst
	if path == "" || !e.fs.CanRead(src) {
		path = src
	}
	return fatal(ErrUnclassified, path, code, out.err)
}
