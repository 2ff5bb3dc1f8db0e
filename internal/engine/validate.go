package engine

import (
	"fmt"
	"strings"

	"github.com/bamsammich/xfer/internal/pathnorm"
)

// Validator turns a RawRequest into a ValidatedRequest. Checks run in a
// fixed order so the cheapest, purely textual ones fail first and no
// filesystem probe is made for a request that is malformed on its face.
type Validator struct {
	FS         FileSystem
	Normalizer pathnorm.Normalizer
}

// Validate checks req. A *ValidatedRequest is returned unchanged without
// any probing.
func (v Validator) Validate(req Request) (*ValidatedRequest, error) {
	switch r := req.(type) {
	case *ValidatedRequest:
		if r == nil {
			return nil, newError(ErrMalformedPath, "validate", "")
		}
		return r, nil
	case RawRequest:
		return v.validate(r)
	case *RawRequest:
		if r == nil {
			return nil, newError(ErrMalformedPath, "validate", "")
		}
		return v.validate(*r)
	default:
		return nil, fmt.Errorf("validate: unsupported request type %T", req)
	}
}

//nolint:revive // cognitive-complexity: validation is a fixed sequence of checks
func (v Validator) validate(raw RawRequest) (*ValidatedRequest, error) {
	if strings.TrimSpace(raw.Source) == "" {
		return nil, newError(ErrMalformedPath, "validate source", raw.Source)
	}
	delay := raw.Move != nil && raw.Move.DelayUntilReboot
	dstAbsent := strings.TrimSpace(raw.Destination) == ""
	if dstAbsent && !delay {
		return nil, newError(ErrMalformedPath, "validate destination", raw.Destination)
	}

	if !dstAbsent && raw.Source == raw.Destination {
		return nil, newError(ErrSameSourceAndDestination, "validate", raw.Source)
	}

	if raw.Copy != nil && raw.Move != nil {
		return nil, newError(ErrIncompatibleMoveOptions, "validate", raw.Source)
	}
	isCopy := raw.Move == nil

	if delay {
		if raw.Move.CopyAllowed {
			return nil, newError(ErrIncompatibleMoveOptions, "validate", raw.Source)
		}
		if v.FS.IsNetwork(raw.Source) {
			return nil, newError(ErrNetworkPathNotAllowed, "validate", raw.Source)
		}
	}
	deleteOnStartup := delay && dstAbsent

	src, err := v.Normalizer.Normalize(raw.Source, raw.PathFormat)
	if err != nil {
		return nil, &TransferError{Kind: ErrMalformedPath, Op: "normalize", Path: raw.Source, Err: err}
	}
	var dst string
	if !deleteOnStartup {
		dst, err = v.Normalizer.Normalize(raw.Destination, raw.PathFormat)
		if err != nil {
			return nil, &TransferError{Kind: ErrMalformedPath, Op: "normalize", Path: raw.Destination, Err: err}
		}
		if v.samePath(src, dst) {
			return nil, newError(ErrSameSourceAndDestination, "validate", src)
		}
	}

	isDir := raw.Kind == KindDirectory
	if !raw.PathsChecked {
		switch raw.Kind {
		case KindAuto:
			isDir = v.FS.Exists(src, true)
			if !isDir && !v.FS.Exists(src, false) {
				return nil, newError(ErrSourceNotFound, "validate", src)
			}
		default:
			if !v.FS.Exists(src, isDir) {
				return nil, newError(ErrSourceNotFound, "validate", src)
			}
		}
		if !deleteOnStartup {
			if container := v.Normalizer.Style.Dir(dst); !v.FS.Exists(container, true) {
				return nil, newError(ErrDestinationContainerNotFound, "validate", container)
			}
		}
	}

	vr := &ValidatedRequest{
		rawSource:       raw.Source,
		rawDestination:  raw.Destination,
		source:          src,
		destination:     dst,
		isDirectory:     isDir,
		isCopy:          isCopy,
		delay:           delay,
		deleteOnStartup: deleteOnStartup,
		retry:           raw.Retry,
		progress:        raw.Progress,
		userData:        raw.UserData,
	}
	if isCopy {
		opts := CopyOptions{}
		if raw.Copy != nil {
			opts = *raw.Copy
		}
		vr.overwrite = opts.Overwrite
		vr.preserveTimestamps = opts.PreserveTimestamps
		vr.computeSize = opts.ComputeSize
		vr.verify = opts.Verify
	} else {
		vr.overwrite = raw.Move.ReplaceExisting
		vr.copyAllowed = raw.Move.CopyAllowed
		if vr.copyAllowed && isDir {
			same, err := v.FS.SameVolume(src, v.Normalizer.Style.Dir(dst))
			vr.emulateMove = err == nil && !same
		}
	}
	return vr, nil
}

// samePath compares canonical paths. Windows paths are case-insensitive.
func (v Validator) samePath(a, b string) bool {
	if v.Normalizer.Style == pathnorm.Windows {
		return strings.EqualFold(a, b)
	}
	return a == b
}
