package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/pathnorm"
	"github.com/bamsammich/xfer/internal/platform"
)

var errTreeAborted = errors.New("tree copy aborted")

// treeLedger holds the destination entries earlier attempts of the same
// request already produced. A retried walk skips them instead of colliding
// with its own output.
type treeLedger map[string]bool

// copyTree copies a directory by descending into it and running a full
// transfer (validation, retries, classification) for every regular file.
// Symlinks are recreated, other special files are skipped. For an emulated
// move the source tree is removed once everything has been copied, and file
// times are carried as a native move would.
//
//nolint:revive // cognitive-complexity: walk callback dispatches on entry type
func (e *Engine) copyTree(ctx context.Context, req *ValidatedRequest, res *Result, done treeLedger) outcome {
	root, dstRoot := req.source, req.destination

	if req.computeSize {
		e.scanTree(ctx, root)
	}

	var childAbort outcome
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctx.Err() != nil {
			childAbort = outcome{canceled: true}
			return errTreeAborted
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		target := dstRoot
		if rel != "." {
			target = filepath.Join(dstRoot, rel)
		}
		if done[target] {
			return nil
		}

		switch {
		case d.IsDir():
			if err := e.makeTreeDir(req, d, target, res); err != nil {
				return err
			}
			done[target] = true
			return nil

		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			if req.overwrite {
				if info, err := os.Lstat(target); err == nil && !info.IsDir() {
					_ = os.Remove(target)
				}
			}
			if err := e.prims.Symlink(link, target); err != nil {
				return err
			}
			done[target] = true
			return nil

		case d.Type().IsRegular():
			child, err := e.Transfer(ctx, RawRequest{
				Source:       p,
				Destination:  target,
				PathFormat:   pathnorm.Canonical,
				Kind:         KindFile,
				PathsChecked: true,
				Copy: &CopyOptions{
					Overwrite:          req.overwrite,
					PreserveTimestamps: req.preserveTimestamps || req.emulateMove,
					Verify:             req.verify,
				},
				Retry:    req.retry,
				Progress: req.progress,
				UserData: req.userData,
			})
			res.TotalBytes += child.TotalBytes
			res.TotalFiles += child.TotalFiles
			if child.Canceled {
				childAbort = outcome{canceled: !child.Stopped, stopped: child.Stopped}
				return errTreeAborted
			}
			if err != nil {
				return err
			}
			done[target] = true
			return nil

		default:
			e.logger.Debug("skipping special file", "path", p, "mode", d.Type().String())
			return nil
		}
	})

	switch {
	case errors.Is(err, errTreeAborted):
		return childAbort
	case err != nil:
		var te *TransferError
		if errors.As(err, &te) {
			return outcome{code: te.Code, err: err, final: te}
		}
		return failed(err)
	}

	if req.emulateMove {
		if err := e.prims.RemoveAll(root); err != nil {
			return failed(err)
		}
	}
	return outcome{}
}

func (e *Engine) makeTreeDir(req *ValidatedRequest, d fs.DirEntry, target string, res *Result) error {
	perm := fs.FileMode(0o755)
	if info, err := d.Info(); err == nil {
		perm = info.Mode().Perm() | 0o700
	}
	if err := e.prims.MakeDir(target, perm); err != nil {
		// An existing directory is fine when merging into it is allowed.
		if !platform.CodeOf(err).Exists() || !req.overwrite || !e.fs.Exists(target, true) {
			return err
		}
		return nil
	}
	res.TotalFolders++
	if e.stats != nil {
		e.stats.AddDirsCreated(1)
	}
	emitEvent(e.events, event.Event{Type: event.DirCreated, Path: target})
	return nil
}

// scanTree totals the regular files under root for progress reporting.
func (e *Engine) scanTree(ctx context.Context, root string) {
	emitEvent(e.events, event.Event{Type: event.ScanStarted, Path: root})

	var files, bytes int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries surface during the copy
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				files++
				bytes += info.Size()
			}
		}
		return nil
	})

	if e.stats != nil {
		e.stats.SetTotals(files, bytes)
	}
	emitEvent(e.events, event.Event{
		Type:      event.ScanComplete,
		Path:      root,
		Total:     files,
		TotalSize: bytes,
	})
}
