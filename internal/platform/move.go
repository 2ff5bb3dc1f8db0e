package platform

import (
	"context"
	"os"
)

// MoveFile renames src to dst. Without opts.ReplaceExisting an existing
// destination fails with FileExists. A rename across volumes fails with
// NotSameDevice unless opts.CopyAllowed is set and src is a regular file, in
// which case the file is copied (keeping its timestamps) and src removed.
//
// A same-volume rename is atomic and reports a single finished tick.
func MoveFile(ctx context.Context, src, dst string, opts MoveOptions, sink ProgressSink) (int64, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return 0, newError("lstat", src, err)
	}
	var size int64
	if info.Mode().IsRegular() {
		size = info.Size()
	}

	err = rename(src, dst, opts.ReplaceExisting)
	if err == nil {
		if sink != nil {
			// already moved; the answer cannot undo it
			sink(Tick{
				TotalSize:         size,
				Transferred:       size,
				StreamSize:        size,
				StreamTransferred: size,
				Reason:            ChunkFinished,
			})
		}
		return size, nil
	}
	if CodeOf(err) != NotSameDevice || !opts.CopyAllowed || !info.Mode().IsRegular() {
		return 0, err
	}

	times, err := GetTimes(src)
	if err != nil {
		return 0, newError("stat", src, err)
	}
	copyOpts := opts.Copy
	copyOpts.Overwrite = opts.ReplaceExisting
	result, err := CopyFile(ctx, src, dst, copyOpts, sink)
	if err != nil {
		return result.BytesWritten, err
	}
	if err := SetTimes(dst, times); err != nil {
		return result.BytesWritten, newError("chtimes", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return result.BytesWritten, newError("remove", src, err)
	}
	return result.BytesWritten, nil
}

// renameChecked refuses to replace an existing destination before renaming.
// It is racy and only used where the kernel has no no-replace rename.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &Error{Op: "rename", Path: dst, Code: FileExists, Err: os.ErrExist}
	}
	if err := os.Rename(src, dst); err != nil {
		return newError("rename", dst, err)
	}
	return nil
}
