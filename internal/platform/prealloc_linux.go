//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves disk space without changing the visible file size, so
// a stopped copy leaves only the bytes actually written. Errors are ignored
// as fallocate is not supported on all filesystems.
//
//nolint:gosec // G115: fd values are small non-negative integers
func preallocate(fd *os.File, size int64) {
	if size <= 0 {
		return
	}
	//nolint:errcheck // fallocate is advisory
	unix.Fallocate(int(fd.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size)
}
