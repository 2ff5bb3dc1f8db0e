//go:build linux

package platform

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// chunkCopier tries the most efficient method available on Linux and
// remembers the first one that works, falling through on unsupported or
// cross-device errors.
type chunkCopier struct {
	src, dst *os.File
	method   CopyMethod
}

func newChunkCopier(src, dst *os.File) *chunkCopier {
	return &chunkCopier{src: src, dst: dst, method: CopyFileRange}
}

func (c *chunkCopier) copy(off, n int64) (int64, error) {
	for {
		var (
			w   int64
			err error
		)
		switch c.method {
		case CopyFileRange:
			w, err = c.copyFileRange(off, n)
		case Sendfile:
			w, err = c.sendfile(off, n)
		default:
			return copyReadWrite(c.src, c.dst, off, n)
		}
		if err == nil || w > 0 || !isFallbackErr(err) {
			return w, err
		}
		if c.method == CopyFileRange {
			c.method = Sendfile
		} else {
			c.method = ReadWrite
		}
	}
}

//nolint:gosec // G115: fd values are small non-negative integers
func (c *chunkCopier) copyFileRange(off, n int64) (int64, error) {
	roff, woff := off, off
	var total int64
	for total < n {
		w, err := unix.CopyFileRange(int(c.src.Fd()), &roff, int(c.dst.Fd()), &woff, int(n-total), 0)
		if err != nil {
			return total, err
		}
		if w == 0 {
			break
		}
		total += int64(w)
	}
	return total, nil
}

//nolint:gosec // G115: fd values are small non-negative integers
func (c *chunkCopier) sendfile(off, n int64) (int64, error) {
	// sendfile writes at the destination's file offset.
	if _, err := c.dst.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	roff := off
	var total int64
	for total < n {
		w, err := unix.Sendfile(int(c.dst.Fd()), int(c.src.Fd()), &roff, int(n-total))
		if err != nil {
			return total, err
		}
		if w == 0 {
			break
		}
		total += int64(w)
	}
	return total, nil
}

// isFallbackErr returns true if err should trigger a fallback to the next copy strategy.
func isFallbackErr(err error) bool {
	return errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP)
}
