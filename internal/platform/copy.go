package platform

import (
	"context"
	"errors"
	"os"

	"golang.org/x/time/rate"
)

const defaultChunkSize = 1 << 20 // 1 MiB

var errIsDirectory = errors.New("is a directory")

// CopyFile copies the regular file src to dst, calling sink after every chunk.
// The destination is created with the source's permission bits. Unless
// opts.Overwrite is set an existing destination fails with FileExists.
//
// A sink returning Cancel (or ctx being canceled) aborts the copy and removes
// the partial destination; Stop aborts and leaves it. Both report
// RequestAborted.
func CopyFile(ctx context.Context, src, dst string, opts CopyOptions, sink ProgressSink) (CopyResult, error) {
	srcFd, err := os.Open(src)
	if err != nil {
		return CopyResult{}, newError("open", src, err)
	}
	defer srcFd.Close()

	info, err := srcFd.Stat()
	if err != nil {
		return CopyResult{}, newError("stat", src, err)
	}
	if info.IsDir() {
		return CopyResult{}, &Error{Op: "copy", Path: src, Code: AccessDenied, Err: errIsDirectory}
	}
	size := info.Size()

	// Whole-file clones have no chunk boundaries to report on or throttle.
	if sink == nil && opts.Limiter == nil && !opts.Overwrite {
		if ok, err := cloneFile(src, dst); ok {
			if err != nil {
				return CopyResult{}, newError("clonefile", dst, err)
			}
			return CopyResult{BytesWritten: size, Method: Clonefile}, nil
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	dstFd, err := os.OpenFile(dst, flags, info.Mode().Perm())
	if err != nil {
		return CopyResult{}, newError("create", dst, err)
	}
	RegisterPartial(dst)
	defer DeregisterPartial(dst)

	result, err := copyChunks(ctx, srcFd, dstFd, size, opts, sink)
	if closeErr := dstFd.Close(); err == nil && closeErr != nil {
		err = newError("close", dst, closeErr)
	}
	if err != nil {
		if !errors.Is(err, ErrStopped) {
			_ = os.Remove(dst)
		}
		return result, err
	}
	return result, nil
}

func copyChunks(
	ctx context.Context,
	src, dst *os.File,
	size int64,
	opts CopyOptions,
	sink ProgressSink,
) (CopyResult, error) {
	chunk := int64(opts.ChunkSize)
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	preallocate(dst, size)

	notify := func(t Tick) error {
		if ctx.Err() != nil {
			return abortError(dst.Name(), ErrCanceled)
		}
		if sink == nil {
			return nil
		}
		switch sink(t) {
		case Cancel:
			return abortError(dst.Name(), ErrCanceled)
		case Stop:
			return abortError(dst.Name(), ErrStopped)
		case Quiet:
			sink = nil
		}
		return nil
	}

	if err := notify(Tick{TotalSize: size, StreamSize: size, Reason: StreamSwitch}); err != nil {
		return CopyResult{}, err
	}

	cc := newChunkCopier(src, dst)
	var off int64
	for off < size {
		n := min(chunk, size-off)
		if opts.Limiter != nil {
			if err := waitLimiter(ctx, opts.Limiter, n); err != nil {
				return CopyResult{BytesWritten: off, Method: cc.method}, abortError(dst.Name(), ErrCanceled)
			}
		}
		w, err := cc.copy(off, n)
		off += w
		if err != nil {
			return CopyResult{BytesWritten: off, Method: cc.method}, newError("write", dst.Name(), err)
		}
		if w == 0 {
			// source shrank underneath us
			break
		}
		err = notify(Tick{
			TotalSize:         size,
			Transferred:       off,
			StreamSize:        size,
			StreamTransferred: off,
			Reason:            ChunkFinished,
		})
		if err != nil {
			return CopyResult{BytesWritten: off, Method: cc.method}, err
		}
	}
	return CopyResult{BytesWritten: off, Method: cc.method}, nil
}

func abortError(path string, err error) *Error {
	return &Error{Op: "copy", Path: path, Code: RequestAborted, Err: err}
}

// waitLimiter blocks until n bytes may pass. WaitN rejects requests larger
// than the burst, so large chunks are admitted in burst-sized pieces.
func waitLimiter(ctx context.Context, lim *rate.Limiter, n int64) error {
	burst := int64(lim.Burst())
	if burst <= 0 {
		return nil
	}
	for n > 0 {
		take := min(n, burst)
		if err := lim.WaitN(ctx, int(take)); err != nil {
			return err
		}
		n -= take
	}
	return nil
}

// NewBWLimiter creates a rate.Limiter that caps aggregate throughput to
// bytesPerSec. The burst is 1 MB so whole chunks pass without needless
// blocking on small reads.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20 // 1 MB
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}
