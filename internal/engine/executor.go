package engine

import (
	"context"
	"errors"

	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/platform"
)

// outcome is the result of a single attempt.
type outcome struct {
	code platform.Code
	err  error
	// final is an error that is already classified and must not be retried,
	// such as a checksum mismatch or a failed child of a directory copy.
	final    *TransferError
	canceled bool
	stopped  bool
}

func (o outcome) ok() bool {
	return o.err == nil && o.final == nil && !o.canceled && !o.stopped
}

func failed(err error) outcome {
	return outcome{code: CodeOf(err), err: err}
}

// execute makes exactly one attempt at req, recording what it moved in res.
// done carries directory-copy progress between attempts.
func (e *Engine) execute(
	ctx context.Context,
	req *ValidatedRequest,
	res *Result,
	relay *progressRelay,
	done treeLedger,
) outcome {
	if ctx.Err() != nil {
		return outcome{canceled: true}
	}
	switch {
	case req.delay:
		return e.enqueueDeferred(req, res)
	case req.isDirectory && (req.isCopy || req.emulateMove):
		return e.copyTree(ctx, req, res, done)
	case req.isCopy:
		return e.copyFile(ctx, req, res, relay)
	default:
		return e.moveFile(ctx, req, res, relay)
	}
}

func (e *Engine) copyFile(ctx context.Context, req *ValidatedRequest, res *Result, relay *progressRelay) outcome {
	// Times are read before the copy touches anything.
	var times platform.Times
	if req.preserveTimestamps {
		t, err := e.fs.Times(req.source)
		if err != nil {
			return failed(err)
		}
		times = t
	}

	n, err := e.prims.CopyFile(ctx, req.source, req.destination, platform.CopyOptions{
		Overwrite: req.overwrite,
		ChunkSize: e.chunkSize,
		Limiter:   e.limiter,
	}, relay.sink())
	res.TotalBytes = n
	if err != nil {
		return e.primitiveFailure(err, relay)
	}

	if req.preserveTimestamps {
		if err := e.fs.SetTimes(req.destination, times); err != nil {
			return failed(err)
		}
	}
	if req.verify {
		if o := e.verifyCopy(req); !o.ok() {
			return o
		}
	}
	res.TotalFiles++
	return outcome{}
}

func (e *Engine) moveFile(ctx context.Context, req *ValidatedRequest, res *Result, relay *progressRelay) outcome {
	n, err := e.prims.MoveFile(ctx, req.source, req.destination, platform.MoveOptions{
		ReplaceExisting: req.overwrite,
		CopyAllowed:     req.copyAllowed,
		Copy:            platform.CopyOptions{ChunkSize: e.chunkSize, Limiter: e.limiter},
	}, relay.sink())
	res.TotalBytes = n
	if err != nil {
		return e.primitiveFailure(err, relay)
	}
	if req.isDirectory {
		res.TotalFolders++
	} else {
		res.TotalFiles++
	}
	return outcome{}
}

func (e *Engine) enqueueDeferred(req *ValidatedRequest, res *Result) outcome {
	if err := e.deferred.Enqueue(req.source, req.destination); err != nil {
		return failed(err)
	}
	e.logger.Info("queued deferred operation",
		"source", req.source,
		"destination", req.destination,
		"delete", req.deleteOnStartup,
	)
	if e.stats != nil {
		e.stats.AddDeferredQueued(1)
	}
	emitEvent(e.events, event.Event{
		Type:        event.DeferredQueued,
		Path:        req.source,
		Destination: req.destination,
	})
	if req.isDirectory {
		res.TotalFolders++
	} else {
		res.TotalFiles++
	}
	return outcome{}
}

// primitiveFailure separates an abort requested through the relay (or the
// context) from a real native failure.
func (e *Engine) primitiveFailure(err error, relay *progressRelay) outcome {
	switch {
	case relay.stopped || errors.Is(err, platform.ErrStopped):
		return outcome{stopped: true, code: platform.RequestAborted, err: err}
	case relay.canceled || platform.CodeOf(err) == platform.RequestAborted:
		return outcome{canceled: true, code: platform.RequestAborted, err: err}
	}
	return failed(err)
}

func (e *Engine) verifyCopy(req *ValidatedRequest) outcome {
	err := VerifyFile(req.source, req.destination)
	if err == nil {
		if e.stats != nil {
			e.stats.AddFilesVerified(1)
		}
		emitEvent(e.events, event.Event{Type: event.VerifyOK, Path: req.source, Destination: req.destination})
		return outcome{}
	}

	if e.stats != nil {
		e.stats.AddFilesVerifyFailed(1)
	}
	emitEvent(e.events, event.Event{
		Type:        event.VerifyFailed,
		Path:        req.source,
		Destination: req.destination,
		Error:       err,
	})
	if errors.Is(err, ErrChecksumMismatch) {
		var te *TransferError
		errors.As(err, &te)
		return outcome{code: platform.GenFailure, err: err, final: te}
	}
	return failed(err)
}
