package engine

import (
	"context"

	"github.com/bamsammich/xfer/internal/event"
	"github.com/bamsammich/xfer/internal/platform"
)

type state int

const (
	stateAttempting state = iota
	stateEvaluating
	stateSleeping
	stateDone
)

// coordinate drives attempts until one succeeds, the classifier gives up,
// or the transfer is canceled. A restart (after clearing a blocking
// attribute) does not use up retry budget; it can happen once.
//
//nolint:revive // cognitive-complexity: explicit state machine
func (e *Engine) coordinate(ctx context.Context, req *ValidatedRequest, res *Result, relay *progressRelay) error {
	backoff := e.backoff(req.retry)

	var (
		st      = stateAttempting
		out     outcome
		dec     decision
		retries int
		cleared bool
		done    = treeLedger{}
	)
	for {
		switch st {
		case stateAttempting:
			res.Attempts++
			relay.reset()
			out = e.execute(ctx, req, res, relay, done)
			switch {
			case out.canceled || out.stopped:
				res.Canceled = true
				res.Stopped = out.stopped
				res.ErrorCode = platform.RequestAborted
				return nil
			case out.ok():
				relay.commit()
				res.ErrorCode = platform.Success
				return nil
			}
			st = stateEvaluating

		case stateEvaluating:
			if out.final != nil {
				dec = decision{action: actionFatal, err: out.final}
				st = stateDone
				continue
			}
			dec = e.classify(req, out, retries, cleared, backoff)
			switch dec.action {
			case actionRestart:
				cleared = true
				if err := e.fs.SetAttributes(req.destination, platform.AttrNormal); err != nil {
					dec = fatal(ErrDestinationReadOnly, req.destination, out.code, err)
					st = stateDone
					continue
				}
				e.logger.Info("cleared destination attributes",
					"destination", req.destination, "code", out.code)
				if e.stats != nil {
					e.stats.AddAttributeResets(1)
				}
				emitEvent(e.events, event.Event{
					Type:        event.AttributesReset,
					Path:        req.source,
					Destination: req.destination,
				})
				st = stateAttempting
			case actionRetry:
				retries++
				st = stateSleeping
			default:
				st = stateDone
			}

		case stateSleeping:
			e.logger.Warn("retrying transfer",
				"source", req.source,
				"destination", req.destination,
				"attempt", res.Attempts+1,
				"delay", dec.delay,
				"code", out.code,
				"error", out.err,
			)
			if e.stats != nil {
				e.stats.AddRetries(1)
			}
			emitEvent(e.events, event.Event{
				Type:        event.RetryScheduled,
				Path:        req.source,
				Destination: req.destination,
				Attempt:     res.Attempts + 1,
				Delay:       dec.delay,
				Error:       out.err,
			})
			if err := e.sleep(ctx, dec.delay); err != nil {
				res.Canceled = true
				res.ErrorCode = platform.RequestAborted
				return nil
			}
			st = stateAttempting

		case stateDone:
			res.ErrorCode = dec.err.Code
			if res.ErrorCode == platform.Success {
				res.ErrorCode = platform.GenFailure
			}
			return dec.err
		}
	}
}
