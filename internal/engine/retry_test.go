package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/xfer/internal/platform"
	"github.com/bamsammich/xfer/internal/stats"
)

func copyRequest(opts CopyOptions, retry RetryPolicy) RawRequest {
	return RawRequest{Source: "/work/a", Destination: "/work/b", Copy: &opts, Retry: retry}
}

func TestRetryDeviceNotReadyExhaustsBudget(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.prims.copyErrs = []error{
		nativeErr(platform.NotReady),
		nativeErr(platform.NotReady),
		nativeErr(platform.NotReady),
	}

	res, err := h.engine.Transfer(context.Background(),
		copyRequest(CopyOptions{}, RetryPolicy{Count: 3, Interval: 250 * time.Millisecond}))
	require.ErrorIs(t, err, ErrDeviceNotReady)
	assert.Equal(t, platform.NotReady, res.ErrorCode)
	assert.Equal(t, 3, res.Attempts)

	copies, _ := h.prims.calls()
	assert.Equal(t, 3, copies)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, h.sleeps.delays)
}

func TestRetryRecoversAfterTransientFailure(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.prims.copyErrs = []error{nativeErr(platform.NotReady)}

	res, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{Count: 3}))
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, int64(4000), res.TotalBytes)
	assert.Len(t, h.sleeps.delays, 1)
}

func TestRetryZeroCountMeansOneAttempt(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.prims.copyErrs = []error{nativeErr(platform.NotReady)}

	res, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{}))
	require.ErrorIs(t, err, ErrDeviceNotReady)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, h.sleeps.delays)
}

func TestRetryExistsIsNeverRetried(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.fs.addFile("/work/b")
	h.prims.copyErrs = []error{nativeErr(platform.FileExists)}

	res, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{Count: 5}))
	require.ErrorIs(t, err, ErrDestinationAlreadyExists)
	assert.Equal(t, platform.FileExists, res.ErrorCode)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, h.sleeps.delays)
}

func TestRetryTypeMismatch(t *testing.T) {
	for _, code := range []platform.Code{platform.AlreadyExists, platform.AccessDenied} {
		t.Run(code.String(), func(t *testing.T) {
			h := newHarness()
			h.fs.addFile("/work/a")
			h.fs.addDir("/work/b")
			h.prims.copyErrs = []error{nativeErr(code)}

			_, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{}))
			require.ErrorIs(t, err, ErrDestinationTypeMismatch)

			var te *TransferError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "/work/b", te.Path)
		})
	}
}

func TestRetryClearsReadOnlyDestinationOnce(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.fs.addFile("/work/b").attrs = platform.AttrReadOnly
	h.prims.copyErrs = []error{nativeErr(platform.AccessDenied)}

	res, err := h.engine.Transfer(context.Background(),
		copyRequest(CopyOptions{Overwrite: true}, RetryPolicy{}))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts, "restart does not consume retry budget")
	assert.Equal(t, 1, h.fs.setAttrCalls)
	assert.Equal(t, platform.AttrNormal, h.fs.node("/work/b").attrs)
	assert.Empty(t, h.sleeps.delays)
}

func TestRetryClearsReadOnlyDestinationOnMove(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.fs.addFile("/work/b").attrs = platform.AttrReadOnly
	h.prims.moveErrs = []error{nativeErr(platform.AccessDenied)}

	res, err := h.engine.Transfer(context.Background(), RawRequest{
		Source:      "/work/a",
		Destination: "/work/b",
		Move:        &MoveOptions{ReplaceExisting: true},
	})
	require.NoError(t, err)
	assert.True(t, res.IsMove)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 1, h.fs.setAttrCalls)
	assert.Nil(t, h.fs.node("/work/a"))

	_, moves := h.prims.calls()
	assert.Equal(t, 2, moves)
}

func TestRetryReadOnlyPersistsAfterClear(t *testing.T) {
	h := newHarness()
	h.fs.stickyAttrs = true
	h.fs.addFile("/work/a")
	h.fs.addFile("/work/b").attrs = platform.AttrReadOnly | platform.AttrHidden
	h.prims.copyErrs = []error{
		nativeErr(platform.AccessDenied),
		nativeErr(platform.AccessDenied),
	}

	res, err := h.engine.Transfer(context.Background(),
		copyRequest(CopyOptions{Overwrite: true}, RetryPolicy{Count: 5}))
	require.ErrorIs(t, err, ErrDestinationReadOnly)
	assert.Equal(t, platform.AccessDenied, res.ErrorCode)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 1, h.fs.setAttrCalls, "attributes are cleared at most once")
}

func TestRetryReadOnlyWithoutOverwrite(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.fs.addFile("/work/b").attrs = platform.AttrReadOnly
	h.prims.copyErrs = []error{nativeErr(platform.AccessDenied)}

	_, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{Count: 3}))
	require.ErrorIs(t, err, ErrDestinationReadOnly)
	assert.Zero(t, h.fs.setAttrCalls)
}

func TestRetrySourceVanished(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.prims.copyErrs = []error{nativeErr(platform.FileNotFound)}
	h.prims.beforeCall = func(int) { h.fs.remove("/work/a") }

	_, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{Count: 3}))
	require.ErrorIs(t, err, ErrSourceNotFound)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "/work/a", te.Path)
}

func TestRetryDestinationContainerVanished(t *testing.T) {
	h := newHarness()
	h.fs.addDir("/work/out")
	h.fs.addFile("/work/a")
	h.prims.copyErrs = []error{nativeErr(platform.PathNotFound)}
	h.prims.beforeCall = func(int) { h.fs.remove("/work/out") }

	_, err := h.engine.Transfer(context.Background(), RawRequest{Source: "/work/a", Destination: "/work/out/b"})
	require.ErrorIs(t, err, ErrDestinationNotFound)
	assert.NotErrorIs(t, err, ErrDestinationContainerNotFound, "runtime loss is not a validation failure")
}

func TestRetryUnclassifiedPath(t *testing.T) {
	t.Run("readable source blames destination", func(t *testing.T) {
		h := newHarness()
		h.fs.addFile("/work/a")
		h.prims.copyErrs = []error{nativeErr(platform.GenFailure)}

		res, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{Count: 3}))
		require.ErrorIs(t, err, ErrUnclassified)
		assert.Equal(t, platform.GenFailure, res.ErrorCode)
		assert.Equal(t, 1, res.Attempts)

		var te *TransferError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "/work/b", te.Path)
	})
	t.Run("unreadable source blames source", func(t *testing.T) {
		h := newHarness()
		h.fs.addFile("/work/a").unreadable = true
		h.prims.copyErrs = []error{nativeErr(platform.SharingViolation)}

		res, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{}))
		require.ErrorIs(t, err, ErrUnclassified)
		assert.Equal(t, platform.SharingViolation, res.ErrorCode)

		var te *TransferError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "/work/a", te.Path)
	})
}

func TestRetryCanceledWhileSleeping(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.prims.copyErrs = []error{nativeErr(platform.NotReady), nativeErr(platform.NotReady)}

	ctx, cancel := context.WithCancel(context.Background())
	h.engine.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	res, err := h.engine.Transfer(ctx, copyRequest(CopyOptions{}, RetryPolicy{Count: 5, Interval: time.Hour}))
	require.NoError(t, err)
	assert.True(t, res.Canceled)
	assert.Equal(t, platform.RequestAborted, res.ErrorCode)
	assert.Equal(t, 1, res.Attempts)
}

func TestRetryUsesInjectedBackoff(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	h.prims.copyErrs = []error{
		nativeErr(platform.NotReady),
		nativeErr(platform.NotReady),
		nativeErr(platform.NotReady),
	}
	h.engine.backoff = func(p RetryPolicy) Backoff {
		return ExponentialBackoff{Attempts: p.Count, Initial: 10 * time.Millisecond, Max: time.Second}
	}

	res, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{Count: 4}))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
	}, h.sleeps.delays)
}

func TestRetryStatsAreNotInflated(t *testing.T) {
	h := newHarness()
	h.fs.addFile("/work/a")
	collector := stats.NewCollector()
	h.engine.stats = collector

	// The first attempt streams every chunk and then fails.
	h.engine.prims = &failAfterStream{fakePrims: h.prims, failures: 1}

	res, err := h.engine.Transfer(context.Background(), copyRequest(CopyOptions{}, RetryPolicy{Count: 2}))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)

	snap := collector.Snapshot()
	assert.Equal(t, int64(4000), snap.BytesCopied, "bytes from the failed attempt are taken back")
	assert.Equal(t, int64(1), snap.FilesCopied)
	assert.Equal(t, int64(1), snap.Retries)
}

// failAfterStream reports every chunk and then fails, the first failures times.
type failAfterStream struct {
	*fakePrims
	failures int
}

func (f *failAfterStream) CopyFile(
	ctx context.Context,
	src, dst string,
	opts platform.CopyOptions,
	sink platform.ProgressSink,
) (int64, error) {
	n, err := f.fakePrims.CopyFile(ctx, src, dst, opts, sink)
	if err == nil && f.failures > 0 {
		f.failures--
		f.fs.remove(dst)
		return n, nativeErr(platform.NotReady)
	}
	return n, err
}

func TestBackoff(t *testing.T) {
	t.Run("constant", func(t *testing.T) {
		b := ConstantBackoff{Attempts: 3, Interval: time.Second}
		d, ok := b.Next(0)
		assert.True(t, ok)
		assert.Equal(t, time.Second, d)
		_, ok = b.Next(1)
		assert.True(t, ok)
		_, ok = b.Next(2)
		assert.False(t, ok)
	})
	t.Run("constant below one attempt", func(t *testing.T) {
		_, ok := ConstantBackoff{Attempts: -2}.Next(0)
		assert.False(t, ok)
	})
	t.Run("exponential caps at max", func(t *testing.T) {
		b := ExponentialBackoff{Attempts: 10, Initial: time.Second, Max: 5 * time.Second}
		var got []time.Duration
		for i := 0; i < 5; i++ {
			d, ok := b.Next(i)
			require.True(t, ok)
			got = append(got, d)
		}
		assert.Equal(t, []time.Duration{
			time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second,
		}, got)
	})
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))
}
