package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

const ringSize = 60

// Collector tracks transfer statistics using lock-free atomic counters.
type Collector struct {
	filesCopied       atomic.Int64
	filesFailed       atomic.Int64
	filesCanceled     atomic.Int64
	bytesCopied       atomic.Int64
	dirsCreated       atomic.Int64
	retries           atomic.Int64
	attributeResets   atomic.Int64
	deferredQueued    atomic.Int64
	filesVerified     atomic.Int64
	filesVerifyFailed atomic.Int64
	bytesTotal        atomic.Int64
	filesTotal        atomic.Int64
	startTime         time.Time

	// Ring buffer, written only by the presenter's Tick().
	mu         sync.Mutex
	throughput [ringSize]int64 // bytes delta per second
	ringIdx    int
	ringCount  int // samples written, capped at ringSize
	lastBytes  int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTotals records scan totals.
func (c *Collector) SetTotals(files, bytes int64) {
	c.filesTotal.Store(files)
	c.bytesTotal.Store(bytes)
}

// AddBytesTotal grows the expected byte count when no scan ran.
func (c *Collector) AddBytesTotal(n int64) { c.bytesTotal.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesCopied       int64
	FilesFailed       int64
	FilesCanceled     int64
	BytesCopied       int64
	DirsCreated       int64
	Retries           int64
	AttributeResets   int64
	DeferredQueued    int64
	FilesVerified     int64
	FilesVerifyFailed int64
	BytesTotal        int64
	FilesTotal        int64
	Elapsed           time.Duration
}

func (c *Collector) AddFilesCopied(n int64)       { c.filesCopied.Add(n) }
func (c *Collector) AddFilesFailed(n int64)       { c.filesFailed.Add(n) }
func (c *Collector) AddFilesCanceled(n int64)     { c.filesCanceled.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)       { c.dirsCreated.Add(n) }
func (c *Collector) AddRetries(n int64)           { c.retries.Add(n) }
func (c *Collector) AddAttributeResets(n int64)   { c.attributeResets.Add(n) }
func (c *Collector) AddDeferredQueued(n int64)    { c.deferredQueued.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.filesVerified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.filesVerifyFailed.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesCopied:       c.filesCopied.Load(),
		FilesFailed:       c.filesFailed.Load(),
		FilesCanceled:     c.filesCanceled.Load(),
		BytesCopied:       c.bytesCopied.Load(),
		DirsCreated:       c.dirsCreated.Load(),
		Retries:           c.retries.Load(),
		AttributeResets:   c.attributeResets.Load(),
		DeferredQueued:    c.deferredQueued.Load(),
		FilesVerified:     c.filesVerified.Load(),
		FilesVerifyFailed: c.filesVerifyFailed.Load(),
		BytesTotal:        c.bytesTotal.Load(),
		FilesTotal:        c.filesTotal.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Tick snapshots the byte delta into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	current := c.bytesCopied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = current - c.lastBytes
	c.lastBytes = current
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(seconds, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := 0; i < count; i++ {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += c.throughput[idx]
	}
	return float64(sum) / float64(count)
}

// ETA estimates remaining time based on rolling speed and remaining bytes.
func (c *Collector) ETA() time.Duration {
	speed := c.RollingSpeed(10)
	if speed <= 0 {
		return 0
	}
	remaining := c.bytesTotal.Load() - c.bytesCopied.Load()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/speed) * time.Second
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"copied=%d failed=%d canceled=%d bytes=%d dirs=%d retries=%d resets=%d deferred=%d",
		s.FilesCopied, s.FilesFailed, s.FilesCanceled, s.BytesCopied,
		s.DirsCreated, s.Retries, s.AttributeResets, s.DeferredQueued,
	)
}

// FormatBytes returns a human-readable byte count in IEC units.
func FormatBytes(b int64) string {
	if b < 0 {
		return "-" + humanize.IBytes(uint64(-b))
	}
	return humanize.IBytes(uint64(b))
}
