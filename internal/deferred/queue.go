package deferred

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/bamsammich/xfer/internal/platform"
)

type queueFile struct {
	Ops []Op `toml:"op"`
}

// FileQueue persists pending operations in a TOML file. It stands in for
// the OS boot-time rename list on systems that have none; `xfer pending
// --apply` (typically from a boot unit) replays it.
type FileQueue struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileQueue returns a queue stored at path. The file and its directory
// are created on first Enqueue.
func NewFileQueue(path string) *FileQueue {
	return &FileQueue{path: path, now: time.Now}
}

// Path returns the queue file location.
func (q *FileQueue) Path() string { return q.path }

// Enqueue appends an operation to the queue.
func (q *FileQueue) Enqueue(source, destination string) error {
	if source == "" {
		return errors.New("deferred: empty source")
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	qf, err := q.load()
	if err != nil {
		return err
	}
	qf.Ops = append(qf.Ops, Op{
		ID:          uuid.New().String(),
		Source:      source,
		Destination: destination,
		Queued:      q.now().UTC().Truncate(time.Second),
	})
	return q.save(qf)
}

// Pending returns the queued operations in enqueue order.
func (q *FileQueue) Pending() ([]Op, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	qf, err := q.load()
	if err != nil {
		return nil, err
	}
	return qf.Ops, nil
}

// ApplyReport summarizes an Apply run.
type ApplyReport struct {
	Applied []Op
	Failed  []Op
}

// Apply runs every queued operation in order. Moves replace an existing
// destination. Operations that fail stay queued and their errors are
// joined into the returned error.
func (q *FileQueue) Apply(ctx context.Context) (ApplyReport, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	qf, err := q.load()
	if err != nil {
		return ApplyReport{}, err
	}

	var (
		report ApplyReport
		errs   []error
		keep   []Op
	)
	for _, op := range qf.Ops {
		if ctx.Err() != nil {
			keep = append(keep, op)
			continue
		}
		if err := run(ctx, op); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", op, err))
			report.Failed = append(report.Failed, op)
			keep = append(keep, op)
			continue
		}
		report.Applied = append(report.Applied, op)
	}

	qf.Ops = keep
	if err := q.save(qf); err != nil {
		errs = append(errs, err)
	}
	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	return report, errors.Join(errs...)
}

func run(ctx context.Context, op Op) error {
	if op.IsDelete() {
		return os.RemoveAll(op.Source)
	}
	_, err := platform.MoveFile(ctx, op.Source, op.Destination, platform.MoveOptions{
		ReplaceExisting: true,
		CopyAllowed:     true,
	}, nil)
	return err
}

func (q *FileQueue) load() (queueFile, error) {
	var qf queueFile
	if _, err := toml.DecodeFile(q.path, &qf); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return queueFile{}, nil
		}
		return queueFile{}, fmt.Errorf("read deferred queue: %w", err)
	}
	return qf, nil
}

// save writes the queue atomically. An empty queue removes the file.
func (q *FileQueue) save(qf queueFile) error {
	if len(qf.Ops) == 0 {
		if err := os.Remove(q.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove deferred queue: %w", err)
		}
		return nil
	}

	dir := filepath.Dir(q.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(qf); err != nil {
		return fmt.Errorf("encode deferred queue: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(q.path), uuid.New().String()[:8]))
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write deferred queue: %w", err)
	}
	if err := os.Rename(tmp, q.path); err != nil {
		os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write deferred queue: %w", err)
	}
	return nil
}
