package engine

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bamsammich/xfer/internal/pathnorm"
	"github.com/bamsammich/xfer/internal/platform"
)

type fakeNode struct {
	dir        bool
	attrs      platform.Attributes
	times      platform.Times
	unreadable bool
}

// fakeFS is an in-memory FileSystem that counts the probes made against it.
type fakeFS struct {
	mu    sync.Mutex
	nodes map[string]*fakeNode

	probes       int
	setAttrCalls int
	// stickyAttrs makes SetAttributes report success without changing anything.
	stickyAttrs bool
	crossVolume bool
	network     map[string]bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{nodes: map[string]*fakeNode{}, network: map[string]bool{}}
}

func (f *fakeFS) addDir(p string) *fakeNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := &fakeNode{dir: true, attrs: platform.AttrDirectory}
	f.nodes[p] = n
	return n
}

func (f *fakeFS) addFile(p string) *fakeNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := &fakeNode{attrs: platform.AttrNormal}
	f.nodes[p] = n
	return n
}

func (f *fakeFS) remove(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.nodes, p)
}

func (f *fakeFS) node(p string) *fakeNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nodes[p]
}

func (f *fakeFS) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

func (f *fakeFS) Exists(p string, isDir bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	n := f.nodes[p]
	return n != nil && n.dir == isDir
}

func (f *fakeFS) Attributes(p string) (platform.Attributes, error) {
	n := f.node(p)
	if n == nil {
		return 0, os.ErrNotExist
	}
	return n.attrs, nil
}

func (f *fakeFS) SetAttributes(p string, a platform.Attributes) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setAttrCalls++
	n := f.nodes[p]
	if n == nil {
		return os.ErrNotExist
	}
	if !f.stickyAttrs {
		n.attrs = a
	}
	return nil
}

func (f *fakeFS) CanRead(p string) bool {
	n := f.node(p)
	return n != nil && !n.unreadable
}

func (f *fakeFS) Times(p string) (platform.Times, error) {
	n := f.node(p)
	if n == nil {
		return platform.Times{}, os.ErrNotExist
	}
	return n.times, nil
}

func (f *fakeFS) SetTimes(p string, t platform.Times) error {
	n := f.node(p)
	if n == nil {
		return os.ErrNotExist
	}
	n.times = t
	return nil
}

func (f *fakeFS) SameVolume(_, _ string) (bool, error) { return !f.crossVolume, nil }

func (f *fakeFS) IsNetwork(p string) bool { return pathnorm.IsNetwork(p) || f.network[p] }

// fakePrims scripts native results. Each call pops the next error from its
// queue; an empty queue means success.
type fakePrims struct {
	fs *fakeFS

	mu        sync.Mutex
	copyErrs  []error
	moveErrs  []error
	copyCalls int
	moveCalls int
	sinks     []platform.ProgressSink

	size   int64
	chunks int
	// beforeCall runs at the start of every CopyFile/MoveFile call.
	beforeCall func(call int)
}

func newFakePrims(fsys *fakeFS) *fakePrims {
	return &fakePrims{fs: fsys, size: 4000, chunks: 4}
}

func (p *fakePrims) pop(q *[]error) error {
	if len(*q) == 0 {
		return nil
	}
	err := (*q)[0]
	*q = (*q)[1:]
	return err
}

func (p *fakePrims) CopyFile(
	ctx context.Context,
	src, dst string,
	_ platform.CopyOptions,
	sink platform.ProgressSink,
) (int64, error) {
	p.mu.Lock()
	p.copyCalls++
	call := p.copyCalls
	err := p.pop(&p.copyErrs)
	p.sinks = append(p.sinks, sink)
	p.mu.Unlock()

	if p.beforeCall != nil {
		p.beforeCall(call)
	}
	if err != nil {
		return 0, err
	}
	n, err := p.stream(ctx, dst, sink)
	if err != nil {
		return n, err
	}
	p.fs.addFile(dst)
	return n, nil
}

func (p *fakePrims) MoveFile(
	ctx context.Context,
	src, dst string,
	_ platform.MoveOptions,
	sink platform.ProgressSink,
) (int64, error) {
	p.mu.Lock()
	p.moveCalls++
	call := p.moveCalls
	err := p.pop(&p.moveErrs)
	p.mu.Unlock()

	if p.beforeCall != nil {
		p.beforeCall(call)
	}
	if err != nil {
		return 0, err
	}
	n := p.fs.node(src)
	p.fs.remove(src)
	if n != nil {
		p.fs.mu.Lock()
		p.fs.nodes[dst] = n
		p.fs.mu.Unlock()
	}
	if sink != nil {
		sink(platform.Tick{TotalSize: p.size, Transferred: p.size, StreamSize: p.size, StreamTransferred: p.size})
	}
	return p.size, nil
}

// stream reports chunks to sink the way the real primitive does.
func (p *fakePrims) stream(ctx context.Context, dst string, sink platform.ProgressSink) (int64, error) {
	if sink == nil {
		return p.size, nil
	}
	abort := func(a platform.Action) error {
		switch a {
		case platform.Cancel:
			p.fs.remove(dst)
			return &platform.Error{Op: "copy", Path: dst, Code: platform.RequestAborted, Err: platform.ErrCanceled}
		case platform.Stop:
			p.fs.addFile(dst)
			return &platform.Error{Op: "copy", Path: dst, Code: platform.RequestAborted, Err: platform.ErrStopped}
		}
		return nil
	}
	if err := abort(sink(platform.Tick{TotalSize: p.size, StreamSize: p.size, Reason: platform.StreamSwitch})); err != nil {
		return 0, err
	}
	chunk := p.size / int64(p.chunks)
	var done int64
	for i := 0; i < p.chunks; i++ {
		if ctx.Err() != nil {
			return done, abort(platform.Cancel)
		}
		done = chunk * int64(i+1)
		if i == p.chunks-1 {
			done = p.size
		}
		if err := abort(sink(platform.Tick{
			TotalSize:         p.size,
			Transferred:       done,
			StreamSize:        p.size,
			StreamTransferred: done,
			Reason:            platform.ChunkFinished,
		})); err != nil {
			return done, err
		}
	}
	return done, nil
}

func (p *fakePrims) MakeDir(path string, _ fs.FileMode) error {
	p.fs.addDir(path)
	return nil
}

func (p *fakePrims) Symlink(_, link string) error {
	p.fs.addFile(link)
	return nil
}

func (p *fakePrims) RemoveAll(path string) error {
	p.fs.remove(path)
	return nil
}

func (p *fakePrims) calls() (copies, moves int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copyCalls, p.moveCalls
}

type fakeRegistry struct {
	mu  sync.Mutex
	ops [][2]string
	err error
}

func (r *fakeRegistry) Enqueue(src, dst string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.ops = append(r.ops, [2]string{src, dst})
	return nil
}

type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func nativeErr(code platform.Code) error {
	return &platform.Error{Op: "fake", Path: "native", Code: code}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness bundles an Engine wired to fakes rooted at /work.
type harness struct {
	fs     *fakeFS
	prims  *fakePrims
	reg    *fakeRegistry
	sleeps *recordedSleeps
	engine *Engine
}

func newHarness() *harness {
	fsys := newFakeFS()
	fsys.addDir("/")
	fsys.addDir("/work")
	h := &harness{
		fs:     fsys,
		prims:  newFakePrims(fsys),
		reg:    &fakeRegistry{},
		sleeps: &recordedSleeps{},
	}
	norm := pathnorm.Normalizer{Style: pathnorm.Posix, Getwd: func() (string, error) { return "/work", nil }}
	h.engine = New(Config{
		FS:         h.fs,
		Primitives: h.prims,
		Deferred:   h.reg,
		Normalizer: &norm,
		Logger:     discardLogger(),
		Sleep:      h.sleeps.sleep,
	})
	return h
}
