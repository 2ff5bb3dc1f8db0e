package engine

import (
	"context"
	"io/fs"
	"os"

	"github.com/bamsammich/xfer/internal/pathnorm"
	"github.com/bamsammich/xfer/internal/platform"
)

// FileSystem answers the probes the validator and the failure classifier
// make. Every call reflects the filesystem at the time of the call.
type FileSystem interface {
	Exists(path string, isDir bool) bool
	Attributes(path string) (platform.Attributes, error)
	SetAttributes(path string, attrs platform.Attributes) error
	CanRead(path string) bool
	Times(path string) (platform.Times, error)
	SetTimes(path string, t platform.Times) error
	SameVolume(a, b string) (bool, error)
	IsNetwork(path string) bool
}

// Primitives are the native operations a transfer attempt is built from.
type Primitives interface {
	CopyFile(ctx context.Context, src, dst string, opts platform.CopyOptions, sink platform.ProgressSink) (int64, error)
	MoveFile(ctx context.Context, src, dst string, opts platform.MoveOptions, sink platform.ProgressSink) (int64, error)
	MakeDir(path string, perm fs.FileMode) error
	Symlink(target, link string) error
	RemoveAll(path string) error
}

// OSFileSystem returns the FileSystem backed by the running OS.
func OSFileSystem() FileSystem { return osFS{} }

// OSPrimitives returns the Primitives backed by the running OS.
func OSPrimitives() Primitives { return osPrimitives{} }

type osFS struct{}

func (osFS) Exists(path string, isDir bool) bool { return platform.Exists(path, isDir) }
func (osFS) CanRead(path string) bool            { return platform.CanRead(path) }

func (osFS) Attributes(path string) (platform.Attributes, error) {
	return platform.GetAttributes(path)
}

func (osFS) SetAttributes(path string, attrs platform.Attributes) error {
	return platform.SetAttributes(path, attrs)
}

func (osFS) Times(path string) (platform.Times, error)    { return platform.GetTimes(path) }
func (osFS) SetTimes(path string, t platform.Times) error { return platform.SetTimes(path, t) }
func (osFS) SameVolume(a, b string) (bool, error)         { return platform.SameVolume(a, b) }

// IsNetwork catches both network syntax (UNC, host:path) and local mount
// points backed by a network filesystem.
func (osFS) IsNetwork(path string) bool {
	if pathnorm.IsNetwork(path) {
		return true
	}
	remote, err := platform.IsNetworkFS(path)
	return err == nil && remote
}

type osPrimitives struct{}

func (osPrimitives) CopyFile(
	ctx context.Context,
	src, dst string,
	opts platform.CopyOptions,
	sink platform.ProgressSink,
) (int64, error) {
	result, err := platform.CopyFile(ctx, src, dst, opts, sink)
	return result.BytesWritten, err
}

func (osPrimitives) MoveFile(
	ctx context.Context,
	src, dst string,
	opts platform.MoveOptions,
	sink platform.ProgressSink,
) (int64, error) {
	return platform.MoveFile(ctx, src, dst, opts, sink)
}

func (osPrimitives) MakeDir(path string, perm fs.FileMode) error { return os.Mkdir(path, perm) }
func (osPrimitives) Symlink(target, link string) error           { return os.Symlink(target, link) }
func (osPrimitives) RemoveAll(path string) error                 { return os.RemoveAll(path) }
