package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/xfer/internal/pathnorm"
)

func newTestValidator(fsys FileSystem, style pathnorm.Style, cwd string) Validator {
	return Validator{
		FS:         fsys,
		Normalizer: pathnorm.Normalizer{Style: style, Getwd: func() (string, error) { return cwd, nil }},
	}
}

func TestValidateFileCopy(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addFile("/work/a.txt")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	vr, err := v.Validate(RawRequest{Source: "a.txt", Destination: "b.txt"})
	require.NoError(t, err)
	assert.Equal(t, "/work/a.txt", vr.Source())
	assert.Equal(t, "/work/b.txt", vr.Destination())
	assert.Equal(t, "a.txt", vr.RawSource())
	assert.Equal(t, "b.txt", vr.RawDestination())
	assert.True(t, vr.IsCopy(), "no options means copy")
	assert.False(t, vr.IsDirectory())
	assert.False(t, vr.Overwrite())
}

func TestValidateDetectsDirectory(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addDir("/work/tree")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	vr, err := v.Validate(RawRequest{Source: "/work/tree", Destination: "/work/copy"})
	require.NoError(t, err)
	assert.True(t, vr.IsDirectory())
}

func TestValidateIsIdempotent(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addFile("/work/a")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	first, err := v.Validate(RawRequest{Source: "/work/a", Destination: "/work/b"})
	require.NoError(t, err)
	probes := fsys.probeCount()
	require.Positive(t, probes)

	second, err := v.Validate(first)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, probes, fsys.probeCount(), "validated request must not be probed again")
}

func TestValidateRejectsBeforeProbing(t *testing.T) {
	tests := []struct {
		name string
		req  RawRequest
		want error
	}{
		{
			name: "empty source",
			req:  RawRequest{Source: "", Destination: "/work/b"},
			want: ErrMalformedPath,
		},
		{
			name: "blank destination without delay",
			req:  RawRequest{Source: "/work/a", Destination: "  "},
			want: ErrMalformedPath,
		},
		{
			name: "identical text",
			req:  RawRequest{Source: "/work/a", Destination: "/work/a"},
			want: ErrSameSourceAndDestination,
		},
		{
			name: "identical after normalization",
			req:  RawRequest{Source: "a", Destination: "sub/../a"},
			want: ErrSameSourceAndDestination,
		},
		{
			name: "copy and move together",
			req: RawRequest{
				Source: "/work/a", Destination: "/work/b",
				Copy: &CopyOptions{}, Move: &MoveOptions{},
			},
			want: ErrIncompatibleMoveOptions,
		},
		{
			name: "delayed move with copy fallback",
			req: RawRequest{
				Source: "/work/a", Destination: "/work/b",
				Move: &MoveOptions{DelayUntilReboot: true, CopyAllowed: true},
			},
			want: ErrIncompatibleMoveOptions,
		},
		{
			name: "delayed move of a network source",
			req: RawRequest{
				Source: `\\server\share\a`, Destination: "/work/b",
				Move: &MoveOptions{DelayUntilReboot: true},
			},
			want: ErrNetworkPathNotAllowed,
		},
		{
			name: "relative path with absolute format",
			req:  RawRequest{Source: "a", Destination: "/work/b", PathFormat: pathnorm.Absolute},
			want: ErrMalformedPath,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := newFakeFS()
			fsys.addDir("/work")
			fsys.addFile("/work/a")
			v := newTestValidator(fsys, pathnorm.Posix, "/work")

			vr, err := v.Validate(tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, vr)
			assert.Zero(t, fsys.probeCount())
		})
	}
}

func TestValidateSourceNotFound(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	_, err := v.Validate(RawRequest{Source: "/work/missing", Destination: "/work/b"})
	require.ErrorIs(t, err, ErrSourceNotFound)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "/work/missing", te.Path)
}

func TestValidateKindMismatchIsNotFound(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addFile("/work/a")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	_, err := v.Validate(RawRequest{Source: "/work/a", Destination: "/work/b", Kind: KindDirectory})
	require.ErrorIs(t, err, ErrSourceNotFound)
}

func TestValidateContainerNotFound(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addFile("/work/a")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	_, err := v.Validate(RawRequest{Source: "/work/a", Destination: "/work/nowhere/b"})
	require.ErrorIs(t, err, ErrDestinationContainerNotFound)
	require.ErrorIs(t, err, ErrDestinationNotFound)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "/work/nowhere", te.Path)
}

func TestValidatePathsCheckedSkipsProbes(t *testing.T) {
	fsys := newFakeFS()
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	vr, err := v.Validate(RawRequest{
		Source:       "/nowhere/a",
		Destination:  "/nowhere/b",
		Kind:         KindDirectory,
		PathsChecked: true,
	})
	require.NoError(t, err)
	assert.True(t, vr.IsDirectory())
	assert.Zero(t, fsys.probeCount())
}

func TestValidateDeleteOnStartup(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addFile("/work/a")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	vr, err := v.Validate(RawRequest{Source: "/work/a", Move: &MoveOptions{DelayUntilReboot: true}})
	require.NoError(t, err)
	assert.True(t, vr.IsMove())
	assert.True(t, vr.DelayUntilReboot())
	assert.True(t, vr.DeleteOnStartup())
	assert.Empty(t, vr.Destination())
}

func TestValidateMoveOptions(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addDir("/work/tree")
	fsys.crossVolume = true
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	vr, err := v.Validate(RawRequest{
		Source:      "/work/tree",
		Destination: "/work/moved",
		Move:        &MoveOptions{ReplaceExisting: true, CopyAllowed: true},
	})
	require.NoError(t, err)
	assert.True(t, vr.IsMove())
	assert.True(t, vr.Overwrite())
	assert.True(t, vr.CopyAllowed())
	assert.True(t, vr.EmulateMove(), "cross-volume directory move with copy allowed")

	fsys.crossVolume = false
	vr, err = v.Validate(RawRequest{
		Source:      "/work/tree",
		Destination: "/work/moved",
		Move:        &MoveOptions{CopyAllowed: true},
	})
	require.NoError(t, err)
	assert.False(t, vr.EmulateMove())
}

func TestValidateCopyOptionsCarried(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir("/work")
	fsys.addFile("/work/a")
	v := newTestValidator(fsys, pathnorm.Posix, "/work")

	vr, err := v.Validate(RawRequest{
		Source:      "/work/a",
		Destination: "/work/b",
		Copy:        &CopyOptions{Overwrite: true, PreserveTimestamps: true, ComputeSize: true, Verify: true},
		Retry:       RetryPolicy{Count: 4},
		Progress:    func(Progress, any) Decision { return Continue },
	})
	require.NoError(t, err)
	assert.True(t, vr.Overwrite())
	assert.True(t, vr.PreserveTimestamps())
	assert.True(t, vr.ComputeSize())
	assert.True(t, vr.Verify())
	assert.Equal(t, 4, vr.Retry().Count)
	assert.True(t, vr.HasProgress())
}

func TestValidateWindowsPaths(t *testing.T) {
	fsys := newFakeFS()
	fsys.addDir(`\\?\C:\data`)
	fsys.addFile(`\\?\C:\data\a.txt`)
	v := newTestValidator(fsys, pathnorm.Windows, `C:\data`)

	vr, err := v.Validate(RawRequest{Source: `a.txt`, Destination: `C:\data\b.txt`})
	require.NoError(t, err)
	assert.Equal(t, `\\?\C:\data\a.txt`, vr.Source())
	assert.Equal(t, `\\?\C:\data\b.txt`, vr.Destination())

	_, err = v.Validate(RawRequest{Source: `C:\data\a.txt`, Destination: `c:\DATA\A.TXT`})
	require.ErrorIs(t, err, ErrSameSourceAndDestination, "windows paths compare case-insensitively")
}

func TestValidateNilRequests(t *testing.T) {
	v := newTestValidator(newFakeFS(), pathnorm.Posix, "/work")

	_, err := v.Validate((*ValidatedRequest)(nil))
	require.ErrorIs(t, err, ErrMalformedPath)

	_, err = v.Validate((*RawRequest)(nil))
	require.ErrorIs(t, err, ErrMalformedPath)
}
