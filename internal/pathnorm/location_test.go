package pathnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantHost  string
		wantUser  string
		wantShare string
		wantPath  string
	}{
		{name: "absolute path", input: "/home/user/data", wantPath: "/home/user/data"},
		{name: "relative path", input: "data/files", wantPath: "data/files"},
		{name: "dot-relative path", input: "./host:path", wantPath: "./host:path"},
		{name: "drive path", input: `C:\data`, wantPath: `C:\data`},
		{name: "drive relative", input: `C:data`, wantPath: `C:data`},
		{name: "long path", input: `\\?\C:\data`, wantPath: `\\?\C:\data`},
		{name: "device", input: `\\.\COM1`, wantPath: `\\.\COM1`},
		{name: "unc", input: `\\nas\media\movies`, wantHost: "nas", wantShare: "media", wantPath: `\movies`},
		{name: "unc share only", input: `\\nas\media`, wantHost: "nas", wantShare: "media"},
		{name: "long unc", input: `\\?\UNC\nas\media\x`, wantHost: "nas", wantShare: "media", wantPath: `\x`},
		{name: "slash unc", input: "//nas/media/x", wantHost: "nas", wantShare: "media", wantPath: `\x`},
		{name: "unc missing share", input: `\\nas`, wantPath: `\\nas`},
		{name: "user@host:path", input: "user@nas:/backup/data", wantHost: "nas", wantUser: "user", wantPath: "/backup/data"},
		{name: "host:path", input: "nas:/backup/data", wantHost: "nas", wantPath: "/backup/data"},
		{name: "dir with colon", input: "dir/file:with:colons", wantPath: "dir/file:with:colons"},
		{name: "url", input: "smb://nas/share/x", wantHost: "nas", wantPath: "/share/x"},
		{name: "file url", input: "file:///tmp/x", wantPath: "file:///tmp/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := ParseLocation(tt.input)
			assert.Equal(t, tt.wantHost, loc.Host)
			assert.Equal(t, tt.wantUser, loc.User)
			assert.Equal(t, tt.wantShare, loc.Share)
			assert.Equal(t, tt.wantPath, loc.Path)
			assert.Equal(t, tt.wantHost != "", IsNetwork(tt.input))
		})
	}
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "/local", ParseLocation("/local").String())
	assert.Equal(t, `\\nas\media\x`, ParseLocation(`\\?\UNC\nas\media\x`).String())
	assert.Equal(t, "user@nas:/p", ParseLocation("user@nas:/p").String())
	assert.Equal(t, "nas:/p", ParseLocation("nas:/p").String())
	assert.Equal(t, "smb://nas/x", ParseLocation("smb://nas/x").String())
}
