//go:build !windows

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesReadOnlyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))

	a, err := GetAttributes(f)
	require.NoError(t, err)
	assert.Equal(t, AttrNormal, a)

	require.NoError(t, SetAttributes(f, AttrReadOnly))
	a, err = GetAttributes(f)
	require.NoError(t, err)
	assert.True(t, a.Has(AttrReadOnly))

	info, err := os.Stat(f)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0444), info.Mode().Perm())

	require.NoError(t, SetAttributes(f, AttrNormal))
	a, err = GetAttributes(f)
	require.NoError(t, err)
	assert.False(t, a.Has(AttrReadOnly))
}

func TestAttributesHiddenDotfile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ".secret")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))

	a, err := GetAttributes(f)
	require.NoError(t, err)
	assert.True(t, a.Has(AttrHidden))
	assert.False(t, a.Has(AttrNormal))
}

func TestAttributesString(t *testing.T) {
	assert.Equal(t, "readonly|hidden", (AttrReadOnly | AttrHidden).String())
	assert.Equal(t, "none", Attributes(0).String())
}
