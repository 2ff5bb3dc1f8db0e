//go:build windows

package platform

import (
	"path/filepath"
	"strings"
)

// SameVolume compares the volume names of a and b.
func SameVolume(a, b string) (bool, error) {
	return strings.EqualFold(filepath.VolumeName(a), filepath.VolumeName(b)), nil
}
