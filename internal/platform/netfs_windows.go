//go:build windows

package platform

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// IsNetworkFS reports whether path is on a remote drive or UNC share.
func IsNetworkFS(path string) (bool, error) {
	vol := filepath.VolumeName(path)
	vol = strings.TrimPrefix(vol, `\\?\`)
	if strings.HasPrefix(vol, `UNC\`) || strings.HasPrefix(vol, `\\`) {
		return true, nil
	}
	root, err := windows.UTF16PtrFromString(vol + `\`)
	if err != nil {
		return false, err
	}
	return windows.GetDriveType(root) == windows.DRIVE_REMOTE, nil
}
