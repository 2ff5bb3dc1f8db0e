//go:build darwin

package platform

import "golang.org/x/sys/unix"

// IsNetworkFS reports whether path is on a non-local mount.
func IsNetworkFS(path string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false, err
	}
	return st.Flags&unix.MNT_LOCAL == 0, nil
}
