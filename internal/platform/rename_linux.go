//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func rename(src, dst string, replace bool) error {
	if replace {
		if err := os.Rename(src, dst); err != nil {
			return newError("rename", dst, err)
		}
		return nil
	}
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)
	if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EINVAL) {
		// old kernel or a filesystem without RENAME_NOREPLACE
		return renameChecked(src, dst)
	}
	if err != nil {
		return newError("rename", dst, err)
	}
	return nil
}
