//go:build !linux && !windows

package platform

import "os"

func rename(src, dst string, replace bool) error {
	if !replace {
		return renameChecked(src, dst)
	}
	if err := os.Rename(src, dst); err != nil {
		return newError("rename", dst, err)
	}
	return nil
}
