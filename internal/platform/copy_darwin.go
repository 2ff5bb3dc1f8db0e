//go:build darwin

package platform

import (
	"errors"

	"golang.org/x/sys/unix"
)

// cloneFile tries a copy-on-write clone of src at dst. ok is false when the
// filesystem cannot clone and the caller should copy bytes instead.
func cloneFile(src, dst string) (ok bool, err error) {
	err = unix.Clonefile(src, dst, 0)
	if err == nil {
		return true, nil
	}
	if isFallbackCloneErr(err) {
		return false, nil
	}
	return true, err
}

func isFallbackCloneErr(err error) bool {
	return errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EEXIST)
}
