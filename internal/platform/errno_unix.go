//go:build !windows

package platform

import (
	"errors"

	"golang.org/x/sys/unix"
)

func codeFromErrno(err error) (Code, bool) {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return 0, false
	}
	switch errno {
	case unix.ENOENT:
		return FileNotFound, true
	case unix.ENOTDIR, unix.ENAMETOOLONG:
		return PathNotFound, true
	case unix.EACCES, unix.EPERM, unix.EROFS, unix.EISDIR:
		return AccessDenied, true
	case unix.EEXIST:
		return FileExists, true
	case unix.EXDEV:
		return NotSameDevice, true
	case unix.ENXIO, unix.ENODEV, unix.EIO:
		return NotReady, true
	case unix.EBUSY, unix.ETXTBSY:
		return SharingViolation, true
	case unix.ENOTEMPTY:
		return DirNotEmpty, true
	case unix.ECANCELED, unix.EINTR:
		return RequestAborted, true
	}
	return GenFailure, true
}
