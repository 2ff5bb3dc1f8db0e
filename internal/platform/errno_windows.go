//go:build windows

package platform

import (
	"errors"

	"golang.org/x/sys/windows"
)

// Windows already speaks in these codes; only the errno wrapper differs.
func codeFromErrno(err error) (Code, bool) {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return 0, false
	}
	return Code(errno), true
}
