//go:build windows

package platform

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

func openForAttributes(path string, access uint32) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	return windows.CreateFile(p, access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
}

// GetTimes reads the timestamps of path.
func GetTimes(path string) (Times, error) {
	h, err := openForAttributes(path, windows.FILE_READ_ATTRIBUTES)
	if err != nil {
		return Times{}, err
	}
	defer windows.CloseHandle(h)

	var c, a, w windows.Filetime
	if err := windows.GetFileTime(h, &c, &a, &w); err != nil {
		return Times{}, fmt.Errorf("GetFileTime: %w", err)
	}
	return Times{
		Created:  time.Unix(0, c.Nanoseconds()),
		Accessed: time.Unix(0, a.Nanoseconds()),
		Modified: time.Unix(0, w.Nanoseconds()),
	}, nil
}

// SetTimes applies every non-zero time in t to path.
func SetTimes(path string, t Times) error {
	h, err := openForAttributes(path, windows.FILE_WRITE_ATTRIBUTES)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	if err := windows.SetFileTime(h, filetime(t.Created), filetime(t.Accessed), filetime(t.Modified)); err != nil {
		return fmt.Errorf("SetFileTime: %w", err)
	}
	return nil
}

func filetime(t time.Time) *windows.Filetime {
	if t.IsZero() {
		return nil
	}
	ft := windows.NsecToFiletime(t.UnixNano())
	return &ft
}
