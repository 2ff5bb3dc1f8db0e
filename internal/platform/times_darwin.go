//go:build darwin

package platform

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// GetTimes reads the timestamps of path.
func GetTimes(path string) (Times, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Times{}, err
	}
	return Times{
		Created:  time.Unix(st.Btim.Unix()),
		Accessed: time.Unix(st.Atim.Unix()),
		Modified: time.Unix(st.Mtim.Unix()),
	}, nil
}

// SetTimes applies the access and modification times in t to path.
// Darwin lacks UTIME_OMIT, so a zero field is filled from the current value.
func SetTimes(path string, t Times) error {
	if t.Accessed.IsZero() || t.Modified.IsZero() {
		cur, err := GetTimes(path)
		if err != nil {
			return err
		}
		if t.Accessed.IsZero() {
			t.Accessed = cur.Accessed
		}
		if t.Modified.IsZero() {
			t.Modified = cur.Modified
		}
	}
	times := []unix.Timespec{
		unix.NsecToTimespec(t.Accessed.UnixNano()),
		unix.NsecToTimespec(t.Modified.UnixNano()),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, times, 0); err != nil {
		return fmt.Errorf("utimensat: %w", err)
	}
	return nil
}
