//go:build linux

package platform

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// GetTimes reads the timestamps of path. Created is zero when the
// filesystem does not record a birth time.
func GetTimes(path string) (Times, error) {
	var stx unix.Statx_t
	mask := unix.STATX_ATIME | unix.STATX_MTIME | unix.STATX_BTIME
	if err := unix.Statx(unix.AT_FDCWD, path, 0, mask, &stx); err != nil {
		var st unix.Stat_t
		if err2 := unix.Stat(path, &st); err2 != nil {
			return Times{}, err2
		}
		return Times{
			Accessed: time.Unix(st.Atim.Unix()),
			Modified: time.Unix(st.Mtim.Unix()),
		}, nil
	}
	t := Times{
		Accessed: time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec)),
		Modified: time.Unix(stx.Mtime.Sec, int64(stx.Mtime.Nsec)),
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		t.Created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return t, nil
}

// SetTimes applies the access and modification times in t to path. Linux
// has no call to set a birth time, so Created is ignored.
func SetTimes(path string, t Times) error {
	times := []unix.Timespec{omitOr(t.Accessed), omitOr(t.Modified)}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, times, 0); err != nil {
		return fmt.Errorf("utimensat: %w", err)
	}
	return nil
}

func omitOr(t time.Time) unix.Timespec {
	if t.IsZero() {
		return unix.Timespec{Nsec: unix.UTIME_OMIT}
	}
	return unix.NsecToTimespec(t.UnixNano())
}
