//go:build windows

package deferred

import "golang.org/x/sys/windows"

// Native hands operations to the Windows session manager, which performs
// them before any user process starts at the next boot.
type Native struct{}

// Enqueue registers a boot-time move, or a delete when destination is empty.
func (Native) Enqueue(source, destination string) error {
	from, err := windows.UTF16PtrFromString(source)
	if err != nil {
		return err
	}
	var to *uint16
	flags := uint32(windows.MOVEFILE_DELAY_UNTIL_REBOOT)
	if destination != "" {
		if to, err = windows.UTF16PtrFromString(destination); err != nil {
			return err
		}
		flags |= windows.MOVEFILE_REPLACE_EXISTING
	}
	return windows.MoveFileEx(from, to, flags)
}

// Default returns the native registry; queuePath is unused on Windows.
func Default(_ string) Registry {
	return Native{}
}
