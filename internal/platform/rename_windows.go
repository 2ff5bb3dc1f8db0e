//go:build windows

package platform

import "golang.org/x/sys/windows"

func rename(src, dst string, replace bool) error {
	from, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return newError("rename", src, err)
	}
	to, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return newError("rename", dst, err)
	}
	var flags uint32
	if replace {
		flags |= windows.MOVEFILE_REPLACE_EXISTING
	}
	if err := windows.MoveFileEx(from, to, flags); err != nil {
		return newError("rename", dst, err)
	}
	return nil
}
