//go:build windows

package platform

import "golang.org/x/sys/windows"

// BlockingAttributes are the attributes that make a destination refuse an
// overwrite until they are cleared.
const BlockingAttributes = AttrReadOnly | AttrHidden

// GetAttributes returns the file attributes of path.
func GetAttributes(path string) (Attributes, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	a, err := windows.GetFileAttributes(p)
	if err != nil {
		return 0, err
	}
	return Attributes(a), nil
}

// SetAttributes replaces the attributes of path with a.
func SetAttributes(path string, a Attributes) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return windows.SetFileAttributes(p, uint32(a))
}
