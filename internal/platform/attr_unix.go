//go:build !windows

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// BlockingAttributes are the attributes that make a writable destination
// refuse an overwrite. A dotfile is only hidden by convention and never
// blocks a write.
const BlockingAttributes = AttrReadOnly

// GetAttributes derives Windows-style attributes from Unix metadata: a file
// without the owner write bit is read-only, a dotfile is hidden.
func GetAttributes(path string) (Attributes, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	var a Attributes
	if info.Mode().Perm()&0o200 == 0 {
		a |= AttrReadOnly
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		a |= AttrHidden
	}
	if info.IsDir() {
		a |= AttrDirectory
	}
	if a == 0 {
		a = AttrNormal
	}
	return a, nil
}

// SetAttributes applies the read-only bit of a to path. Hidden is a naming
// convention on Unix and cannot be changed here.
func SetAttributes(path string, a Attributes) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if a&AttrReadOnly != 0 {
		mode &^= 0o222
	} else {
		mode |= 0o200
	}
	return os.Chmod(path, mode)
}
