package platform

import (
	"os"
	"strings"
)

// Attributes is a file attribute bitmask using the Windows bit values.
type Attributes uint32

const (
	AttrReadOnly  Attributes = 0x1
	AttrHidden    Attributes = 0x2
	AttrSystem    Attributes = 0x4
	AttrDirectory Attributes = 0x10
	AttrArchive   Attributes = 0x20
	AttrNormal    Attributes = 0x80
)

// Has reports whether every bit in flag is set.
func (a Attributes) Has(flag Attributes) bool { return a&flag == flag }

func (a Attributes) String() string {
	var parts []string
	for _, f := range []struct {
		bit  Attributes
		name string
	}{
		{AttrReadOnly, "readonly"},
		{AttrHidden, "hidden"},
		{AttrSystem, "system"},
		{AttrDirectory, "directory"},
		{AttrArchive, "archive"},
		{AttrNormal, "normal"},
	} {
		if a&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Exists reports whether path exists and is (or is not) a directory.
func Exists(path string, wantDir bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir() == wantDir
}

// CanRead reports whether path can be opened for reading right now.
func CanRead(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return true
}
