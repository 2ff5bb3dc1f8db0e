package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}

// TermWidth returns the width of the terminal behind f in columns, or 0 when
// f is not a terminal.
func TermWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // G115: fd fits in int
	if err != nil || w <= 0 {
		return 0
	}
	return w
}
