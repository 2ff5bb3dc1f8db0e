// Package pathnorm turns user supplied paths into the canonical long-path
// form the transfer primitives expect.
package pathnorm

import (
	"errors"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
)

// ErrMalformedPath is returned for empty or syntactically invalid paths.
var ErrMalformedPath = errors.New("malformed path")

// Format says what shape the caller's path already has.
type Format int

const (
	// Relative paths are resolved against the working directory.
	Relative Format = iota
	// Absolute paths must already be rooted.
	Absolute
	// Canonical paths are trusted as-is.
	Canonical
)

var formatNames = [...]string{
	Relative:  "relative",
	Absolute:  "absolute",
	Canonical: "canonical",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown path format %q", s)
}

// Style selects the path grammar.
type Style int

const (
	Posix Style = iota
	Windows
)

func (s Style) String() string {
	if s == Windows {
		return "windows"
	}
	return "posix"
}

// Native returns the style of the running OS.
func Native() Style {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Posix
}

const (
	longPrefix   = `\\?\`
	uncPrefix    = `\\?\UNC\`
	devicePrefix = `\\.\`
)

// Normalizer converts paths into canonical form for one Style.
type Normalizer struct {
	Style Style
	// Getwd resolves relative paths. Nil means os.Getwd.
	Getwd func() (string, error)
}

// New returns a Normalizer for the running OS.
func New() Normalizer {
	return Normalizer{Style: Native(), Getwd: os.Getwd}
}

// Normalize returns the canonical form of p. Canonical input is returned
// unchanged, as are device namespace paths. Normalizing a canonical result
// again yields the same string.
func (n Normalizer) Normalize(p string, format Format) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", ErrMalformedPath)
	}
	if strings.IndexByte(p, 0) >= 0 {
		return "", fmt.Errorf("%w: NUL in %q", ErrMalformedPath, p)
	}
	if format == Canonical {
		return p, nil
	}
	p = strings.TrimRight(p, " \t\r\n")

	if n.Style == Windows {
		return n.windows(p, format)
	}
	return n.posix(p, format)
}

func (n Normalizer) getwd() (string, error) {
	if n.Getwd != nil {
		return n.Getwd()
	}
	return os.Getwd()
}

func (n Normalizer) posix(p string, format Format) (string, error) {
	if strings.HasPrefix(p, "/dev/") {
		return p, nil
	}
	if !strings.HasPrefix(p, "/") {
		if format == Absolute {
			return "", fmt.Errorf("%w: %q is not absolute", ErrMalformedPath, p)
		}
		wd, err := n.getwd()
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		p = wd + "/" + p
	}
	return path.Clean(p), nil
}

func (n Normalizer) windows(p string, format Format) (string, error) {
	p = strings.ReplaceAll(p, "/", `\`)

	switch {
	case strings.HasPrefix(p, devicePrefix):
		return p, nil
	case strings.HasPrefix(p, longPrefix):
		return p, nil
	case strings.HasPrefix(p, `\\`):
		rest, err := cleanWindows(p[2:], 2)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrMalformedPath, p, err)
		}
		return uncPrefix + rest, nil
	}

	if hasDrive(p) {
		if len(p) == 2 || p[2] != '\\' {
			return "", fmt.Errorf("%w: drive-relative path %q", ErrMalformedPath, p)
		}
	} else {
		if format == Absolute {
			return "", fmt.Errorf("%w: %q is not absolute", ErrMalformedPath, p)
		}
		wd, err := n.getwd()
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		wd = strings.ReplaceAll(wd, "/", `\`)
		wd = strings.TrimPrefix(wd, longPrefix)
		if !hasDrive(wd) {
			return "", fmt.Errorf("%w: working directory %q has no drive", ErrMalformedPath, wd)
		}
		if strings.HasPrefix(p, `\`) {
			p = wd[:2] + p
		} else {
			p = strings.TrimRight(wd, `\`) + `\` + p
		}
	}

	rest, err := cleanWindows(p[3:], 0)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrMalformedPath, p, err)
	}
	return longPrefix + strings.ToUpper(p[:1]) + `:\` + rest, nil
}

func hasDrive(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0] | 0x20
	return c >= 'a' && c <= 'z'
}

// cleanWindows resolves "." and ".." lexically in a backslash separated
// path. The first fixed elements (server and share for UNC) are required and
// cannot be climbed out of.
func cleanWindows(p string, fixed int) (string, error) {
	var out []string
	for i, elem := range strings.Split(p, `\`) {
		if strings.ContainsAny(elem, `<>"|?*:`) {
			return "", fmt.Errorf("reserved character in %q", elem)
		}
		if i < fixed {
			if elem == "" || elem == "." || elem == ".." {
				return "", errors.New("missing server or share name")
			}
			out = append(out, elem)
			continue
		}
		switch elem {
		case "", ".":
		case "..":
			if len(out) > fixed {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, elem)
		}
	}
	if len(out) < fixed {
		return "", errors.New("missing server or share name")
	}
	return strings.Join(out, `\`), nil
}

// Dir returns the container of a canonical path in this style. Roots are
// their own container.
func (s Style) Dir(p string) string {
	if s == Posix {
		return path.Dir(p)
	}
	i := strings.LastIndex(p, `\`)
	if i < 0 {
		return p
	}
	dir := p[:i]
	switch {
	case strings.HasSuffix(dir, ":"):
		// drive root keeps its separator
		return dir + `\`
	case dir == `\\?` || dir == `\\.` || dir == `\\?\UNC` || i == len(p)-1:
		return p
	}
	if rest, ok := strings.CutPrefix(dir, uncPrefix); ok && !strings.Contains(rest, `\`) {
		// \\?\UNC\server alone is not a container
		return p
	}
	return dir
}
