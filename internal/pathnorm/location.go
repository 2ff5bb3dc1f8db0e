package pathnorm

import (
	"fmt"
	"net/url"
	"strings"
)

// Location is a parsed path argument. Host is set for anything that lives on
// another machine.
type Location struct {
	Scheme string // "unc", a URL scheme, or "" for scp-style and local paths
	Host   string
	User   string
	Share  string // UNC share name
	Path   string
}

// IsRemote returns true if the location refers to a remote host.
func (l Location) IsRemote() bool {
	return l.Host != ""
}

// String returns a human-readable representation.
func (l Location) String() string {
	switch {
	case !l.IsRemote():
		return l.Path
	case l.Scheme == "unc":
		return `\\` + l.Host + `\` + l.Share + l.Path
	case l.Scheme != "":
		return fmt.Sprintf("%s://%s%s", l.Scheme, l.Host, l.Path)
	case l.User != "":
		return fmt.Sprintf("%s@%s:%s", l.User, l.Host, l.Path)
	default:
		return fmt.Sprintf("%s:%s", l.Host, l.Path)
	}
}

// ParseLocation classifies a path argument lexically.
//
// Supported formats:
//   - /absolute/path, relative/path, C:\path  → local
//   - \\?\C:\path, \\.\device                 → local
//   - \\server\share\path, //server/share     → UNC
//   - \\?\UNC\server\share\path               → UNC
//   - scheme://host/path                      → URL (file:///path is local)
//   - host:path, user@host:path               → scp-style remote
//
// A path containing ":" is only remote if the part before the colon has no
// path separators and is longer than one letter (so "C:foo" is a drive).
func ParseLocation(arg string) Location {
	switch {
	case strings.HasPrefix(arg, uncPrefix):
		return parseUNC(arg, arg[len(uncPrefix):])
	case strings.HasPrefix(arg, longPrefix), strings.HasPrefix(arg, devicePrefix):
		return Location{Path: arg}
	case strings.HasPrefix(arg, `\\`), strings.HasPrefix(arg, "//"):
		return parseUNC(arg, arg[2:])
	}

	if i := strings.Index(arg, "://"); i > 1 && isScheme(arg[:i]) {
		return parseURL(arg)
	}

	// Absolute paths and paths starting with . are always local.
	if strings.HasPrefix(arg, "/") || strings.HasPrefix(arg, `\`) || strings.HasPrefix(arg, ".") {
		return Location{Path: arg}
	}

	colonIdx := strings.IndexByte(arg, ':')
	if colonIdx < 0 {
		return Location{Path: arg}
	}
	hostPart := arg[:colonIdx]
	pathPart := arg[colonIdx+1:]

	if strings.ContainsAny(hostPart, `/\`) || len(hostPart) < 2 {
		return Location{Path: arg}
	}

	var user, host string
	if atIdx := strings.LastIndexByte(hostPart, '@'); atIdx >= 0 {
		user = hostPart[:atIdx]
		host = hostPart[atIdx+1:]
	} else {
		host = hostPart
	}
	if host == "" {
		return Location{Path: arg}
	}
	return Location{Host: host, User: user, Path: pathPart}
}

// IsNetwork reports whether p names a location on another machine.
func IsNetwork(p string) bool {
	return ParseLocation(p).IsRemote()
}

func parseUNC(raw, rest string) Location {
	rest = strings.ReplaceAll(rest, "/", `\`)
	parts := strings.SplitN(rest, `\`, 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Location{Path: raw}
	}
	loc := Location{Scheme: "unc", Host: parts[0], Share: parts[1]}
	if len(parts) == 3 {
		loc.Path = `\` + parts[2]
	}
	return loc
}

func parseURL(raw string) Location {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Location{Path: raw}
	}
	var user string
	if u.User != nil {
		user = u.User.Username()
	}
	return Location{Scheme: u.Scheme, Host: u.Hostname(), User: user, Path: u.Path}
}

func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
