package platform

import (
	"os"
	"sync"
)

// partialRegistry tracks destinations that are still being written so an
// interrupted process can remove them.
var partials = &partialRegistry{}

type partialRegistry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// RegisterPartial records path as an in-flight destination.
func RegisterPartial(path string) {
	partials.mu.Lock()
	defer partials.mu.Unlock()
	if partials.paths == nil {
		partials.paths = make(map[string]struct{})
	}
	partials.paths[path] = struct{}{}
}

// DeregisterPartial forgets path once it is complete or cleaned up.
func DeregisterPartial(path string) {
	partials.mu.Lock()
	defer partials.mu.Unlock()
	delete(partials.paths, path)
}

// Partials returns the currently registered destinations.
func Partials() []string {
	partials.mu.Lock()
	defer partials.mu.Unlock()
	paths := make([]string, 0, len(partials.paths))
	for p := range partials.paths {
		paths = append(paths, p)
	}
	return paths
}

// CleanupPartials removes every registered destination and returns how many
// were removed.
func CleanupPartials() int {
	partials.mu.Lock()
	paths := make([]string, 0, len(partials.paths))
	for p := range partials.paths {
		paths = append(paths, p)
	}
	partials.paths = nil
	partials.mu.Unlock()

	removed := 0
	for _, p := range paths {
		if os.Remove(p) == nil {
			removed++
		}
	}
	return removed
}
