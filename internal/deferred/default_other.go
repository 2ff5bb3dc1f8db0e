//go:build !windows

package deferred

// Default returns the registry for this OS: a FileQueue at queuePath.
func Default(queuePath string) Registry {
	return NewFileQueue(queuePath)
}
