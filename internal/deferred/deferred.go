// Package deferred records moves and deletions that must wait until the
// next system start.
package deferred

import "time"

// Registry accepts operations to run at the next system start. An empty
// destination means the source is deleted.
type Registry interface {
	Enqueue(source, destination string) error
}

// Op is one queued operation.
type Op struct {
	ID          string    `toml:"id"`
	Source      string    `toml:"source"`
	Destination string    `toml:"destination,omitempty"`
	Queued      time.Time `toml:"queued"`
}

// IsDelete reports whether the operation deletes its source.
func (o Op) IsDelete() bool { return o.Destination == "" }

func (o Op) String() string {
	if o.IsDelete() {
		return "delete " + o.Source
	}
	return "move " + o.Source + " -> " + o.Destination
}
