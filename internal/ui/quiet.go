package ui

// quietPresenter consumes events but produces no output.
type quietPresenter struct{}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events {
		// The engine feeds the collector directly; nothing to render.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
