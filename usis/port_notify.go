package usis

import "sync"

// PortChangeHandler is invoked when the active serial channel identifier
// changes.
//
// Handlers are invoked synchronously, in registration order, with the
// previous and the newly selected identifier. Take care with long-running
// implementations.
type PortChangeHandler func(prev, next string)

// PortSelector tracks which serial channel identifier is active and notifies
// registered handlers on every change.
//
// Consumers that let a user switch instruments at runtime register handlers
// to tear down and rebuild their view of the device when the selection
// changes.
type PortSelector struct {
	mu       sync.Mutex
	current  string
	handlers []PortChangeHandler
}

// NewPortSelector creates a selector with the given initial identifier.
// Handler registration does not fire for the initial value.
func NewPortSelector(initial string) *PortSelector {
	return &PortSelector{current: initial}
}

// AddHandler adds one or more handlers to be invoked on selection changes.
func (ps *PortSelector) AddHandler(handlers ...PortChangeHandler) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.handlers = append(ps.handlers, handlers...)
}

// Current returns the active channel identifier.
func (ps *PortSelector) Current() string {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	return ps.current
}

// Select makes name the active channel identifier and notifies all handlers.
// Selecting the already-active identifier is a no-op.
func (ps *PortSelector) Select(name string) {
	ps.mu.Lock()
	prev := ps.current
	if prev == name {
		ps.mu.Unlock()

		return
	}

	ps.current = name
	handlers := make([]PortChangeHandler, len(ps.handlers))
	copy(handlers, ps.handlers)
	ps.mu.Unlock()

	for _, handler := range handlers {
		handler(prev, name)
	}
}
