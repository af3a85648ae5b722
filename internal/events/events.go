// Package events provides explicit event emission for the editing core so a
// UI layer can observe state changes without the core depending on any
// particular reactivity model.
package events

// Kind enumerates the events the core emits.
type Kind string

const (
	// DocumentChanged fires after any document mutation, including undo,
	// redo, and confirmed suggestions.
	DocumentChanged Kind = "documentChanged"
	// SuggestionStaged fires when a pending suggestion is created, confirmed,
	// or rejected.
	SuggestionStaged Kind = "suggestionStaged"
	// ConversationUpdated fires when clarification turns are appended or the
	// log is cleared.
	ConversationUpdated Kind = "conversationUpdated"
	// SyncStateChanged fires when the persistence out-of-sync indicator
	// flips.
	SyncStateChanged Kind = "syncStateChanged"
)

// Handler receives an emitted event.
type Handler func(Kind)

// Emitter is a minimal synchronous observer registry. It is not safe for
// concurrent subscription; the core runs single-threaded.
type Emitter struct {
	handlers []Handler
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers a handler for all events.
func (e *Emitter) Subscribe(h Handler) {
	if h != nil {
		e.handlers = append(e.handlers, h)
	}
}

// Emit delivers the event to all handlers in subscription order.
func (e *Emitter) Emit(k Kind) {
	for _, h := range e.handlers {
		h(k)
	}
}
