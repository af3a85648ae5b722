// Package review holds at most one AI-proposed rewrite awaiting explicit
// user confirmation or rejection.
package review

// Scope identifies what a pending suggestion would replace.
type Scope string

const (
	// ScopeBlock targets a single block; BlockID is set.
	ScopeBlock Scope = "block"
	// ScopeDocument targets the whole document.
	ScopeDocument Scope = "document"
)

// PendingSuggestion is an AI-proposed rewrite held outside the document.
// The document is not mutated until the user confirms.
type PendingSuggestion struct {
	Scope    Scope
	BlockID  string // set when Scope == ScopeBlock
	Original string
	Proposed string
}

// Staging owns the single pending-suggestion slot. Staging a new suggestion
// always fully replaces any prior one; there is no merging.
type Staging struct {
	pending *PendingSuggestion
}

// NewStaging creates an empty staging slot.
func NewStaging() *Staging {
	return &Staging{}
}

// Stage replaces the slot with the given suggestion.
func (s *Staging) Stage(p PendingSuggestion) {
	s.pending = &p
}

// Pending returns the current suggestion, or nil.
func (s *Staging) Pending() *PendingSuggestion {
	if s.pending == nil {
		return nil
	}
	copied := *s.pending
	return &copied
}

// HasPending reports whether a suggestion is staged.
func (s *Staging) HasPending() bool {
	return s.pending != nil
}

// Take removes and returns the staged suggestion, or nil if the slot is
// empty. Confirm and reject both consume the slot through Take.
func (s *Staging) Take() *PendingSuggestion {
	p := s.pending
	s.pending = nil
	return p
}

// Clear empties the slot.
func (s *Staging) Clear() {
	s.pending = nil
}
