package session

import (
	"context"

	"scribe/internal/conversation"
	"scribe/internal/document"
	"scribe/internal/review"
)

// Manual editing operations. Each takes the session lock and follows the
// router's snapshot-before-mutation discipline.

// AppendBlock adds a typed block at the end.
func (s *Session) AppendBlock(content string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.AppendBlock(content)
}

// InsertBlockAfter inserts a typed block after the given one.
func (s *Session) InsertBlockAfter(id, content string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.InsertBlockAfter(id, content)
}

// UpdateBlock replaces a block's content.
func (s *Session) UpdateBlock(id, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.UpdateBlock(id, content)
}

// DeleteBlock removes a block, never leaving the document empty.
func (s *Session) DeleteBlock(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.DeleteBlock(id)
}

// MergeBlockWithPrevious merges a block into its predecessor. Returns nil
// for the first block.
func (s *Session) MergeBlockWithPrevious(id string) *document.MergeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.MergeBlockWithPrevious(id)
}

// Undo restores the previous document state, if any.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Undo()
}

// Redo restores the next document state, if any.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Redo()
}

// Confirm applies the staged suggestion.
func (s *Session) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Confirm()
}

// Reject discards the staged suggestion.
func (s *Session) Reject() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Reject()
}

// ClearConversation ends the clarification exchange and drops its turns.
func (s *Session) ClearConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.router.ClearConversation()
}

// Read-only accessors.

// Text returns the serialized document.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Text()
}

// Blocks returns the current block sequence.
func (s *Session) Blocks() []document.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Blocks()
}

// Pending returns the staged suggestion, or nil.
func (s *Session) Pending() *review.PendingSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Pending()
}

// Turns returns the clarification log.
func (s *Session) Turns() []conversation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Turns()
}

// Clarifying reports whether a clarification exchange is open.
func (s *Session) Clarifying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Clarifying()
}

// CanUndo reports undo availability.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.CanUndo()
}

// CanRedo reports redo availability.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.CanRedo()
}

// Awaiting reports whether an interaction is outstanding on the surface the
// current focus resolves to.
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Awaiting(s.focusID)
}

// OutOfSync reports the sticky persistence indicator.
func (s *Session) OutOfSync() bool {
	return s.saver.OutOfSync()
}

// SaveNow forces an immediate persistence attempt.
func (s *Session) SaveNow(ctx context.Context) error {
	return s.saver.SaveNow(ctx)
}
