package router

import (
	"go.uber.org/zap"

	"scribe/internal/conversation"
	"scribe/internal/document"
	"scribe/internal/events"
	"scribe/internal/review"
)

// Manual edits go through the router so that every mutation follows the
// same discipline: snapshot strictly before mutation, then emit. This keeps
// undo correct up to the last completed action.

// AppendBlock adds a manually typed block at the end and returns its ID.
// A document consisting of a single empty block is filled in place instead
// of gaining a second block.
func (r *Router) AppendBlock(content string) string {
	r.hist.Push(r.doc.TakeSnapshot())
	blocks := r.doc.Blocks()
	if len(blocks) == 1 && blocks[0].IsEmpty {
		r.doc.Update(blocks[0].ID, content)
		r.emitter.Emit(events.DocumentChanged)
		return blocks[0].ID
	}
	id := r.doc.Append(content)
	r.emitter.Emit(events.DocumentChanged)
	return id
}

// InsertBlockAfter inserts a manually typed block after the given one.
// Returns false and leaves the document unchanged when the ID is unknown.
func (r *Router) InsertBlockAfter(id, content string) (string, bool) {
	snapshot := r.doc.TakeSnapshot()
	newID, ok := r.doc.InsertAfter(id, content)
	if !ok {
		return "", false
	}
	r.hist.Push(snapshot)
	r.emitter.Emit(events.DocumentChanged)
	return newID, true
}

// UpdateBlock replaces a block's content from manual typing.
func (r *Router) UpdateBlock(id, content string) bool {
	snapshot := r.doc.TakeSnapshot()
	if !r.doc.Update(id, content) {
		return false
	}
	r.hist.Push(snapshot)
	r.emitter.Emit(events.DocumentChanged)
	return true
}

// DeleteBlock removes a block. Deleting the last remaining block leaves a
// single empty block.
func (r *Router) DeleteBlock(id string) bool {
	snapshot := r.doc.TakeSnapshot()
	if !r.doc.Delete(id) {
		return false
	}
	r.hist.Push(snapshot)
	r.emitter.Emit(events.DocumentChanged)
	return true
}

// MergeBlockWithPrevious merges a block into its predecessor. Merging the
// first block is a defined no-op returning nil, with no history entry.
func (r *Router) MergeBlockWithPrevious(id string) *document.MergeResult {
	snapshot := r.doc.TakeSnapshot()
	res := r.doc.MergeWithPrevious(id)
	if res == nil {
		return nil
	}
	r.hist.Push(snapshot)
	r.emitter.Emit(events.DocumentChanged)
	return res
}

// Undo restores the most recent past snapshot. A no-op when history is
// empty. Undoing while a suggestion is staged discards the suggestion,
// since its original text no longer matches the document.
func (r *Router) Undo() bool {
	current := r.doc.TakeSnapshot()
	restored, ok := r.hist.Undo(current)
	if !ok {
		return false
	}
	r.doc.Restore(restored)
	if r.staging.HasPending() {
		r.staging.Clear()
		r.emitter.Emit(events.SuggestionStaged)
	}
	r.emitter.Emit(events.DocumentChanged)
	return true
}

// Redo is the symmetric inverse of Undo.
func (r *Router) Redo() bool {
	current := r.doc.TakeSnapshot()
	restored, ok := r.hist.Redo(current)
	if !ok {
		return false
	}
	r.doc.Restore(restored)
	r.emitter.Emit(events.DocumentChanged)
	return true
}

// Confirm applies the staged suggestion: a block-scoped proposal replaces
// that block's content, a document-scoped proposal re-parses the document
// entirely. No history entry is pushed here; the snapshot was taken at
// staging time so stage->confirm undoes as one step.
func (r *Router) Confirm() error {
	p := r.staging.Take()
	if p == nil {
		return ErrNoPending
	}

	if p.Scope == review.ScopeBlock {
		if !r.doc.Update(p.BlockID, p.Proposed) {
			r.logger.Warn("confirmed suggestion targets a missing block",
				zap.String("blockID", p.BlockID))
		}
	} else {
		r.doc.Replace(p.Proposed)
	}

	r.logger.Info("suggestion confirmed", zap.String("scope", string(p.Scope)))
	r.emitter.Emit(events.SuggestionStaged)
	r.emitter.Emit(events.DocumentChanged)
	return nil
}

// Reject discards the staged suggestion without touching the document.
func (r *Router) Reject() error {
	if r.staging.Take() == nil {
		return ErrNoPending
	}
	r.logger.Info("suggestion rejected")
	r.emitter.Emit(events.SuggestionStaged)
	return nil
}

// ClearConversation resets the clarifying flag and discards the turn log.
// Not an undoable document action.
func (r *Router) ClearConversation() {
	if r.conv.Len() == 0 && !r.conv.Clarifying() {
		return
	}
	r.conv.Clear()
	r.emitter.Emit(events.ConversationUpdated)
}

// Read-only accessors for a UI layer.

// Text returns the current serialized document.
func (r *Router) Text() string {
	return r.doc.Serialize()
}

// Blocks returns a copy of the current block sequence.
func (r *Router) Blocks() []document.Block {
	return r.doc.Blocks()
}

// Pending returns the staged suggestion, or nil.
func (r *Router) Pending() *review.PendingSuggestion {
	return r.staging.Pending()
}

// Turns returns the clarification log.
func (r *Router) Turns() []conversation.Turn {
	return r.conv.Turns()
}

// Clarifying reports whether a clarification exchange is open.
func (r *Router) Clarifying() bool {
	return r.conv.Clarifying()
}

// CanUndo reports undo availability.
func (r *Router) CanUndo() bool {
	return r.hist.CanUndo()
}

// CanRedo reports redo availability.
func (r *Router) CanRedo() bool {
	return r.hist.CanRedo()
}
