// Package history provides bounded undo/redo stacks of document snapshots.
package history

import "scribe/internal/document"

// DefaultDepth is the reference bound on each stack.
const DefaultDepth = 5

// Manager holds two bounded LIFO stacks of snapshots. Pushing a snapshot
// structurally identical to the top of the past stack is a no-op, so manual
// re-saves and no-op edits never bloat history. Any real push discards the
// future stack (branching history is dropped on new edits).
type Manager struct {
	past   []document.Snapshot
	future []document.Snapshot
	depth  int
}

// NewManager creates a history manager bounded to depth entries per stack.
// A non-positive depth falls back to DefaultDepth.
func NewManager(depth int) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Manager{depth: depth}
}

// Push records a snapshot taken before a mutation. Identical-to-top pushes
// are silently ignored. When the bound is exceeded the oldest entry is
// dropped without notice.
func (m *Manager) Push(s document.Snapshot) {
	if len(m.past) > 0 && m.past[len(m.past)-1].Equal(s) {
		return
	}
	m.past = append(m.past, s)
	m.future = m.future[:0]
	if len(m.past) > m.depth {
		m.past = m.past[len(m.past)-m.depth:]
	}
}

// Undo pops the most recent past snapshot, stores current on the future
// stack, and returns the popped snapshot as the new current state. Returns
// false when there is nothing to undo; current is not recorded in that case.
func (m *Manager) Undo(current document.Snapshot) (document.Snapshot, bool) {
	if len(m.past) == 0 {
		return document.Snapshot{}, false
	}
	top := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append(m.future, current)
	if len(m.future) > m.depth {
		m.future = m.future[len(m.future)-m.depth:]
	}
	return top, true
}

// Redo is the symmetric inverse of Undo using the future stack.
func (m *Manager) Redo(current document.Snapshot) (document.Snapshot, bool) {
	if len(m.future) == 0 {
		return document.Snapshot{}, false
	}
	top := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.past = append(m.past, current)
	if len(m.past) > m.depth {
		m.past = m.past[len(m.past)-m.depth:]
	}
	return top, true
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool {
	return len(m.past) > 0
}

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool {
	return len(m.future) > 0
}

// Depth returns the configured bound.
func (m *Manager) Depth() int {
	return m.depth
}

// PastLen returns the number of undoable entries.
func (m *Manager) PastLen() int {
	return len(m.past)
}
