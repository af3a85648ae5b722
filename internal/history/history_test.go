package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scribe/internal/document"
)

func TestPush_IdenticalSnapshotIsNoOp(t *testing.T) {
	m := NewManager(5)
	d := document.Parse("same")

	m.Push(d.TakeSnapshot())
	m.Push(d.TakeSnapshot())
	assert.Equal(t, 1, m.PastLen(), "identical consecutive pushes must collapse to one entry")
}

func TestPush_ClearsFuture(t *testing.T) {
	m := NewManager(5)
	d := document.Parse("v1")

	m.Push(d.TakeSnapshot())
	d.Update(d.Blocks()[0].ID, "v2")

	_, ok := m.Undo(d.TakeSnapshot())
	require.True(t, ok)
	require.True(t, m.CanRedo())

	// A new edit discards the branch.
	m.Push(document.Parse("v3").TakeSnapshot())
	assert.False(t, m.CanRedo())
}

func TestUndoRedo_RestoresExactSequences(t *testing.T) {
	const k = 4 // k <= default depth 5
	m := NewManager(5)
	d := document.New()

	var states []string
	states = append(states, d.Serialize())

	for i := 0; i < k; i++ {
		m.Push(d.TakeSnapshot())
		d.Append(fmt.Sprintf("paragraph %d", i))
		states = append(states, d.Serialize())
	}

	// K undos restore the exact original sequence.
	for i := k - 1; i >= 0; i-- {
		snap, ok := m.Undo(d.TakeSnapshot())
		require.True(t, ok)
		d.Restore(snap)
		assert.Equal(t, states[i], d.Serialize())
	}

	// K redos restore the final state.
	for i := 1; i <= k; i++ {
		snap, ok := m.Redo(d.TakeSnapshot())
		require.True(t, ok)
		d.Restore(snap)
		assert.Equal(t, states[i], d.Serialize())
	}
}

func TestUndo_EmptyIsNoOp(t *testing.T) {
	m := NewManager(3)
	d := document.Parse("anything")

	_, ok := m.Undo(d.TakeSnapshot())
	assert.False(t, ok)
	assert.False(t, m.CanRedo(), "a failed undo must not record current state")
}

func TestRedo_EmptyIsNoOp(t *testing.T) {
	m := NewManager(3)
	_, ok := m.Redo(document.New().TakeSnapshot())
	assert.False(t, ok)
}

func TestPush_BoundRetainsMostRecent(t *testing.T) {
	const n = 3
	m := NewManager(n)
	d := document.New()

	for i := 0; i < n+4; i++ {
		m.Push(d.TakeSnapshot())
		d.Append(fmt.Sprintf("edit %d", i))
	}
	assert.Equal(t, n, m.PastLen(), "oldest entries beyond the bound are silently dropped")

	// Undo past the bound is a no-op, never an error.
	undone := 0
	for {
		snap, ok := m.Undo(d.TakeSnapshot())
		if !ok {
			break
		}
		d.Restore(snap)
		undone++
	}
	assert.Equal(t, n, undone)
}

func TestNewManager_DepthFallback(t *testing.T) {
	assert.Equal(t, DefaultDepth, NewManager(0).Depth())
	assert.Equal(t, DefaultDepth, NewManager(-2).Depth())
	assert.Equal(t, 8, NewManager(8).Depth())
}
