package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaging_AtMostOne(t *testing.T) {
	s := NewStaging()
	assert.False(t, s.HasPending())

	s.Stage(PendingSuggestion{Scope: ScopeDocument, Original: "a", Proposed: "b"})
	require.True(t, s.HasPending())

	// Staging again fully replaces the prior suggestion, no merging.
	s.Stage(PendingSuggestion{Scope: ScopeBlock, BlockID: "blk", Original: "x", Proposed: "y"})
	p := s.Pending()
	require.NotNil(t, p)
	assert.Equal(t, ScopeBlock, p.Scope)
	assert.Equal(t, "y", p.Proposed)
}

func TestStaging_TakeConsumes(t *testing.T) {
	s := NewStaging()
	s.Stage(PendingSuggestion{Scope: ScopeDocument, Proposed: "new"})

	p := s.Take()
	require.NotNil(t, p)
	assert.Nil(t, s.Take(), "second take must find the slot empty")
	assert.False(t, s.HasPending())
}

func TestStaging_PendingReturnsCopy(t *testing.T) {
	s := NewStaging()
	s.Stage(PendingSuggestion{Scope: ScopeDocument, Proposed: "orig"})

	p := s.Pending()
	p.Proposed = "mutated"
	assert.Equal(t, "orig", s.Pending().Proposed)
}
