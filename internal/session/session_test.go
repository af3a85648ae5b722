package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"scribe/internal/ai"
	"scribe/internal/config"
	"scribe/internal/store"
)

func testConfig() *config.Config {
	cfg := config.Default()
	// Keep the timer out of the way; tests flush explicitly.
	cfg.Autosave.Interval = time.Hour
	return cfg
}

func openSession(t *testing.T, collab ai.Collaborator, st store.DocumentStore) *Session {
	t.Helper()
	s, err := New(context.Background(), "test-doc", testConfig(), Options{
		Collaborator: collab,
		Store:        st,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSession_DispatchAppend(t *testing.T) {
	collab := ai.NewScriptedCollaborator(
		ai.Response{Kind: ai.KindAppend, Content: "- Buy eggs"},
	)
	s := openSession(t, collab, store.NewMemoryStore())
	s.AppendBlock("- Buy milk")

	require.NoError(t, s.Dispatch(context.Background(), "add eggs to the list"))

	assert.Equal(t, "- Buy milk\n\n- Buy eggs", s.Text())
	assert.True(t, s.CanUndo())
}

func TestSession_PersistAndReload(t *testing.T) {
	// go.opencensus.io starts a background worker in its package init (pulled
	// in indirectly via the genai client); it is not a session leak.
	defer goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	mem := store.NewMemoryStore()
	s, err := New(context.Background(), "persisted", testConfig(), Options{
		Collaborator: ai.NewScriptedCollaborator(),
		Store:        mem,
	})
	require.NoError(t, err)

	s.AppendBlock("first note")
	s.AppendBlock("second note")
	want := s.Text()
	s.Close() // final flush

	reopened, err := New(context.Background(), "persisted", testConfig(), Options{
		Collaborator: ai.NewScriptedCollaborator(),
		Store:        mem,
	})
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, want, reopened.Text())
}

func TestSession_FocusedReviewReplacesBlock(t *testing.T) {
	collab := ai.NewScriptedCollaborator(
		ai.Response{Kind: ai.KindReview, Content: "- Meeting at 4pm"},
	)
	s := openSession(t, collab, store.NewMemoryStore())

	id := s.AppendBlock("- Meeting at 3pm")
	s.Focus(id)

	require.NoError(t, s.Dispatch(context.Background(), "make it 4pm"))

	blocks := s.Blocks()
	assert.Equal(t, "- Meeting at 4pm", blocks[len(blocks)-1].Content)
	assert.Nil(t, s.Pending())
}

func TestSession_LargeReviewStagedThenConfirmed(t *testing.T) {
	rewrite := strings.Repeat("a completely different paragraph ", 8)
	collab := ai.NewScriptedCollaborator(
		ai.Response{Kind: ai.KindReview, Content: rewrite},
	)
	s := openSession(t, collab, store.NewMemoryStore())

	id := s.AppendBlock("short original")
	s.Focus(id)

	require.NoError(t, s.Dispatch(context.Background(), "rewrite this completely"))

	p := s.Pending()
	require.NotNil(t, p)
	assert.Equal(t, "short original", p.Original)

	require.NoError(t, s.Confirm())
	blocks := s.Blocks()
	assert.Equal(t, rewrite, blocks[len(blocks)-1].Content)
	assert.Nil(t, s.Pending())
}

func TestSession_CollaboratorFailureLeavesDocumentAndLatch(t *testing.T) {
	collab := ai.NewFailingCollaborator(assert.AnError)
	s := openSession(t, collab, store.NewMemoryStore())
	s.AppendBlock("stable")
	before := s.Text()

	err := s.Dispatch(context.Background(), "do something")
	require.Error(t, err)

	assert.Equal(t, before, s.Text())
	assert.False(t, s.Awaiting(), "latch must be released for an immediate retry")
}

func TestSession_CancelBeforeSendConsumesNothing(t *testing.T) {
	collab := ai.NewScriptedCollaborator()
	s := openSession(t, collab, store.NewMemoryStore())

	in, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Cancel(in))

	assert.Empty(t, collab.Requests, "no collaborator call may happen for a canceled interaction")
	assert.False(t, s.Awaiting())
}

func TestSession_ClarificationIncludedInFollowUp(t *testing.T) {
	collab := ai.NewScriptedCollaborator(
		ai.Response{Kind: ai.KindInquire, Content: "Add it to which list?", Utterance: "add cheese"},
		ai.Response{Kind: ai.KindAppend, Content: "- Cheese"},
	)
	s := openSession(t, collab, store.NewMemoryStore())
	s.AppendBlock("- Buy milk")

	require.NoError(t, s.Dispatch(context.Background(), "add cheese"))
	require.True(t, s.Clarifying())
	require.Len(t, s.Turns(), 2)

	require.NoError(t, s.Dispatch(context.Background(), "the grocery list"))

	require.Len(t, collab.Requests, 2)
	assert.Len(t, collab.Requests[1].Conversation, 2,
		"the follow-up request must carry the accumulated turns")
	assert.False(t, s.Clarifying(), "a resolving response clears the exchange")
}

func TestSession_UndoRedoRoundTrip(t *testing.T) {
	s := openSession(t, ai.NewScriptedCollaborator(), store.NewMemoryStore())

	s.AppendBlock("one")
	s.AppendBlock("two")
	after := s.Text()

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	require.True(t, s.Redo())
	require.True(t, s.Redo())
	assert.Equal(t, after, s.Text())
	assert.False(t, s.Redo())
}

func TestSession_OutOfSyncIndicator(t *testing.T) {
	mem := store.NewMemoryStore()
	s := openSession(t, ai.NewScriptedCollaborator(), mem)
	s.AppendBlock("content")

	mem.FailNext = assert.AnError
	require.Error(t, s.SaveNow(context.Background()))
	assert.True(t, s.OutOfSync())

	// Local editing is never blocked by a persistence failure.
	s.AppendBlock("still editable")

	require.NoError(t, s.SaveNow(context.Background()))
	assert.False(t, s.OutOfSync())
}
