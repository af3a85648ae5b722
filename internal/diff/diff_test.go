package diff

import (
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
)

func TestChangedChars_Identical(t *testing.T) {
	assert.Equal(t, 0, ChangedChars("hello", "hello"))
	assert.Equal(t, 0, ChangedChars("", ""))
}

func TestChangedChars_PureInsert(t *testing.T) {
	assert.Equal(t, 6, ChangedChars("hello", "hello world"))
}

func TestChangedChars_PureDelete(t *testing.T) {
	assert.Equal(t, 6, ChangedChars("hello world", "hello"))
}

func TestChangedChars_Substitution(t *testing.T) {
	// One character replaced counts as one deletion plus one insertion.
	assert.Equal(t, 2, ChangedChars("- Meeting at 3pm", "- Meeting at 4pm"))
}

func TestChangedChars_FromEmpty(t *testing.T) {
	assert.Equal(t, 4, ChangedChars("", "abcd"))
}

func TestChangedChars_CachedResultStable(t *testing.T) {
	e := NewEngine()
	first := e.ChangedChars("alpha beta", "alpha gamma")
	second := e.ChangedChars("alpha beta", "alpha gamma")
	assert.Equal(t, first, second)

	e.ClearCache()
	assert.Equal(t, first, e.ChangedChars("alpha beta", "alpha gamma"))
}

func TestChangedChars_MonotonicInInsertLength(t *testing.T) {
	pre := "a short paragraph about nothing in particular"
	prev := 0
	for k := 1; k <= 40; k++ {
		post := pre + strings.Repeat("x", k)
		got := ChangedChars(pre, post)
		assert.GreaterOrEqual(t, got, prev, "changed count must not shrink as the insert grows")
		prev = got
	}
}

func TestClassifier_InclusiveBoundary(t *testing.T) {
	c := NewClassifier(NewEngine(), 10)

	// Exactly at threshold: apply silently.
	assert.False(t, c.NeedsReview("1234567890", ""))
	// One past threshold: stage for review.
	assert.True(t, c.NeedsReview("12345678901", ""))
}

func TestClassifier_MonotonicDecision(t *testing.T) {
	c := NewClassifier(NewEngine(), 10)
	pre := "- Meeting at 3pm"

	staged := false
	for k := 1; k <= 30; k++ {
		post := pre + strings.Repeat("y", k)
		if c.NeedsReview(pre, post) {
			staged = true
		} else {
			assert.False(t, staged, "a longer insert must never flip back to silent application")
		}
	}
	assert.True(t, staged, "a 30-char insert must exceed a threshold of 10")
}

func TestClassifier_Defaults(t *testing.T) {
	c := NewClassifier(nil, 0)
	assert.Equal(t, DefaultThreshold, c.Threshold())
}

func TestDiffs_SegmentsCoverBothTexts(t *testing.T) {
	e := NewEngine()
	diffs := e.Diffs("the quick fox", "the slow fox")
	assert.NotEmpty(t, diffs)

	var rebuilt strings.Builder
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffDelete {
			rebuilt.WriteString(d.Text)
		}
	}
	assert.Equal(t, "the slow fox", rebuilt.String())
}
