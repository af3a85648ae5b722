// Package diff computes character-level change counts between two texts
// using the sergi/go-diff library, and classifies AI-proposed rewrites as
// small (apply silently) or large (stage for user review).
package diff

import (
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Engine computes character-level diffs with caching for identical input pairs.
// It is stateless apart from the cache and safe for concurrent use.
type Engine struct {
	dmp   *diffmatchpatch.DiffMatchPatch
	cache sync.Map
}

type cacheKey struct {
	preHash  uint64
	postHash uint64
}

// NewEngine creates a new diff engine.
func NewEngine() *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // Disable timeout for accuracy
	return &Engine{dmp: dmp}
}

// DefaultEngine is a shared engine for general use.
var DefaultEngine = NewEngine()

// ChangedChars returns the total length of inserted and deleted character
// runs in a character-level alignment of pre and post. Unchanged runs are
// excluded. The result is 0 iff pre == post.
func (e *Engine) ChangedChars(pre, post string) int {
	if pre == post {
		return 0
	}

	key := cacheKey{hash(pre), hash(post)}
	if cached, ok := e.cache.Load(key); ok {
		if n, ok := cached.(int); ok {
			return n
		}
	}

	diffs := e.dmp.DiffMain(pre, post, false)
	diffs = e.dmp.DiffCleanupSemantic(diffs)

	changed := 0
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed += len([]rune(d.Text))
		}
	}

	e.cache.Store(key, changed)
	return changed
}

// ChangedChars is a convenience function using the default engine.
func ChangedChars(pre, post string) int {
	return DefaultEngine.ChangedChars(pre, post)
}

// Diffs returns the raw character-level diff segments between pre and post,
// semantically cleaned. Used by the review surface to render a staged
// suggestion with inline change highlighting.
func (e *Engine) Diffs(pre, post string) []diffmatchpatch.Diff {
	diffs := e.dmp.DiffMain(pre, post, false)
	return e.dmp.DiffCleanupSemantic(diffs)
}

// ClearCache drops all cached results.
func (e *Engine) ClearCache() {
	e.cache = sync.Map{}
}

// hash computes an FNV-1a hash for cache keys.
func hash(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// Classifier decides whether an AI-proposed rewrite is small enough to apply
// without confirmation. The threshold is inclusive: a change of exactly
// Threshold characters still applies silently. Voice-driven edits are
// frequently one-word corrections, so every tiny fix must not demand a
// confirmation round trip, while large rewrites must never silently clobber
// existing text.
type Classifier struct {
	engine    *Engine
	threshold int
}

// DefaultThreshold is the reference cut line between silent application and
// staged review, in changed characters.
const DefaultThreshold = 10

// NewClassifier creates a classifier with the given inclusive threshold.
// A non-positive threshold falls back to DefaultThreshold.
func NewClassifier(engine *Engine, threshold int) *Classifier {
	if engine == nil {
		engine = DefaultEngine
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{engine: engine, threshold: threshold}
}

// Threshold returns the configured inclusive threshold.
func (c *Classifier) Threshold() int {
	return c.threshold
}

// NeedsReview reports whether replacing pre with post changes strictly more
// than the threshold number of characters.
func (c *Classifier) NeedsReview(pre, post string) bool {
	return c.engine.ChangedChars(pre, post) > c.threshold
}
