// Package document implements the block-structured document model: an
// ordered sequence of content blocks with CRUD operations and a canonical
// text serialization (blocks joined by blank lines).
package document

import (
	"strings"

	"github.com/google/uuid"
)

// Separator joins block contents in the canonical serialization. A document
// whose block content itself contains a blank-line run will not round-trip;
// that is a documented lossy edge case, not an error.
const Separator = "\n\n"

// Block is the atomic addressable unit of document content, roughly a
// paragraph. IsEmpty is derived from Content on every write and must never
// be set independently.
type Block struct {
	ID      string
	Content string
	IsEmpty bool
}

// NewBlock creates a block with a fresh stable ID.
func NewBlock(content string) Block {
	return Block{
		ID:      uuid.NewString(),
		Content: content,
		IsEmpty: strings.TrimSpace(content) == "",
	}
}

// Document is an ordered sequence of blocks. Order is semantically
// significant (paragraph order). A document is never empty: every operation
// preserves at least one block.
type Document struct {
	blocks []Block
}

// New creates a document containing a single empty block.
func New() *Document {
	return &Document{blocks: []Block{NewBlock("")}}
}

// FromBlocks creates a document from an existing block sequence, for example
// one loaded from persistence. An empty input yields a single empty block.
func FromBlocks(blocks []Block) *Document {
	if len(blocks) == 0 {
		return New()
	}
	copied := make([]Block, len(blocks))
	copy(copied, blocks)
	for i := range copied {
		copied[i].IsEmpty = strings.TrimSpace(copied[i].Content) == ""
	}
	return &Document{blocks: copied}
}

// Parse builds a document from serialized text: split on runs of blank
// lines, drop empty fragments, fall back to a single empty block when
// nothing survives.
func Parse(text string) *Document {
	if strings.TrimSpace(text) == "" {
		return New()
	}

	var blocks []Block
	for _, fragment := range splitBlankRuns(text) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		blocks = append(blocks, NewBlock(fragment))
	}
	if len(blocks) == 0 {
		return New()
	}
	return &Document{blocks: blocks}
}

// splitBlankRuns splits text on runs of one or more blank lines.
func splitBlankRuns(text string) []string {
	lines := strings.Split(text, "\n")
	var fragments []string
	var current []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				fragments = append(fragments, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		fragments = append(fragments, strings.Join(current, "\n"))
	}
	return fragments
}

// Serialize returns the canonical text form: block contents joined by a
// single blank line.
func (d *Document) Serialize() string {
	contents := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		contents[i] = b.Content
	}
	return strings.Join(contents, Separator)
}

// Blocks returns a copy of the block sequence.
func (d *Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// Get returns the block with the given ID.
func (d *Document) Get(id string) (Block, bool) {
	for _, b := range d.blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Append adds a new block at the end and returns its ID.
func (d *Document) Append(content string) string {
	b := NewBlock(content)
	d.blocks = append(d.blocks, b)
	return b.ID
}

// InsertAfter inserts a new block immediately after the block with the
// given ID and returns the new block's ID. Returns false if the ID is not
// found; the document is unchanged in that case.
func (d *Document) InsertAfter(id, content string) (string, bool) {
	for i, b := range d.blocks {
		if b.ID == id {
			nb := NewBlock(content)
			d.blocks = append(d.blocks[:i+1], append([]Block{nb}, d.blocks[i+1:]...)...)
			return nb.ID, true
		}
	}
	return "", false
}

// Update replaces a block's content, recomputing IsEmpty. Returns false if
// the ID is not found.
func (d *Document) Update(id, content string) bool {
	for i := range d.blocks {
		if d.blocks[i].ID == id {
			d.blocks[i].Content = content
			d.blocks[i].IsEmpty = strings.TrimSpace(content) == ""
			return true
		}
	}
	return false
}

// Delete removes the block with the given ID. Deleting the last remaining
// block replaces it with a single empty block rather than leaving the
// document empty. Returns false if the ID is not found.
func (d *Document) Delete(id string) bool {
	for i, b := range d.blocks {
		if b.ID == id {
			if len(d.blocks) == 1 {
				d.blocks = []Block{NewBlock("")}
				return true
			}
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// MergeResult reports where editing focus should land after a merge:
// CursorPos is the length of the previous block's content before
// concatenation, i.e. the exact former boundary.
type MergeResult struct {
	PreviousID string
	CursorPos  int
}

// MergeWithPrevious concatenates the given block's content onto the previous
// block and removes the given block. Merging the first block is a defined
// no-op and returns nil; the document is unchanged. Returns nil as well when
// the ID is not found.
func (d *Document) MergeWithPrevious(id string) *MergeResult {
	for i, b := range d.blocks {
		if b.ID != id {
			continue
		}
		if i == 0 {
			return nil
		}
		prev := &d.blocks[i-1]
		cursor := len(prev.Content)
		prev.Content += b.Content
		prev.IsEmpty = strings.TrimSpace(prev.Content) == ""
		d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
		return &MergeResult{PreviousID: prev.ID, CursorPos: cursor}
	}
	return nil
}

// Replace swaps the entire block sequence for one parsed from text. Block
// identities are not preserved; callers that need the old state must
// snapshot first.
func (d *Document) Replace(text string) {
	d.blocks = Parse(text).blocks
}

// Restore overwrites the block sequence from a snapshot.
func (d *Document) Restore(s Snapshot) {
	d.blocks = s.blocks()
}
