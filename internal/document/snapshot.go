package document

// Snapshot is an immutable copy of a document's block sequence at one point
// in time, used for undo/redo. Equality is structural: two snapshots are
// equal when their blocks match by ID and content in order.
type Snapshot struct {
	items []Block
	key   string
}

// TakeSnapshot captures the document's current block sequence.
func (d *Document) TakeSnapshot() Snapshot {
	items := make([]Block, len(d.blocks))
	copy(items, d.blocks)
	return Snapshot{items: items, key: snapshotKey(items)}
}

// snapshotKey builds the structural equality key. IDs participate so that a
// re-parse producing identical text but fresh blocks still reads as a
// distinct state.
func snapshotKey(items []Block) string {
	n := 0
	for _, b := range items {
		n += len(b.ID) + len(b.Content) + 2
	}
	buf := make([]byte, 0, n)
	for _, b := range items {
		buf = append(buf, b.ID...)
		buf = append(buf, 0)
		buf = append(buf, b.Content...)
		buf = append(buf, 0)
	}
	return string(buf)
}

// Key returns the structural equality key.
func (s Snapshot) Key() string {
	return s.key
}

// Equal reports structural equality with another snapshot.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.key == other.key
}

// Blocks returns a copy of the captured block sequence.
func (s Snapshot) Blocks() []Block {
	return s.blocks()
}

func (s Snapshot) blocks() []Block {
	out := make([]Block, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of captured blocks.
func (s Snapshot) Len() int {
	return len(s.items)
}
