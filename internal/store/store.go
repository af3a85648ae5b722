// Package store provides the persistence boundary for documents. The core
// never touches storage directly; an autosave collaborator reads
// point-in-time serializations and writes them through the DocumentStore
// interface.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load for an unknown document ID.
var ErrNotFound = errors.New("document not found")

// BlockRecord is the minimal persisted form of a block.
type BlockRecord struct {
	ID      string
	Content string
}

// DocumentStore saves and loads ordered block sequences by document ID.
// Implementations must be safe for use from the autosave goroutine.
type DocumentStore interface {
	Save(ctx context.Context, docID string, blocks []BlockRecord) error
	Load(ctx context.Context, docID string) ([]BlockRecord, error)
	Close() error
}

// MemoryStore is an in-memory DocumentStore for tests and ephemeral
// sessions.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]BlockRecord

	// FailNext forces the next Save to fail, for out-of-sync tests.
	FailNext error

	// Saves counts successful Save calls.
	Saves int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]BlockRecord)}
}

// Save implements DocumentStore.
func (m *MemoryStore) Save(_ context.Context, docID string, blocks []BlockRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return err
	}
	copied := make([]BlockRecord, len(blocks))
	copy(copied, blocks)
	m.docs[docID] = copied
	m.Saves++
	return nil
}

// Load implements DocumentStore.
func (m *MemoryStore) Load(_ context.Context, docID string) ([]BlockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blocks, ok := m.docs[docID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := make([]BlockRecord, len(blocks))
	copy(copied, blocks)
	return copied, nil
}

// Close implements DocumentStore.
func (m *MemoryStore) Close() error {
	return nil
}
