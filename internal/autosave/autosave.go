// Package autosave is the debounced persistence consumer. It reads a
// point-in-time serialization of the document on a timer and writes it to
// the store. It never mutates the document, skips writes when nothing
// changed since the last sync, and surfaces persistence failures as a
// sticky out-of-sync indicator that never blocks local editing.
package autosave

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"scribe/internal/events"
	"scribe/internal/store"
)

// SnapshotFunc returns the current ordered block records. It is called from
// the autosave goroutine; the provider must make the read atomic with
// respect to core mutations.
type SnapshotFunc func() []store.BlockRecord

// Saver drives debounced writes for one document.
type Saver struct {
	store    store.DocumentStore
	docID    string
	interval time.Duration
	snapshot SnapshotFunc
	emitter  *events.Emitter
	logger   *zap.Logger

	mu         sync.Mutex
	lastSynced string
	outOfSync  bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a saver. The emitter may be shared with the router; sync
// state flips are emitted as events.SyncStateChanged.
func New(st store.DocumentStore, docID string, interval time.Duration, snapshot SnapshotFunc, emitter *events.Emitter, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if emitter == nil {
		emitter = events.NewEmitter()
	}
	return &Saver{
		store:    st,
		docID:    docID,
		interval: interval,
		snapshot: snapshot,
		emitter:  emitter,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the timer loop.
func (s *Saver) Start() {
	go s.run()
}

// Stop ends the loop after one final flush and waits for it to exit.
func (s *Saver) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.doneCh
}

// OutOfSync reports whether the last write attempt failed and has not been
// superseded by a successful one.
func (s *Saver) OutOfSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outOfSync
}

// SaveNow performs an immediate write attempt, bypassing the timer but
// still skipping redundant writes.
func (s *Saver) SaveNow(ctx context.Context) error {
	return s.flush(ctx)
}

func (s *Saver) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.flush(context.Background()); err != nil {
				s.logger.Warn("autosave failed", zap.Error(err))
			}
		case <-s.stopCh:
			if err := s.flush(context.Background()); err != nil {
				s.logger.Warn("final autosave failed", zap.Error(err))
			}
			return
		}
	}
}

// flush writes the current snapshot unless it matches the last synced one.
func (s *Saver) flush(ctx context.Context) error {
	blocks := s.snapshot()
	key := syncKey(blocks)

	s.mu.Lock()
	if key == s.lastSynced {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.store.Save(ctx, s.docID, blocks)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !s.outOfSync {
			s.outOfSync = true
			s.emitter.Emit(events.SyncStateChanged)
		}
		return err
	}
	s.lastSynced = key
	if s.outOfSync {
		s.outOfSync = false
		s.emitter.Emit(events.SyncStateChanged)
	}
	return nil
}

func syncKey(blocks []store.BlockRecord) string {
	var b strings.Builder
	for _, rec := range blocks {
		b.WriteString(rec.ID)
		b.WriteByte(0)
		b.WriteString(rec.Content)
		b.WriteByte(0)
	}
	return b.String()
}
