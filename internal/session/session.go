// Package session wires one document's editing state into a single owned
// context object: document, history, review staging, clarification log,
// router, and autosave. Sessions are instantiated per document and hold no
// global state, so multiple independent sessions can coexist and tests stay
// deterministic.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"scribe/internal/ai"
	"scribe/internal/autosave"
	"scribe/internal/config"
	"scribe/internal/conversation"
	"scribe/internal/document"
	"scribe/internal/events"
	"scribe/internal/history"
	"scribe/internal/review"
	"scribe/internal/router"
	"scribe/internal/store"
)

// Session owns all mutable editing state for one document. Every mutation
// passes through its mutex, which is what makes the core's "one logical
// thread" discipline hold even though the CLI and autosave run goroutines.
type Session struct {
	mu sync.Mutex

	docID   string
	doc     *document.Document
	router  *router.Router
	collab  ai.Collaborator
	saver   *autosave.Saver
	emitter *events.Emitter
	logger  *zap.Logger

	focusID string
}

// Options carries the injected collaborators.
type Options struct {
	Collaborator ai.Collaborator
	Store        store.DocumentStore
	Logger       *zap.Logger
}

// New opens a session for docID, loading the stored block sequence when one
// exists and starting the autosave loop.
func New(ctx context.Context, docID string, cfg *config.Config, opts Options) (*Session, error) {
	if opts.Collaborator == nil {
		return nil, errors.New("a collaborator is required")
	}
	if opts.Store == nil {
		return nil, errors.New("a document store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := loadDocument(ctx, opts.Store, docID)
	if err != nil {
		return nil, err
	}

	emitter := events.NewEmitter()
	hist := history.NewManager(cfg.History.Depth)
	staging := review.NewStaging()
	conv := conversation.NewLog()

	rt := router.New(doc, hist, staging, conv, router.Config{
		Threshold:         cfg.Review.Threshold,
		InlineAppendFloor: cfg.Review.InlineAppendFloor,
	}, emitter, logger)

	s := &Session{
		docID:   docID,
		doc:     doc,
		router:  rt,
		collab:  opts.Collaborator,
		emitter: emitter,
		logger:  logger,
	}

	s.saver = autosave.New(opts.Store, docID, cfg.Autosave.Interval, s.snapshotRecords, emitter, logger)
	s.saver.Start()

	logger.Info("session opened",
		zap.String("docID", docID),
		zap.Int("blocks", doc.Len()))
	return s, nil
}

func loadDocument(ctx context.Context, st store.DocumentStore, docID string) (*document.Document, error) {
	records, err := st.Load(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return document.New(), nil
		}
		return nil, err
	}
	blocks := make([]document.Block, len(records))
	for i, rec := range records {
		blocks[i] = document.Block{ID: rec.ID, Content: rec.Content}
	}
	return document.FromBlocks(blocks), nil
}

// snapshotRecords is the autosave read. It takes the session lock so the
// serialization is a consistent point-in-time view.
func (s *Session) snapshotRecords() []store.BlockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := s.doc.Blocks()
	records := make([]store.BlockRecord, len(blocks))
	for i, b := range blocks {
		records[i] = store.BlockRecord{ID: b.ID, Content: b.Content}
	}
	return records
}

// Close stops the autosave loop after a final flush.
func (s *Session) Close() {
	s.saver.Stop()
	s.logger.Info("session closed", zap.String("docID", s.docID))
}

// Subscribe registers an event handler. Must be called before concurrent
// use begins.
func (s *Session) Subscribe(h events.Handler) {
	s.emitter.Subscribe(h)
}

// Focus marks a block as the current editing target. An unknown or empty
// ID clears focus.
func (s *Session) Focus(blockID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Get(blockID); ok {
		s.focusID = blockID
	} else {
		s.focusID = ""
	}
}

// Blur clears the focused block.
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusID = ""
}

// FocusedBlock returns the ID of the focused block, or empty.
func (s *Session) FocusedBlock() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusID
}

// Begin latches the surface the current focus resolves to, without
// dispatching anything. The returned interaction can be canceled before
// Send, consuming no collaborator resources.
func (s *Session) Begin() (*router.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Begin(s.focusID)
}

// Cancel releases a not-yet-dispatched interaction.
func (s *Session) Cancel(in *router.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Cancel(in)
}

// Abandon marks an in-flight interaction so its eventual response is
// discarded.
func (s *Session) Abandon(in *router.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.router.Abandon(in)
}

// Send dispatches the utterance for a begun interaction and routes the
// response. The collaborator call happens outside the session lock so local
// editing is never blocked by a slow model. On failure the latch is
// released, the document untouched, and the error returned for the UI's
// non-blocking indicator.
func (s *Session) Send(ctx context.Context, in *router.Interaction, utterance string) error {
	s.mu.Lock()
	req := s.router.BuildRequest(in, utterance)
	s.router.MarkDispatched(in)
	s.mu.Unlock()

	resp, err := s.collab.Classify(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.router.Fail(in, err)
		return err
	}
	s.router.Resolve(in, resp)
	return nil
}

// Dispatch is the one-shot convenience: begin, send, resolve.
func (s *Session) Dispatch(ctx context.Context, utterance string) error {
	in, err := s.Begin()
	if err != nil {
		return err
	}
	return s.Send(ctx, in, utterance)
}
