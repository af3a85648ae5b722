// Package router implements the reconciliation state machine at the heart
// of the editor. It is the only component with mutation authority over the
// document, history, and review staging: classified AI responses, manual
// edits, undo/redo, and confirm/reject all pass through it as synchronous,
// atomic state transitions on one logical thread.
package router

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scribe/internal/conversation"
	"scribe/internal/diff"
	"scribe/internal/document"
	"scribe/internal/events"
	"scribe/internal/history"
	"scribe/internal/review"
)

var (
	// ErrSurfaceBusy is returned when an interaction is already outstanding
	// on the requested surface. The caller must wait for resolution or
	// cancel first.
	ErrSurfaceBusy = errors.New("an interaction is already in flight on this surface")
	// ErrNoPending is returned by Confirm and Reject when no suggestion is
	// staged.
	ErrNoPending = errors.New("no pending suggestion")
	// ErrNotCancelable is returned when Cancel is called after dispatch.
	ErrNotCancelable = errors.New("interaction already dispatched; it can only be abandoned")
)

// State tracks an interaction through its lifecycle.
type State int

const (
	// StatePending - latch held, request not yet dispatched. Cancelable.
	StatePending State = iota
	// StateAwaiting - request dispatched to the collaborator, response
	// outstanding.
	StateAwaiting
	// StateResolved - response (or failure) consumed; latch released.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAwaiting:
		return "awaiting_response"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// documentSurface is the latch key for whole-document interactions. Each
// block gets its own key, so block-level and document-level requests do not
// exclude each other.
const documentSurface = "document"

// Interaction is one in-flight exchange with the AI collaborator. It pins
// the scope resolved at begin time so a focus change mid-flight cannot
// redirect the response.
type Interaction struct {
	ID        string
	Scope     review.Scope
	BlockID   string // set when Scope == review.ScopeBlock
	state     State
	surface   string
	abandoned bool
}

// State returns the interaction's lifecycle state.
func (in *Interaction) State() State {
	return in.state
}

// Config carries the routing policy knobs.
type Config struct {
	// Threshold is the inclusive changed-characters cut line for review
	// classification.
	Threshold int
	// InlineAppendFloor is the minimum rune length for an inquire response
	// in single-block scope to be downgraded to an append instead of being
	// discarded. Inline contexts cannot host a multi-turn exchange, so a
	// substantial answer is kept as content and a trivial one is dropped.
	InlineAppendFloor int
}

// DefaultInlineAppendFloor is the reference floor for the inline inquire
// fallback.
const DefaultInlineAppendFloor = 3

// Router owns the document session state and reconciles classified AI
// responses into it. Not safe for concurrent use: all calls must come from
// one logical thread.
type Router struct {
	doc        *document.Document
	hist       *history.Manager
	staging    *review.Staging
	conv       *conversation.Log
	classifier *diff.Classifier
	emitter    *events.Emitter
	logger     *zap.Logger

	inlineAppendFloor int
	latches           map[string]*Interaction
}

// New creates a router over the given collaborating components. A nil
// logger falls back to zap.NewNop.
func New(doc *document.Document, hist *history.Manager, staging *review.Staging, conv *conversation.Log, cfg Config, emitter *events.Emitter, logger *zap.Logger) *Router {
	if emitter == nil {
		emitter = events.NewEmitter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	floor := cfg.InlineAppendFloor
	if floor <= 0 {
		floor = DefaultInlineAppendFloor
	}
	return &Router{
		doc:               doc,
		hist:              hist,
		staging:           staging,
		conv:              conv,
		classifier:        diff.NewClassifier(nil, cfg.Threshold),
		emitter:           emitter,
		logger:            logger,
		inlineAppendFloor: floor,
		latches:           make(map[string]*Interaction),
	}
}

// Begin resolves the interaction scope from the current focus and latches
// the corresponding surface. A focused block with non-empty content yields
// single-block scope; anything else is whole-document scope. Returns
// ErrSurfaceBusy while another interaction is outstanding on the same
// surface.
func (r *Router) Begin(focusedBlockID string) (*Interaction, error) {
	scope := review.ScopeDocument
	blockID := ""
	surface := documentSurface

	if focusedBlockID != "" {
		if b, ok := r.doc.Get(focusedBlockID); ok && !b.IsEmpty {
			scope = review.ScopeBlock
			blockID = b.ID
			surface = "block:" + b.ID
		}
	}

	if _, busy := r.latches[surface]; busy {
		return nil, ErrSurfaceBusy
	}

	in := &Interaction{
		ID:      uuid.NewString(),
		Scope:   scope,
		BlockID: blockID,
		state:   StatePending,
		surface: surface,
	}
	r.latches[surface] = in

	r.logger.Debug("interaction began",
		zap.String("id", in.ID),
		zap.String("scope", string(in.Scope)),
		zap.String("surface", surface))
	return in, nil
}

// MarkDispatched transitions the interaction to awaiting. After this point
// the request has been sent and can no longer be canceled, only abandoned.
func (r *Router) MarkDispatched(in *Interaction) {
	if in != nil && in.state == StatePending {
		in.state = StateAwaiting
	}
}

// Cancel releases the latch for an interaction that was never dispatched.
// No collaborator resource is consumed. Returns ErrNotCancelable once the
// request is in flight.
func (r *Router) Cancel(in *Interaction) error {
	if in == nil || in.state == StateResolved {
		return nil
	}
	if in.state != StatePending {
		return ErrNotCancelable
	}
	in.state = StateResolved
	delete(r.latches, in.surface)
	r.logger.Debug("interaction canceled before dispatch", zap.String("id", in.ID))
	return nil
}

// Abandon marks an in-flight interaction as locally abandoned, for example
// because the user navigated away. The response, when it arrives, is
// discarded without mutating the document.
func (r *Router) Abandon(in *Interaction) {
	if in != nil {
		in.abandoned = true
	}
}

// Fail releases the latch after a collaborator failure. The document is
// left untouched and the surface is immediately available for a retry.
func (r *Router) Fail(in *Interaction, err error) {
	if in == nil || in.state == StateResolved {
		return
	}
	in.state = StateResolved
	delete(r.latches, in.surface)
	r.logger.Warn("collaborator failure",
		zap.String("id", in.ID),
		zap.Error(err))
}

// Awaiting reports whether an interaction is outstanding on the surface the
// given focus would resolve to. Used by the UI for its processing
// indicator.
func (r *Router) Awaiting(focusedBlockID string) bool {
	if focusedBlockID != "" {
		if b, ok := r.doc.Get(focusedBlockID); ok && !b.IsEmpty {
			_, busy := r.latches["block:"+b.ID]
			return busy
		}
	}
	_, busy := r.latches[documentSurface]
	return busy
}
