package router

import (
	"go.uber.org/zap"

	"scribe/internal/ai"
	"scribe/internal/conversation"
	"scribe/internal/document"
	"scribe/internal/events"
	"scribe/internal/review"
)

// parseFragments splits response content into block contents using the
// document's blank-line grammar.
func parseFragments(content string) []string {
	blocks := document.Parse(content).Blocks()
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Content
	}
	return out
}

// BuildRequest assembles the collaborator request for an interaction: the
// utterance, the serialized document, the focused block text for
// single-block scope, and the accumulated clarification turns while a
// clarification exchange is in progress.
func (r *Router) BuildRequest(in *Interaction, utterance string) ai.Request {
	req := ai.Request{
		Utterance:    utterance,
		DocumentText: r.doc.Serialize(),
	}
	if in != nil && in.Scope == review.ScopeBlock {
		if b, ok := r.doc.Get(in.BlockID); ok {
			req.FocusedBlockText = b.Content
		}
	}
	if r.conv.Clarifying() {
		req.Conversation = r.conv.Turns()
	}
	return req
}

// Resolve consumes a classified response for an in-flight interaction and
// routes it into the document, history, review staging, or conversation
// log. The latch is released in every case. Responses for abandoned
// interactions are discarded without mutating anything.
func (r *Router) Resolve(in *Interaction, resp ai.Response) {
	if in == nil || in.state == StateResolved {
		return
	}
	in.state = StateResolved
	delete(r.latches, in.surface)

	if in.abandoned {
		r.logger.Debug("discarding response for abandoned interaction",
			zap.String("id", in.ID))
		return
	}

	r.logger.Debug("routing response",
		zap.String("id", in.ID),
		zap.String("kind", string(resp.Kind)),
		zap.String("scope", string(in.Scope)))

	wasClarifying := r.conv.Clarifying()

	switch resp.Kind {
	case ai.KindAppend:
		r.applyAppend(in, resp.Content)
	case ai.KindReview:
		r.routeReview(in, resp.Content)
	case ai.KindReviewImmediate:
		// Pre-classified upstream; trust the tag, skip the diff check.
		r.applyRewrite(in, resp.Content)
	case ai.KindInquire:
		r.routeInquire(in, resp)
		return
	default:
		// Unknown tag from a newer collaborator: degrade to a literal
		// append, same as a malformed payload.
		r.logger.Warn("unknown response kind, falling back to append",
			zap.String("kind", string(resp.Kind)))
		r.applyAppend(in, resp.Content)
	}

	// Any non-inquire outcome resolves an open clarification exchange.
	if wasClarifying {
		r.conv.Clear()
		r.emitter.Emit(events.ConversationUpdated)
	}
}

// routeReview applies the changed-characters threshold: small rewrites
// apply silently, large ones are staged as a pending suggestion and the
// document stays untouched until the user decides.
func (r *Router) routeReview(in *Interaction, proposed string) {
	original := r.targetText(in)

	if !r.classifier.NeedsReview(original, proposed) {
		r.applyRewrite(in, proposed)
		return
	}

	// Snapshot now so that stage->confirm spans a single undoable step.
	r.hist.Push(r.doc.TakeSnapshot())
	r.staging.Stage(review.PendingSuggestion{
		Scope:    in.Scope,
		BlockID:  in.BlockID,
		Original: original,
		Proposed: proposed,
	})
	r.logger.Info("suggestion staged for review",
		zap.String("scope", string(in.Scope)),
		zap.Int("proposedLen", len(proposed)))
	r.emitter.Emit(events.SuggestionStaged)
}

// routeInquire handles a clarifying question. Whole-document scope opens or
// extends the clarification exchange. Single-block scope cannot host a
// multi-turn exchange: a response above the configured floor is kept as an
// append onto the target, anything shorter is silently discarded.
func (r *Router) routeInquire(in *Interaction, resp ai.Response) {
	if in.Scope == review.ScopeBlock {
		if len([]rune(resp.Content)) > r.inlineAppendFloor {
			r.applyAppend(in, resp.Content)
		} else {
			r.logger.Debug("discarding trivial inline inquire",
				zap.Int("len", len(resp.Content)))
		}
		return
	}

	r.conv.Append(conversation.RoleUser, resp.Utterance)
	r.conv.Append(conversation.RoleAssistant, resp.Content)
	r.emitter.Emit(events.ConversationUpdated)
}

// applyAppend concatenates new content onto the target. An empty target
// block is replaced outright instead of gaining a leading separator. In
// whole-document scope the content is parsed into new blocks appended at
// the end; a document consisting of a single empty block is replaced
// entirely.
func (r *Router) applyAppend(in *Interaction, content string) {
	r.hist.Push(r.doc.TakeSnapshot())

	if in.Scope == review.ScopeBlock {
		if b, ok := r.doc.Get(in.BlockID); ok {
			if b.IsEmpty {
				r.doc.Update(in.BlockID, content)
			} else {
				r.doc.Update(in.BlockID, b.Content+"\n\n"+content)
			}
		} else {
			r.doc.Append(content)
		}
	} else {
		blocks := r.doc.Blocks()
		if len(blocks) == 1 && blocks[0].IsEmpty {
			r.doc.Replace(content)
		} else {
			for _, nb := range parseFragments(content) {
				r.doc.Append(nb)
			}
		}
	}
	r.emitter.Emit(events.DocumentChanged)
}

// applyRewrite replaces the target immediately, without staging.
func (r *Router) applyRewrite(in *Interaction, proposed string) {
	r.hist.Push(r.doc.TakeSnapshot())

	if in.Scope == review.ScopeBlock {
		if !r.doc.Update(in.BlockID, proposed) {
			r.logger.Warn("rewrite target no longer exists",
				zap.String("blockID", in.BlockID))
		}
	} else {
		r.doc.Replace(proposed)
	}
	r.emitter.Emit(events.DocumentChanged)
}

// targetText returns the text a review response is diffed against.
func (r *Router) targetText(in *Interaction) string {
	if in.Scope == review.ScopeBlock {
		if b, ok := r.doc.Get(in.BlockID); ok {
			return b.Content
		}
		return ""
	}
	return r.doc.Serialize()
}
