// Package ai defines the boundary to the external AI collaborator that
// classifies user utterances into editing actions, plus a Gemini-backed
// implementation and a scripted one for offline use.
package ai

import (
	"encoding/json"
	"strings"

	"scribe/internal/conversation"
)

// Kind tags a classified response.
type Kind string

const (
	// KindAppend adds new content after the current target.
	KindAppend Kind = "append"
	// KindReview proposes a rewrite; the core decides by diff size whether
	// it applies silently or is staged for confirmation.
	KindReview Kind = "review"
	// KindReviewImmediate proposes a rewrite pre-classified as small enough
	// to apply without staging. The tag is trusted as-is.
	KindReviewImmediate Kind = "review_immediate"
	// KindInquire asks the user a clarifying question before editing.
	KindInquire Kind = "inquire"
)

// Response is the tagged classification result. Utterance always carries the
// collaborator's echo of what it understood, for conversation display.
type Response struct {
	Kind      Kind
	Content   string
	Utterance string
}

// Request carries everything the collaborator needs to classify one
// utterance. FocusedBlockText is empty for whole-document scope. While a
// clarification exchange is in progress, Conversation holds the accumulated
// turns.
type Request struct {
	Utterance        string
	FocusedBlockText string
	DocumentText     string
	Conversation     []conversation.Turn
}

// wirePayload is the JSON shape the collaborator is prompted to produce.
type wirePayload struct {
	Action    string `json:"action"`
	Content   string `json:"content"`
	Utterance string `json:"utterance"`
}

// ParseResponse decodes a raw collaborator payload. Malformed payloads are
// non-fatal: the raw text is downgraded to a literal append so the
// interaction still makes forward progress.
func ParseResponse(raw, fallbackUtterance string) Response {
	trimmed := strings.TrimSpace(raw)
	trimmed = stripCodeFence(trimmed)

	var p wirePayload
	if err := json.Unmarshal([]byte(trimmed), &p); err == nil {
		if kind, ok := parseKind(p.Action); ok {
			utterance := p.Utterance
			if utterance == "" {
				utterance = fallbackUtterance
			}
			return Response{Kind: kind, Content: p.Content, Utterance: utterance}
		}
	}

	return Response{Kind: KindAppend, Content: raw, Utterance: fallbackUtterance}
}

func parseKind(action string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(action))) {
	case KindAppend:
		return KindAppend, true
	case KindReview:
		return KindReview, true
	case KindReviewImmediate:
		return KindReviewImmediate, true
	case KindInquire:
		return KindInquire, true
	}
	return "", false
}

// stripCodeFence removes a surrounding markdown code fence if present.
// Models frequently wrap JSON output in ```json fences despite instructions.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
