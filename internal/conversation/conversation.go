// Package conversation keeps the multi-turn clarification log used when the
// AI collaborator cannot act on an utterance yet. The log is ephemeral
// interaction state, not document state: it is never part of undo history
// and is discarded wholesale on resolution or explicit clear.
package conversation

import "time"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the clarification log.
type Turn struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// Log is an append-only ordered turn log with a clarifying flag. While the
// flag is set, AI dispatches must include the accumulated turns so the
// collaborator can resolve the original ambiguous request.
type Log struct {
	turns      []Turn
	clarifying bool
	now        func() time.Time
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// NewLogWithClock creates a log with an injected clock, for tests.
func NewLogWithClock(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append adds a turn and marks the conversation as clarifying.
func (l *Log) Append(role Role, text string) {
	l.turns = append(l.turns, Turn{Role: role, Text: text, Timestamp: l.now()})
	l.clarifying = true
}

// Turns returns a copy of the turn log in order.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns.
func (l *Log) Len() int {
	return len(l.turns)
}

// Clarifying reports whether a clarification exchange is in progress.
func (l *Log) Clarifying() bool {
	return l.clarifying
}

// Clear resets the clarifying flag and discards all turns together.
func (l *Log) Clear() {
	l.turns = nil
	l.clarifying = false
}
