package ai

import "context"

// Collaborator classifies one utterance into an editing action. The core
// treats it as an opaque external service: failures are surfaced to the
// caller untouched and retry policy lives behind this boundary, never in
// the routing core.
type Collaborator interface {
	Classify(ctx context.Context, req Request) (Response, error)
}

// ScriptedCollaborator replays a fixed sequence of responses. Used in tests
// and for offline operation.
type ScriptedCollaborator struct {
	responses []Response
	err       error
	next      int

	// Requests records every request received, for assertions.
	Requests []Request
}

// NewScriptedCollaborator creates a collaborator that returns the given
// responses in order, then repeats the last one.
func NewScriptedCollaborator(responses ...Response) *ScriptedCollaborator {
	return &ScriptedCollaborator{responses: responses}
}

// NewFailingCollaborator creates a collaborator whose Classify always
// returns err.
func NewFailingCollaborator(err error) *ScriptedCollaborator {
	return &ScriptedCollaborator{err: err}
}

// Classify implements Collaborator.
func (s *ScriptedCollaborator) Classify(_ context.Context, req Request) (Response, error) {
	s.Requests = append(s.Requests, req)
	if s.err != nil {
		return Response{}, s.err
	}
	if len(s.responses) == 0 {
		return Response{Kind: KindAppend, Utterance: req.Utterance}, nil
	}
	resp := s.responses[s.next]
	if s.next < len(s.responses)-1 {
		s.next++
	}
	if resp.Utterance == "" {
		resp.Utterance = req.Utterance
	}
	return resp, nil
}
