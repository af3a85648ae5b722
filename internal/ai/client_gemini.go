package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"scribe/internal/conversation"
)

const classifySystemPrompt = `You are the editing brain of a voice-driven note editor.
The user dictates or types an instruction about a structured text document.
Classify the instruction into exactly one action and answer with a single JSON object:

{"action": "...", "content": "...", "utterance": "..."}

Actions:
- "append": the user is adding new content. content = the text to add.
- "review": the user wants existing text changed. content = the full rewritten text of the target.
- "review_immediate": like review, but only for a focused block and only when the change is a trivial correction.
- "inquire": the instruction is ambiguous and you need more information. content = one short clarifying question.

"utterance" must always echo, in plain words, what you understood the user to want.
Answer with the JSON object only, no prose, no code fences.`

// GeminiConfig configures the Gemini-backed collaborator.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiCollaborator implements Collaborator against Google's Gemini API.
type GeminiCollaborator struct {
	client *genai.Client
	model  string
}

// NewGeminiCollaborator creates a Gemini-backed collaborator.
func NewGeminiCollaborator(ctx context.Context, cfg GeminiConfig) (*GeminiCollaborator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiCollaborator{client: client, model: model}, nil
}

// Classify implements Collaborator. Malformed model output is downgraded to
// a literal append by ParseResponse; only transport and API errors are
// returned as failures.
func (g *GeminiCollaborator) Classify(ctx context.Context, req Request) (Response, error) {
	prompt := buildPrompt(req)

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(classifySystemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return Response{}, fmt.Errorf("gemini classify failed: %w", err)
	}

	raw := result.Text()
	if strings.TrimSpace(raw) == "" {
		return Response{}, fmt.Errorf("gemini returned an empty response")
	}
	return ParseResponse(raw, req.Utterance), nil
}

// buildPrompt assembles the classification prompt: document context, the
// focused block if any, the accumulated clarification turns, and finally the
// new utterance.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Current document:\n")
	b.WriteString(req.DocumentText)
	b.WriteString("\n\n")

	if req.FocusedBlockText != "" {
		b.WriteString("The user is editing this block; your content must target it:\n")
		b.WriteString(req.FocusedBlockText)
		b.WriteString("\n\n")
	}

	if len(req.Conversation) > 0 {
		b.WriteString("Clarification exchange so far:\n")
		for _, turn := range req.Conversation {
			role := "user"
			if turn.Role == conversation.RoleAssistant {
				role = "assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, turn.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("Instruction: ")
	b.WriteString(req.Utterance)
	return b.String()
}
