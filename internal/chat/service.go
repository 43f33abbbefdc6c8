package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/llm"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/modify"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
)

// fallbackResponse is shown when the model call or its output parsing
// fails. Distinct from a successful turn that proposes no modifications.
const fallbackResponse = "I apologize, but I'm having trouble processing your request right now. Please try again or use the visual editor."

// Result is the outcome of one chat turn. Failed distinguishes "the AI
// call failed" from "the AI understood but proposed nothing".
type Result struct {
	Response      string                `json:"response"`
	Modifications []modify.Modification `json:"modifications"`
	Failed        bool                  `json:"failed,omitempty"`
}

// Service turns natural-language instructions into structured rule
// modifications via an LLM provider.
type Service struct {
	provider    llm.Provider
	model       string
	temperature float64
	timeout     time.Duration
}

// NewService creates a chat service. A zero timeout defaults to 60s.
func NewService(provider llm.Provider, model string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{provider: provider, model: model, temperature: 0.7, timeout: timeout}
}

// modelReply is the wire contract the model must answer with.
type modelReply struct {
	Response      string                `json:"response"`
	Modifications []modify.Modification `json:"modifications"`
}

// ProcessMessage sends one user message with the current rule collection
// as context and parses the structured reply. The rule collection is not
// modified; callers decide whether to apply the returned modifications.
// Provider and parse failures yield a failed Result, never an error: the
// chat surface must always have something to render.
func (s *Service) ProcessMessage(ctx context.Context, collection []rules.Rule, contractContext, userMessage string) *Result {
	system, err := buildSystemPrompt(collection, contractContext)
	if err != nil {
		log.Printf("chat: building prompt: %v", err)
		return &Result{Response: fallbackResponse, Modifications: []modify.Modification{}, Failed: true}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		JSONMode:    true,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: userMessage},
		},
	})
	if err != nil {
		log.Printf("chat: completion failed: %v", err)
		return &Result{Response: fallbackResponse, Modifications: []modify.Modification{}, Failed: true}
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(resp.Content), &reply); err != nil {
		log.Printf("chat: malformed model reply: %v", err)
		return &Result{Response: fallbackResponse, Modifications: []modify.Modification{}, Failed: true}
	}

	if reply.Modifications == nil {
		reply.Modifications = []modify.Modification{}
	}
	return &Result{Response: reply.Response, Modifications: reply.Modifications}
}
