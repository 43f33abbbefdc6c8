package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/llm"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
)

const extractionSystemPrompt = `You are a contract analysis assistant for a partner revenue administration team.
You are given the text of a content licensing contract. Extract the revenue and
traffic-quality rules it defines.

Focus on:
- Exhibit D and any revenue share tables
- Revenue terms: cost of sales (COS), cost of content (COC), partner revenue shares
- Conditions that scope a rule to a content provider or media type

Respond with JSON only, in exactly this shape:
{
  "docType": "contract",
  "summary": "<markdown summary of the contract's commercial terms>",
  "searchResults": {
    "exhibitDFound": <bool>,
    "tablesFound": <int>,
    "revenueTermsFound": ["<term>", ...]
  },
  "rules": [
    {
      "id": "<kebab-case-id>",
      "name": "<short rule name>",
      "category": "financial" | "traffic-quality",
      "source": "<section of the contract the rule came from>",
      "tokens": [
        {"id": "<id>", "type": "variable"|"operator"|"value"|"keyword", "value": "<text>", "editable": <bool>}
      ]
    }
  ]
}

Token streams read left to right as if/then statements, e.g.:
if content_type == "AC Milan" and media_type == "Video" then cos = 10 and coc = 50
Keywords (if, and, then) are not editable. Values that carry numbers or names are editable.
If the contract defines no explicit rules, return an empty rules array and say so in the summary.`

// Service turns raw contract text into a validated rule extraction.
type Service struct {
	provider llm.Provider
	model    string
	timeout  time.Duration
}

func NewService(provider llm.Provider, model string) *Service {
	return &Service{
		provider: provider,
		model:    model,
		timeout:  120 * time.Second,
	}
}

// ProcessContract sends the contract text to the model and validates the
// response twice: once against the JSON schema, once with the rule
// collection validator. Model output is untrusted input.
func (s *Service) ProcessContract(ctx context.Context, text string) (*Result, error) {
	if text == "" {
		return nil, fmt.Errorf("contract text is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractionSystemPrompt},
			{Role: llm.RoleUser, Content: text},
		},
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("completing extraction: %w", err)
	}

	raw := []byte(resp.Content)
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding extraction result: %w", err)
	}
	if err := rules.ValidateCollection(result.Rules); err != nil {
		return nil, fmt.Errorf("extracted rules invalid: %w", err)
	}
	return &result, nil
}
