package chat

import (
	"encoding/json"
	"fmt"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
)

// systemPrompt instructs the model to answer with a response string plus a
// list of structured modifications against the serialized rule context.
const systemPromptTemplate = `You are an AI assistant that helps users modify contract rules using natural language.

CURRENT RULES CONTEXT:
%s

CONTRACT CONTEXT:
%s

YOUR TASK:
1. Understand what the user wants to do with the rules
2. Provide a helpful response explaining what you'll do
3. Return specific modifications in JSON format

RULE MODIFICATION PATTERNS:

1. VALUE CHANGES:
   - "Change revenue share to 30%%" -> Update yahoo_rev or onefootball_rev token value
   - "Make cost of sales 20%%" -> Update cost_of_sales token value

2. RULE CREATION:
   - "Add a new rule for video content" -> Create new rule with video-specific tokens

3. RULE DELETION:
   - "Remove the traffic quality rule" -> Delete specific rule

4. RULE COPYING:
   - "Copy the revenue share rule" -> Duplicate existing rule with new ID

RESPONSE FORMAT:
{
  "response": "I'll help you [explain what you're doing].",
  "modifications": [
    {
      "action": "update|create|delete|copy",
      "ruleId": "rule_id_if_applicable",
      "newRule": { "id": "...", "name": "...", "category": "financial", "tokens": [...] },
      "tokenUpdates": [
        {"ruleId": "rule_id", "tokenId": "token_id", "newValue": "new_value"}
      ]
    }
  ]
}

IMPORTANT:
- Only make modifications that make sense
- If the request is unclear, ask for clarification and return no modifications
- Use the exact rule and token IDs from the current context
- For new rules, generate unique IDs
- Never modify tokens marked "editable": false
- Keep responses concise but informative`

// buildSystemPrompt serializes the current rule collection into the system
// prompt so the model edits against the real IDs.
func buildSystemPrompt(collection []rules.Rule, contractContext string) (string, error) {
	ctx, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing rules context: %w", err)
	}
	if contractContext == "" {
		contractContext = "(none provided)"
	}
	return fmt.Sprintf(systemPromptTemplate, ctx, contractContext), nil
}
