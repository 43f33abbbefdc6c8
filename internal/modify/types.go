package modify

import "github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"

// Action is the kind of change a Modification describes.
type Action string

const (
	ActionUpdate Action = "update"
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
	ActionCopy   Action = "copy"
)

// TokenUpdate targets one token's value within one rule.
type TokenUpdate struct {
	RuleID   string `json:"ruleId"`
	TokenID  string `json:"tokenId"`
	NewValue string `json:"newValue"`
}

// Modification is one structured change to a rule collection, typically
// produced by the chat service interpreting a natural-language request.
type Modification struct {
	Action       Action        `json:"action"`
	RuleID       string        `json:"ruleId,omitempty"`
	NewRule      *rules.Rule   `json:"newRule,omitempty"`
	TokenUpdates []TokenUpdate `json:"tokenUpdates,omitempty"`
}

// ApplyError records a failed modification within a batch. The batch keeps
// going past failures so the caller can report exactly what happened.
// Message carries the failure reason for serialized surfaces (HTTP,
// WebSocket) where the wrapped error cannot travel.
type ApplyError struct {
	Index   int    `json:"index"`
	Action  Action `json:"action"`
	RuleID  string `json:"ruleId,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e ApplyError) Error() string {
	return "modification " + string(e.Action) + ": " + e.Err.Error()
}

func (e ApplyError) Unwrap() error { return e.Err }
