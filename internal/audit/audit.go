package audit

import "time"

// ActorType identifies who performed an action.
type ActorType string

const (
	ActorUser      ActorType = "user"
	ActorSystem    ActorType = "system"
	ActorAssistant ActorType = "assistant"
)

// Action describes what was done to a contract's rules.
type Action string

const (
	ActionRulesExtracted      Action = "rules_extracted"
	ActionRulesSaved          Action = "rules_saved"
	ActionChatMessage         Action = "chat_message"
	ActionModificationApplied Action = "modification_applied"
	ActionModificationFailed  Action = "modification_failed"
	ActionCalculationRun      Action = "calculation_run"
)

// Entry is a single audit trail record.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	ActorType  ActorType `json:"actor_type"`
	ActorID    string    `json:"actor_id,omitempty"`
	Action     Action    `json:"action"`
	ContractID string    `json:"contract_id"`
	RuleID     string    `json:"rule_id,omitempty"`
	Summary    string    `json:"summary"`
	Detail     string    `json:"detail,omitempty"`
	Failed     bool      `json:"failed,omitempty"`
}

// ListFilter controls which entries to return.
type ListFilter struct {
	ContractID string
	Action     Action
	Limit      int
}
