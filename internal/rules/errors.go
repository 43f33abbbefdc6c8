package rules

import "errors"

// Sentinel errors for rule collection operations.
var (
	// ErrRuleNotFound indicates a rule ID that does not exist in the collection.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrTokenNotFound indicates a token ID that does not exist in its rule.
	ErrTokenNotFound = errors.New("token not found")

	// ErrDuplicateRuleID indicates two rules in a collection share an ID.
	ErrDuplicateRuleID = errors.New("duplicate rule id")

	// ErrDuplicateTokenID indicates two tokens in a rule share an ID.
	ErrDuplicateTokenID = errors.New("duplicate token id")

	// ErrNoRule indicates a create/copy operation with nothing to operate on.
	ErrNoRule = errors.New("no rule provided")
)
