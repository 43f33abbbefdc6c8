package rules

import "fmt"

// ValidateCollection checks the structural invariants of an incoming rule
// collection: rule IDs unique across the collection, token IDs unique
// within their owning rule, no empty IDs. Extraction output and any other
// externally supplied rule set must pass here before use.
func ValidateCollection(rs []Rule) error {
	seen := make(map[string]bool, len(rs))
	for _, r := range rs {
		if r.ID == "" {
			return fmt.Errorf("rule %q: empty rule id", r.Name)
		}
		if seen[r.ID] {
			return fmt.Errorf("rule %q: %w", r.ID, ErrDuplicateRuleID)
		}
		seen[r.ID] = true

		tokenIDs := make(map[string]bool, len(r.Tokens))
		for _, tok := range r.Tokens {
			if tok.ID == "" {
				return fmt.Errorf("rule %q: empty token id", r.ID)
			}
			if tokenIDs[tok.ID] {
				return fmt.Errorf("rule %q token %q: %w", r.ID, tok.ID, ErrDuplicateTokenID)
			}
			tokenIDs[tok.ID] = true
			if err := validateTokenType(tok.Type); err != nil {
				return fmt.Errorf("rule %q token %q: %w", r.ID, tok.ID, err)
			}
		}
	}
	return nil
}

func validateTokenType(t TokenType) error {
	switch t {
	case TokenVariable, TokenOperator, TokenValue, TokenKeyword:
		return nil
	}
	return fmt.Errorf("unknown token type %q", t)
}
