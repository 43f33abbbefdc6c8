package rules

// TokenType is the closed set of token kinds that make up a rule.
type TokenType string

const (
	TokenVariable TokenType = "variable"
	TokenOperator TokenType = "operator"
	TokenValue    TokenType = "value"
	TokenKeyword  TokenType = "keyword"
)

// Category groups rules by what they govern.
type Category string

const (
	CategoryFinancial      Category = "financial"
	CategoryTrafficQuality Category = "traffic-quality"
)

// Token is the atomic unit of a rule. Its ID is immutable once created;
// Value and Editable may be mutated in place. Order within a rule is
// semantically significant.
type Token struct {
	ID       string    `json:"id"`
	Type     TokenType `json:"type"`
	Value    string    `json:"value"`
	Editable bool      `json:"editable"`
}

// Rule is a named, ordered token sequence encoding an
// IF-conditions-THEN-assignments statement.
type Rule struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category,omitempty"`
	Source   string   `json:"source,omitempty"` // where the extractor found it, e.g. "Exhibit D"
	Tokens   []Token  `json:"tokens"`
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	out := r
	out.Tokens = make([]Token, len(r.Tokens))
	copy(out.Tokens, r.Tokens)
	return out
}

// FindToken returns a pointer to the token with the given ID, or nil.
func (r *Rule) FindToken(tokenID string) *Token {
	for i := range r.Tokens {
		if r.Tokens[i].ID == tokenID {
			return &r.Tokens[i]
		}
	}
	return nil
}

// CloneCollection deep-copies an ordered rule collection.
func CloneCollection(rs []Rule) []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// FindRule returns the index of the rule with the given ID, or -1.
func FindRule(rs []Rule, ruleID string) int {
	for i := range rs {
		if rs[i].ID == ruleID {
			return i
		}
	}
	return -1
}
