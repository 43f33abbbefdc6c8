package modify

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
)

/*
 * Modification applier.
 *
 * Applies an ordered batch of Modifications to a rule collection. Apply is
 * pure with respect to its input: it works on a deep copy and returns the
 * new collection alongside per-modification failures. Each modification is
 * independent; a failure never rolls back earlier successes and never
 * aborts later ones.
 *
 * Policy invariants enforced here, not in any UI:
 *   - tokens with editable=false are never altered; such updates are
 *     silent per-token no-ops
 *   - create rejects duplicate rule IDs without touching the collection
 *   - delete is idempotent
 *   - copy of a missing rule is an error (nothing to copy)
 */

// Apply runs the batch against a deep copy of the collection and returns
// the result plus any per-modification errors, in batch order.
func Apply(collection []rules.Rule, mods []Modification) ([]rules.Rule, []ApplyError) {
	out := rules.CloneCollection(collection)
	if out == nil {
		out = []rules.Rule{}
	}

	var errs []ApplyError
	for i, mod := range mods {
		var err error
		switch mod.Action {
		case ActionUpdate:
			applyUpdate(out, mod)
		case ActionCreate:
			out, err = applyCreate(out, mod)
		case ActionDelete:
			out = applyDelete(out, mod.RuleID)
		case ActionCopy:
			out, err = applyCopy(out, mod.RuleID)
		default:
			err = fmt.Errorf("unknown action %q", mod.Action)
		}
		if err != nil {
			errs = append(errs, ApplyError{Index: i, Action: mod.Action, RuleID: mod.RuleID, Message: err.Error(), Err: err})
		}
	}
	return out, errs
}

// applyUpdate sets token values in place. Missing rules and tokens, and
// tokens marked non-editable, are skipped: the chat model works from a
// snapshot of the rules and stale or disallowed targets are expected.
func applyUpdate(collection []rules.Rule, mod Modification) {
	for _, tu := range mod.TokenUpdates {
		idx := rules.FindRule(collection, tu.RuleID)
		if idx < 0 {
			log.Printf("modify: update skipped, rule %q not found", tu.RuleID)
			continue
		}
		tok := collection[idx].FindToken(tu.TokenID)
		if tok == nil {
			log.Printf("modify: update skipped, token %q not found in rule %q", tu.TokenID, tu.RuleID)
			continue
		}
		if !tok.Editable {
			log.Printf("modify: update skipped, token %q in rule %q is not editable", tu.TokenID, tu.RuleID)
			continue
		}
		tok.Value = tu.NewValue
	}
}

func applyCreate(collection []rules.Rule, mod Modification) ([]rules.Rule, error) {
	if mod.NewRule == nil {
		return collection, fmt.Errorf("create: %w", rules.ErrNoRule)
	}
	if mod.NewRule.ID == "" {
		return collection, fmt.Errorf("create: empty rule id")
	}
	if rules.FindRule(collection, mod.NewRule.ID) >= 0 {
		return collection, fmt.Errorf("create rule %q: %w", mod.NewRule.ID, rules.ErrDuplicateRuleID)
	}
	return append(collection, mod.NewRule.Clone()), nil
}

func applyDelete(collection []rules.Rule, ruleID string) []rules.Rule {
	idx := rules.FindRule(collection, ruleID)
	if idx < 0 {
		return collection
	}
	return append(collection[:idx], collection[idx+1:]...)
}

func applyCopy(collection []rules.Rule, ruleID string) ([]rules.Rule, error) {
	idx := rules.FindRule(collection, ruleID)
	if idx < 0 {
		return collection, fmt.Errorf("copy rule %q: %w", ruleID, rules.ErrRuleNotFound)
	}
	dup := collection[idx].Clone()
	dup.ID = ruleID + "-copy-" + uuid.New().String()[:8]
	dup.Name = dup.Name + " (Copy)"
	return append(collection, dup), nil
}
