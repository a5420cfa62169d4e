package compile

import (
	"context"

	jsonrule "github.com/mkondo/jsonrule"
	"github.com/mkondo/jsonrule/schema"
)

// hasConditional reports whether s declares an if schema whose properties
// mention key.
func (c *compiler) hasConditional(s *schema.Object, key string) bool {
	ifo, ok := s.If.(*schema.Object)
	return ok && ifo.Properties.Has(key)
}

// resolveCondition compiles s's if/then/else into a rule set keyed by the
// first declared condition property. Malformed shapes drop the condition with
// a warning; the compile itself never fails for them.
func (c *compiler) resolveCondition(s *schema.Object) (*jsonrule.RuleSet, error) {
	ifo, ok := s.If.(*schema.Object)
	if !ok {
		if s.If != nil {
			c.diag.warnf("if is not an object schema; condition dropped")
		}
		return nil, nil
	}
	cond, ok := ifo.Properties.First()
	if !ok {
		c.diag.warnf("if declares no properties; condition dropped")
		return nil, nil
	}
	// Only the first declared condition property is honored; additional
	// if properties are ignored.
	condNode, ok := cond.Schema.(*schema.Object)
	if !ok {
		c.diag.warnf("if condition %q is a boolean schema; condition dropped", cond.Key)
		return nil, nil
	}

	out := jsonrule.NewRuleSet()
	if then, ok := s.Then.(*schema.Object); ok {
		pred, err := c.evaluate(cond.Key, condNode, then, true)
		if err != nil {
			return nil, err
		}
		bset, err := c.resolveBranch(then, cond.Key, pred)
		if err != nil {
			return nil, err
		}
		out.Merge(bset)
	} else if s.Then != nil {
		c.diag.warnf("then is not an object schema; branch dropped")
	}
	if els, ok := s.Else.(*schema.Object); ok {
		pred, err := c.evaluate(cond.Key, condNode, els, false)
		if err != nil {
			return nil, err
		}
		bset, err := c.resolveBranch(els, cond.Key, pred)
		if err != nil {
			return nil, err
		}
		out.Merge(bset)
	} else if s.Else != nil {
		c.diag.warnf("else is not an object schema; branch dropped")
	}
	if out.Len() == 0 {
		return nil, nil
	}
	return out, nil
}

// resolveBranch compiles one then/else branch into a single conditional entry
// under condKey: when the condition value satisfies pred, the branch's first
// declared property rule is additionally required; otherwise no constraint.
func (c *compiler) resolveBranch(branch *schema.Object, condKey string, pred func(any) bool) (*jsonrule.RuleSet, error) {
	if !branch.HasProperties() {
		c.diag.warnf("conditional branch declares no properties; branch dropped")
		return nil, nil
	}
	set, err := c.compileProperties(branch.Properties, branch)
	if err != nil {
		return nil, err
	}
	payloadKey, payload, ok := set.First()
	if !ok {
		c.diag.warnf("conditional branch compiled to no rules; branch dropped")
		return nil, nil
	}
	pay := jsonrule.NewRuleSet()
	pay.Set(payloadKey, payload)
	then := jsonrule.Object(pay)
	if branch.If != nil && !nestedConditionMerged(branch, payloadKey, payload) {
		// A branch may carry its own nested conditional. When its condition
		// key is not one of the branch's own leaf properties, compileProperties
		// never saw it, so the condition's object rule is AND-composed at the
		// same object level and keeps addressing siblings by name.
		nested, err := c.resolveCondition(branch)
		if err != nil {
			return nil, err
		}
		if nested != nil && nested.Len() > 0 {
			then = jsonrule.And(then, jsonrule.Object(nested))
		}
	}
	out := jsonrule.NewRuleSet()
	out.Set(condKey, jsonrule.When(condKey, pred, then))
	return out, nil
}

// nestedConditionMerged reports whether a branch's own condition already
// compiled into its payload entry. That happens when the nested condition key
// is the branch's first leaf property: compileProperties merges the condition
// over that slot, so composing it again would report each violation twice.
func nestedConditionMerged(branch *schema.Object, payloadKey string, payload jsonrule.Rule) bool {
	ifo, ok := branch.If.(*schema.Object)
	if !ok {
		return false
	}
	cond, ok := ifo.Properties.First()
	return ok && cond.Key == payloadKey && jsonrule.IsConditional(payload)
}

// evaluate compiles (key, node) into a rule using branch for context and
// returns a predicate that tests a candidate value synchronously. want
// selects the then (true) or else (false) direction. The predicate yields a
// bare boolean and never surfaces issues.
func (c *compiler) evaluate(key string, node, branch *schema.Object, want bool) (func(any) bool, error) {
	r, err := c.buildLeaf(key, node, branch)
	if err != nil {
		return nil, err
	}
	return func(v any) bool {
		return jsonrule.Test(context.Background(), r, v) == want
	}, nil
}
