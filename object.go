package jsonrule

import (
	"context"

	"github.com/mkondo/jsonrule/i18n"
)

// RuleSet is an ordered mapping from property key to Rule: one object's worth
// of field rules. Keys are unique; Set keeps the position of the first write
// for a key and replaces its rule.
type RuleSet struct {
	keys  []string
	rules map[string]Rule
}

// NewRuleSet returns an empty RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]Rule)}
}

// Set stores r under key. A later write for an existing key replaces the rule
// in place without changing its declaration position.
func (s *RuleSet) Set(key string, r Rule) {
	if _, ok := s.rules[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.rules[key] = r
}

// Get returns the rule stored under key.
func (s *RuleSet) Get(key string) (Rule, bool) {
	r, ok := s.rules[key]
	return r, ok
}

// Has reports whether key has a rule.
func (s *RuleSet) Has(key string) bool {
	_, ok := s.rules[key]
	return ok
}

// Len returns the number of entries.
func (s *RuleSet) Len() int { return len(s.keys) }

// Keys returns the keys in declaration order.
func (s *RuleSet) Keys() []string { return append([]string(nil), s.keys...) }

// First returns the first declared entry.
func (s *RuleSet) First() (string, Rule, bool) {
	if len(s.keys) == 0 {
		return "", nil, false
	}
	k := s.keys[0]
	return k, s.rules[k], true
}

// Merge writes every entry of other into s in other's declaration order.
// Entries sharing a key overwrite the existing rule: the merge is
// last-writer-wins, which is how conditional rules take precedence over the
// leaf rules they replace.
func (s *RuleSet) Merge(other *RuleSet) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Set(k, other.rules[k])
	}
}

// Object wraps a RuleSet as an object-level rule. The value must be a
// map[string]any; each field rule runs against its property value, while
// conditional (When) entries receive the whole object so they can read the
// sibling they depend on. Properties named in required must be present.
func Object(set *RuleSet, required ...string) Rule {
	return &objectRule{set: set, required: required}
}

type objectRule struct {
	set      *RuleSet
	required []string
}

func (o *objectRule) Validate(ctx context.Context, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected object"}}
	}
	var iss Issues
	for _, k := range o.required {
		if _, ok := m[k]; !ok {
			iss = AppendIssues(iss, Issue{Path: "/" + k, Code: CodeRequired, Message: i18n.T(CodeRequired, nil), Hint: "required property missing"})
			if IsFailFast(ctx) {
				return iss
			}
		}
	}
	if o.set != nil {
		for _, k := range o.set.keys {
			r := o.set.rules[k]
			if r == nil {
				continue
			}
			if w, ok := r.(*whenRule); ok {
				// Sibling-dependent rule: evaluated against the whole object.
				// Its payload is object-shaped, so issue paths land on the
				// dependent properties without rebasing.
				if err := w.Validate(ctx, m); err != nil {
					iss = AppendIssues(iss, rebaseFlat(err)...)
					if IsFailFast(ctx) {
						return iss
					}
				}
				continue
			}
			val, exists := m[k]
			if !exists {
				continue
			}
			if err := r.Validate(ctx, val); err != nil {
				iss = AppendIssues(iss, rebase("/"+k, err)...)
				if IsFailFast(ctx) {
					return iss
				}
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// rebaseFlat normalizes an error into Issues without moving paths.
func rebaseFlat(err error) Issues {
	if err == nil {
		return nil
	}
	if child, ok := AsIssues(err); ok {
		return child
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}
