package jsonrule

import "context"

// Rule is an opaque, composable unit of validation logic for one value
// position. Implementations must be immutable after construction so that a
// compiled rule tree can be shared across goroutines.
type Rule interface {
	// Validate checks v and returns Issues describing every violation, or nil
	// when v conforms.
	Validate(ctx context.Context, v any) error
}

// Test reports whether v satisfies r. It is the boolean decision procedure
// used by conditional predicates and never surfaces field-level issues;
// callers that need details should use Validate.
func Test(ctx context.Context, r Rule, v any) bool {
	if r == nil {
		return true
	}
	return r.Validate(ctx, v) == nil
}

// And combines rules so that all of them must pass. Nil entries are skipped;
// a single surviving rule is returned as-is.
func And(rules ...Rule) Rule {
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r != nil {
			kept = append(kept, r)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return andRule(kept)
}

type andRule []Rule

func (a andRule) Validate(ctx context.Context, v any) error {
	var iss Issues
	for _, r := range a {
		if err := r.Validate(ctx, v); err != nil {
			if child, ok := AsIssues(err); ok {
				iss = AppendIssues(iss, child...)
			} else {
				iss = AppendIssues(iss, Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err})
			}
			if IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// When builds a conditional rule: then is applied to the enclosing object
// value only while pred holds for the sibling named by key; otherwise the
// rule imposes no constraint. Inside an object rule the whole object is
// passed, so then is normally an Object rule addressing the dependent
// properties.
func When(key string, pred func(any) bool, then Rule) Rule {
	return &whenRule{key: key, pred: pred, then: then}
}

// IsConditional reports whether r was built by When. Compilers use it to tell
// a sibling-dependent entry apart from a plain field rule in a RuleSet.
func IsConditional(r Rule) bool {
	_, ok := r.(*whenRule)
	return ok
}

type whenRule struct {
	key  string
	pred func(any) bool
	then Rule
}

func (w *whenRule) Validate(ctx context.Context, v any) error {
	if w.pred == nil || w.then == nil {
		return nil
	}
	m, _ := v.(map[string]any)
	if !w.pred(m[w.key]) {
		return nil
	}
	return w.then.Validate(ctx, v)
}

// ---- Validation-time context options ----

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that marks fail-fast validation
// behavior; composite rules stop at the first issue.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current validation should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
