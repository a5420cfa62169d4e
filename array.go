package jsonrule

import (
	"context"
	"strconv"

	"github.com/mkondo/jsonrule/i18n"
)

// Array wraps elem as an array-element rule: the value must be a []any and
// every element must satisfy elem. Array-level constraints such as minItems
// live in a scalar rule composed alongside via And.
func Array(elem Rule) Rule {
	return &arrayRule{elem: elem}
}

type arrayRule struct {
	elem Rule
}

func (a *arrayRule) Validate(ctx context.Context, v any) error {
	src, ok := v.([]any)
	if !ok {
		return Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected array"}}
	}
	if a.elem == nil {
		return nil
	}
	var iss Issues
	for i := range src {
		if err := a.elem.Validate(ctx, src[i]); err != nil {
			iss = AppendIssues(iss, rebase("/"+strconv.Itoa(i), err)...)
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
