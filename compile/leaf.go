package compile

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	jsonrule "github.com/mkondo/jsonrule"
	"github.com/mkondo/jsonrule/i18n"
	"github.com/mkondo/jsonrule/schema"
)

// DefaultLeafBuilder returns the built-in leaf rule builder. It honors type,
// const, enum, pattern, format, numeric bounds, multipleOf, string length, and
// item count constraints. Constraints apply only to values of the matching
// type, draft-07 style; mismatched types are reported by the type check alone.
func DefaultLeafBuilder() LeafBuilder { return defaultLeaf{} }

type defaultLeaf struct{}

func (defaultLeaf) BuildLeaf(key string, leaf, enclosing *schema.Object) (jsonrule.Rule, error) {
	r := &leafRule{
		typ:        leaf.Type,
		format:     leaf.Format,
		enum:       leaf.Enum,
		constVal:   leaf.Const,
		hasConst:   leaf.HasConst,
		min:        leaf.Minimum,
		max:        leaf.Maximum,
		exclMin:    leaf.ExclusiveMinimum,
		exclMax:    leaf.ExclusiveMaximum,
		multipleOf: leaf.MultipleOf,
		minLen:     leaf.MinLength,
		maxLen:     leaf.MaxLength,
		minItems:   leaf.MinItems,
		maxItems:   leaf.MaxItems,
	}
	if leaf.Pattern != "" {
		re, err := regexp.Compile(leaf.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", leaf.Pattern, err)
		}
		r.pattern = re
	}
	return r, nil
}

type leafRule struct {
	typ        string
	format     string
	pattern    *regexp.Regexp
	enum       []any
	constVal   any
	hasConst   bool
	min        *float64
	max        *float64
	exclMin    *float64
	exclMax    *float64
	multipleOf *float64
	minLen     *int
	maxLen     *int
	minItems   *int
	maxItems   *int
}

func (r *leafRule) Validate(ctx context.Context, v any) error {
	if r.typ != "" && !typeMatches(r.typ, v) {
		return jsonrule.Issues{{
			Path: "/", Code: jsonrule.CodeInvalidType,
			Message: i18n.T(jsonrule.CodeInvalidType, nil),
			Hint:    "expected " + r.typ,
		}}
	}
	var iss jsonrule.Issues
	add := func(code, hint string, params map[string]any) bool {
		iss = jsonrule.AppendIssues(iss, jsonrule.Issue{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: hint, Params: params})
		return jsonrule.IsFailFast(ctx)
	}

	if r.hasConst && !valueEqual(v, r.constVal) {
		if add(jsonrule.CodeInvalidEnum, "const mismatch", map[string]any{"want": r.constVal}) {
			return iss
		}
	}
	if len(r.enum) > 0 && !enumHas(r.enum, v) {
		if add(jsonrule.CodeInvalidEnum, "not in enum", map[string]any{"enum": r.enum}) {
			return iss
		}
	}

	if s, ok := v.(string); ok {
		n := utf8.RuneCountInString(s)
		if r.minLen != nil && n < *r.minLen {
			if add(jsonrule.CodeTooShort, "minLength", map[string]any{"min": *r.minLen, "got": n}) {
				return iss
			}
		}
		if r.maxLen != nil && n > *r.maxLen {
			if add(jsonrule.CodeTooLong, "maxLength", map[string]any{"max": *r.maxLen, "got": n}) {
				return iss
			}
		}
		if r.pattern != nil && !r.pattern.MatchString(s) {
			if add(jsonrule.CodePattern, r.pattern.String(), nil) {
				return iss
			}
		}
		if r.format != "" && !formatOK(r.format, s) {
			if add(jsonrule.CodeInvalidFormat, r.format, nil) {
				return iss
			}
		}
	}

	if f, ok := toFloat(v); ok {
		if r.min != nil && f < *r.min {
			if add(jsonrule.CodeTooSmall, "minimum", map[string]any{"min": *r.min, "got": f}) {
				return iss
			}
		}
		if r.exclMin != nil && f <= *r.exclMin {
			if add(jsonrule.CodeTooSmall, "exclusiveMinimum", map[string]any{"min": *r.exclMin, "got": f}) {
				return iss
			}
		}
		if r.max != nil && f > *r.max {
			if add(jsonrule.CodeTooBig, "maximum", map[string]any{"max": *r.max, "got": f}) {
				return iss
			}
		}
		if r.exclMax != nil && f >= *r.exclMax {
			if add(jsonrule.CodeTooBig, "exclusiveMaximum", map[string]any{"max": *r.exclMax, "got": f}) {
				return iss
			}
		}
		if r.multipleOf != nil && *r.multipleOf != 0 && !isMultiple(f, *r.multipleOf) {
			if add(jsonrule.CodeNotMultiple, "multipleOf", map[string]any{"of": *r.multipleOf, "got": f}) {
				return iss
			}
		}
	}

	if arr, ok := v.([]any); ok {
		if r.minItems != nil && len(arr) < *r.minItems {
			if add(jsonrule.CodeTooShort, "minItems", map[string]any{"min": *r.minItems, "got": len(arr)}) {
				return iss
			}
		}
		if r.maxItems != nil && len(arr) > *r.maxItems {
			if add(jsonrule.CodeTooLong, "maxItems", map[string]any{"max": *r.maxItems, "got": len(arr)}) {
				return iss
			}
		}
	}

	if len(iss) > 0 {
		return iss
	}
	return nil
}

func typeMatches(typ string, v any) bool {
	switch typ {
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "null":
		return v == nil
	case "number":
		_, ok := toFloat(v)
		return ok
	case "integer":
		f, ok := toFloat(v)
		return ok && f == math.Trunc(f)
	default:
		// Unknown type names do not constrain.
		return true
	}
}

// toFloat widens any Go numeric representation a decoder may produce into
// float64 for comparison.
func toFloat(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// valueEqual compares with numeric widening so 1 == 1.0 across decoders.
func valueEqual(a, b any) bool {
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	if aok && bok {
		return fa == fb
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func enumHas(enum []any, v any) bool {
	for _, e := range enum {
		if valueEqual(v, e) {
			return true
		}
	}
	return false
}

func isMultiple(v, of float64) bool {
	d := v / of
	return math.Abs(d-math.Round(d)) < 1e-9
}

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	uuidRe  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// formatOK checks the formats the builder knows about. Unknown format names
// are annotations and always pass.
func formatOK(format, s string) bool {
	switch format {
	case "date-time":
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	case "date":
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	case "time":
		_, err := time.Parse("15:04:05Z07:00", s)
		if err != nil {
			_, err = time.Parse("15:04:05", s)
		}
		return err == nil
	case "email":
		return emailRe.MatchString(s)
	case "uuid":
		return uuidRe.MatchString(s)
	case "uri":
		u, err := url.Parse(s)
		return err == nil && u.Scheme != ""
	default:
		return true
	}
}
