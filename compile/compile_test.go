package compile_test

import (
	"context"
	"errors"
	"testing"

	jsonrule "github.com/mkondo/jsonrule"
	"github.com/mkondo/jsonrule/compile"
	"github.com/mkondo/jsonrule/schema"
)

func mustCompile(t *testing.T, doc string) jsonrule.Rule {
	t.Helper()
	r, _, err := compile.Compile([]byte(doc), compile.Options{})
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if r == nil {
		t.Fatalf("expected a rule")
	}
	return r
}

func TestCompile_FlatObject(t *testing.T) {
	ctx := context.Background()
	r := mustCompile(t, `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"number"}}}`)

	if err := r.Validate(ctx, map[string]any{"a": "x", "b": 1}); err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
	err := r.Validate(ctx, map[string]any{"a": "x", "b": "y"})
	iss, _ := jsonrule.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/b" || iss[0].Code != jsonrule.CodeInvalidType {
		t.Fatalf("expected invalid_type at /b, got %v", err)
	}
}

func TestCompile_NestedObject(t *testing.T) {
	ctx := context.Background()
	r := mustCompile(t, `{"type":"object","properties":{"a":{"type":"object","properties":{"b":{"type":"string"}}}}}`)

	if err := r.Validate(ctx, map[string]any{"a": map[string]any{"b": "x"}}); err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
	err := r.Validate(ctx, map[string]any{"a": map[string]any{"b": 1}})
	iss, _ := jsonrule.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/a/b" {
		t.Fatalf("expected issue at /a/b, got %v", err)
	}
}

func TestCompile_ArrayOfObjects(t *testing.T) {
	ctx := context.Background()
	r := mustCompile(t, `{"type":"object","properties":{"list":{"type":"array","items":{"type":"object","properties":{"x":{"type":"number"}}},"minItems":1}}}`)

	if err := r.Validate(ctx, map[string]any{"list": []any{map[string]any{"x": 1}}}); err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
	// minItems enforced alongside element validity
	err := r.Validate(ctx, map[string]any{"list": []any{}})
	iss, _ := jsonrule.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/list" || iss[0].Code != jsonrule.CodeTooShort {
		t.Fatalf("expected too_short at /list, got %v", err)
	}
	err = r.Validate(ctx, map[string]any{"list": []any{map[string]any{"x": "a"}}})
	iss, _ = jsonrule.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/list/0/x" {
		t.Fatalf("expected issue at /list/0/x, got %v", err)
	}
}

func TestCompile_ArrayOfLeaves(t *testing.T) {
	ctx := context.Background()
	r := mustCompile(t, `{"type":"object","properties":{"tags":{"type":"array","items":{"type":"string"}}}}`)

	if err := r.Validate(ctx, map[string]any{"tags": []any{"a", "b"}}); err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
	err := r.Validate(ctx, map[string]any{"tags": []any{"a", 2}})
	iss, _ := jsonrule.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/tags/1" {
		t.Fatalf("expected issue at /tags/1, got %v", err)
	}
	err = r.Validate(ctx, map[string]any{"tags": "nope"})
	iss, _ = jsonrule.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != jsonrule.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", err)
	}
}

func TestCompile_BooleanPropertySchemasSkipped(t *testing.T) {
	ctx := context.Background()
	r := mustCompile(t, `{"type":"object","properties":{"free":true,"strict":{"type":"string"}}}`)

	if err := r.Validate(ctx, map[string]any{"free": 12345, "strict": "ok"}); err != nil {
		t.Fatalf("boolean property should carry no rule: %v", err)
	}
	if err := r.Validate(ctx, map[string]any{"strict": 1}); err == nil {
		t.Fatalf("expected reject for strict")
	}
}

func TestCompile_RequiredProperties(t *testing.T) {
	ctx := context.Background()
	r := mustCompile(t, `{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]}`)

	err := r.Validate(ctx, map[string]any{})
	iss, _ := jsonrule.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != jsonrule.CodeRequired || iss[0].Path != "/a" {
		t.Fatalf("expected required at /a, got %v", err)
	}
}

func TestCompile_NoTopLevelProperties(t *testing.T) {
	r, diag, err := compile.Compile([]byte(`{"type":"string"}`), compile.Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil rule, got %#v", r)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
}

func TestCompileSchema_BooleanRoot(t *testing.T) {
	r, _, err := compile.CompileSchema(schema.Bool(true), compile.Options{})
	if err != nil || r != nil {
		t.Fatalf("expected nil rule without error, got r=%v err=%v", r, err)
	}
	if _, _, err := compile.CompileSchema(nil, compile.Options{}); !errors.Is(err, compile.ErrNilSchema) {
		t.Fatalf("expected ErrNilSchema, got %v", err)
	}
}

func TestCompile_Idempotence(t *testing.T) {
	ctx := context.Background()
	doc := `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"number"}},"if":{"properties":{"a":{"const":"yes"}}},"then":{"properties":{"b":{"type":"string"}}}}`
	r1 := mustCompile(t, doc)
	r2 := mustCompile(t, doc)

	cases := []struct {
		v  map[string]any
		ok bool
	}{
		{map[string]any{"a": "yes", "b": "s"}, false},
		{map[string]any{"a": "yes", "b": 5}, false},
		{map[string]any{"a": "yes"}, true},
		{map[string]any{"a": "no", "b": 5}, true},
	}
	for i, c := range cases {
		got1 := r1.Validate(ctx, c.v) == nil
		got2 := r2.Validate(ctx, c.v) == nil
		if got1 != c.ok || got2 != c.ok {
			t.Fatalf("case %d: want %v, got r1=%v r2=%v", i, c.ok, got1, got2)
		}
	}
}

func TestCompile_InvalidPatternPropagates(t *testing.T) {
	_, _, err := compile.Compile([]byte(`{"type":"object","properties":{"a":{"type":"string","pattern":"("}}}`), compile.Options{})
	var le *compile.LeafError
	if !errors.As(err, &le) || le.Key != "a" {
		t.Fatalf("expected LeafError for a, got %v", err)
	}
}

func TestCompileYAML_ParityWithJSON(t *testing.T) {
	ctx := context.Background()
	r, diag, err := compile.CompileYAML([]byte(`
type: object
properties:
  a:
    type: string
  b:
    type: number
if:
  properties:
    a:
      const: active
then:
  properties:
    b:
      type: string
`), compile.Options{})
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
	if err := r.Validate(ctx, map[string]any{"a": "active", "b": 5}); err == nil {
		t.Fatalf("expected reject when condition holds")
	}
	if err := r.Validate(ctx, map[string]any{"a": "inactive", "b": 5}); err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
}
