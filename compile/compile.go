// Package compile turns a JSON Schema document into an executable
// jsonrule.Rule tree. Only a draft-07 subset is honored: properties, items,
// if/then/else, and the leaf constraints the leaf builder understands. No
// $ref resolution, no oneOf/anyOf/allOf, and only the first declared property
// of an if schema drives a condition.
package compile

import (
	"errors"
	"fmt"

	jsonrule "github.com/mkondo/jsonrule"
	"github.com/mkondo/jsonrule/schema"
)

// LeafBuilder maps one leaf schema to a base validation rule. key names the
// property being compiled and enclosing is the schema that declares it;
// both are context only and must not be mutated.
type LeafBuilder interface {
	BuildLeaf(key string, leaf, enclosing *schema.Object) (jsonrule.Rule, error)
}

// Options controls compilation behavior.
type Options struct {
	// Leaf supplies the leaf rule builder. Nil selects the built-in one.
	Leaf LeafBuilder
}

// Diag carries non-fatal warnings produced during compilation, mostly
// malformed or unsupported conditional shapes that were dropped.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// LeafError wraps a failure from the leaf rule builder. It is the only error
// the compiler propagates for schema content; everything else degrades to a
// Diag warning.
type LeafError struct {
	Key string
	Err error
}

func (e *LeafError) Error() string { return fmt.Sprintf("compile: leaf %q: %v", e.Key, e.Err) }
func (e *LeafError) Unwrap() error { return e.Err }

// ErrNilSchema is returned when a nil schema node is passed where a schema is
// required.
var ErrNilSchema = errors.New("compile: nil schema")

// Compile decodes a JSON document and compiles it. The rule is nil without
// error when the schema declares no top-level properties.
func Compile(data []byte, opts Options) (jsonrule.Rule, Diag, error) {
	n, err := schema.DecodeJSON(data)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	return CompileSchema(n, opts)
}

// CompileYAML is Compile for YAML schema documents.
func CompileYAML(data []byte, opts Options) (jsonrule.Rule, Diag, error) {
	n, err := schema.DecodeYAML(data)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	return CompileSchema(n, opts)
}

// CompileSchema compiles an already-decoded schema node. Boolean-literal
// schemas and object schemas without properties yield a nil rule.
func CompileSchema(n schema.Node, opts Options) (jsonrule.Rule, Diag, error) {
	d := &simpleDiag{}
	if n == nil {
		return nil, d, ErrNilSchema
	}
	obj, ok := n.(*schema.Object)
	if !ok {
		return nil, d, nil
	}
	lb := opts.Leaf
	if lb == nil {
		lb = DefaultLeafBuilder()
	}
	c := &compiler{leaf: lb, diag: d}
	r, err := c.compile(obj)
	return r, d, err
}
