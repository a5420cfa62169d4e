package schema_test

import (
	"testing"

	"github.com/mkondo/jsonrule/schema"
)

func TestDecodeYAML_OrderParityWithJSON(t *testing.T) {
	doc := []byte(`
type: object
required: [zeta]
properties:
  zeta:
    type: string
    minLength: 1
  alpha:
    type: number
    minimum: 0
`)
	n, err := schema.DecodeYAML(doc)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	o, ok := n.(*schema.Object)
	if !ok {
		t.Fatalf("expected object schema, got %T", n)
	}
	first, _ := o.Properties.First()
	if first.Key != "zeta" {
		t.Fatalf("yaml mapping order lost: first=%q", first.Key)
	}
	if len(o.Required) != 1 || o.Required[0] != "zeta" {
		t.Fatalf("required not decoded: %v", o.Required)
	}
	a, _ := o.Properties.Get("alpha")
	ao := a.(*schema.Object)
	if ao.Minimum == nil || *ao.Minimum != 0 {
		t.Fatalf("minimum not decoded: %+v", ao)
	}
}

func TestDecodeYAML_BooleanAndConditional(t *testing.T) {
	doc := []byte(`
type: object
properties:
  a:
    type: string
  skipme: true
if:
  properties:
    a:
      const: yes-value
then:
  properties:
    b:
      type: number
`)
	n, err := schema.DecodeYAML(doc)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	o := n.(*schema.Object)
	sk, _ := o.Properties.Get("skipme")
	if b, ok := sk.(schema.Bool); !ok || !bool(b) {
		t.Fatalf("expected boolean-literal property, got %#v", sk)
	}
	ifo, ok := o.If.(*schema.Object)
	if !ok {
		t.Fatalf("if not decoded")
	}
	cond, _ := ifo.Properties.First()
	if cond.Key != "a" || cond.Schema.(*schema.Object).Const != "yes-value" {
		t.Fatalf("condition not decoded: %+v", cond)
	}
	if _, ok := o.Then.(*schema.Object); !ok {
		t.Fatalf("then not decoded")
	}
}

func TestDecodeYAML_ItemsAndEnumNormalized(t *testing.T) {
	doc := []byte(`
type: array
items:
  type: object
  properties:
    x:
      enum:
        - a: 1
        - plain
minItems: 2
`)
	n, err := schema.DecodeYAML(doc)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	o := n.(*schema.Object)
	if o.MinItems == nil || *o.MinItems != 2 {
		t.Fatalf("minItems not decoded")
	}
	it := o.Items.(*schema.Object)
	x, _ := it.Properties.Get("x")
	enum := x.(*schema.Object).Enum
	if len(enum) != 2 {
		t.Fatalf("enum not decoded: %v", enum)
	}
	if m, ok := enum[0].(map[string]any); !ok || m["a"] != 1 {
		t.Fatalf("enum mapping not normalized: %#v", enum[0])
	}
}

func TestDecodeYAML_InvalidShape(t *testing.T) {
	if _, err := schema.DecodeYAML([]byte(`5`)); err == nil {
		t.Fatalf("expected error for scalar root")
	}
	if _, err := schema.DecodeYAML([]byte(`- 1`)); err == nil {
		t.Fatalf("expected error for sequence root")
	}
}
