package compile

import (
	jsonrule "github.com/mkondo/jsonrule"
	"github.com/mkondo/jsonrule/schema"
)

type compiler struct {
	leaf LeafBuilder
	diag *simpleDiag
}

// compile reads the schema's top-level properties and wraps their rules as an
// object rule. A schema without properties compiles to nil: this entry point
// only handles object schemas.
func (c *compiler) compile(o *schema.Object) (jsonrule.Rule, error) {
	if !o.HasProperties() {
		return nil, nil
	}
	set, err := c.compileProperties(o.Properties, o)
	if err != nil {
		return nil, err
	}
	return jsonrule.Object(set, o.Required...), nil
}

// compileProperties walks properties in declaration order and produces one
// object's worth of field rules. Boolean-literal property schemas carry no
// compilable structure and are skipped.
func (c *compiler) compileProperties(props *schema.Properties, enclosing *schema.Object) (*jsonrule.RuleSet, error) {
	set := jsonrule.NewRuleSet()
	for _, e := range props.Entries() {
		node, ok := e.Schema.(*schema.Object)
		if !ok {
			continue
		}
		items := itemsObject(node)
		switch {
		case node.Type == "object" && node.HasProperties():
			r, err := c.compile(node)
			if err != nil {
				return nil, err
			}
			set.Set(e.Key, r)
		case node.Type == "array" && items != nil && items.HasProperties():
			// Array-level constraints (minItems etc.) compile from the node
			// with items stripped; each element must satisfy the element
			// object's rules on top of that.
			scalar, err := c.buildLeaf(e.Key, node.WithoutItems(), enclosing)
			if err != nil {
				return nil, err
			}
			elem, err := c.compile(items)
			if err != nil {
				return nil, err
			}
			set.Set(e.Key, jsonrule.And(scalar, jsonrule.Array(elem)))
		case node.Type == "array" && items != nil:
			elem, err := c.buildLeaf(e.Key, items, node)
			if err != nil {
				return nil, err
			}
			set.Set(e.Key, jsonrule.Array(elem))
		default:
			r, err := c.buildLeaf(e.Key, node, enclosing)
			if err != nil {
				return nil, err
			}
			set.Set(e.Key, r)
			if c.hasConditional(enclosing, e.Key) {
				cset, err := c.resolveCondition(enclosing)
				if err != nil {
					return nil, err
				}
				// Conditional entries replace the leaf entries they share a
				// key with (last-writer-wins merge).
				set.Merge(cset)
			}
		}
	}
	return set, nil
}

func (c *compiler) buildLeaf(key string, leaf, enclosing *schema.Object) (jsonrule.Rule, error) {
	r, err := c.leaf.BuildLeaf(key, leaf, enclosing)
	if err != nil {
		return nil, &LeafError{Key: key, Err: err}
	}
	return r, nil
}

// itemsObject returns the single-schema items form when it is an object schema.
func itemsObject(o *schema.Object) *schema.Object {
	it, _ := o.Items.(*schema.Object)
	return it
}
