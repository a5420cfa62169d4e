package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a YAML schema document. yaml.Node mapping content keeps
// key order, so property declaration order survives the same way it does for
// the JSON token path.
func DecodeYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidShape)
		}
		root = root.Content[0]
	}
	return nodeFromYAML(root)
}

func nodeFromYAML(n *yaml.Node) (Node, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: expected object or boolean at line %d", ErrInvalidShape, n.Line)
		}
		return Bool(b), nil
	case yaml.MappingNode:
		return objectFromYAML(n)
	}
	return nil, fmt.Errorf("%w: expected object or boolean at line %d", ErrInvalidShape, n.Line)
}

func objectFromYAML(n *yaml.Node) (*Object, error) {
	o := &Object{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]
		if err := yamlKeyword(o, key, val); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func yamlKeyword(o *Object, key string, val *yaml.Node) error {
	switch key {
	case "type":
		return yamlInto(key, val, &o.Type)
	case "properties":
		if val.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: properties must be a mapping", ErrInvalidShape)
		}
		p := NewProperties()
		for i := 0; i+1 < len(val.Content); i += 2 {
			child, err := nodeFromYAML(val.Content[i+1])
			if err != nil {
				return err
			}
			p.Set(val.Content[i].Value, child)
		}
		o.Properties = p
	case "items":
		if val.Kind == yaml.SequenceNode {
			for _, c := range val.Content {
				child, err := nodeFromYAML(c)
				if err != nil {
					return err
				}
				o.ItemsList = append(o.ItemsList, child)
			}
			return nil
		}
		child, err := nodeFromYAML(val)
		if err != nil {
			return err
		}
		o.Items = child
	case "if":
		child, err := nodeFromYAML(val)
		if err != nil {
			return err
		}
		o.If = child
	case "then":
		child, err := nodeFromYAML(val)
		if err != nil {
			return err
		}
		o.Then = child
	case "else":
		child, err := nodeFromYAML(val)
		if err != nil {
			return err
		}
		o.Else = child
	case "required":
		return yamlInto(key, val, &o.Required)
	case "enum":
		var raw []any
		if err := yamlInto(key, val, &raw); err != nil {
			return err
		}
		for i := range raw {
			raw[i] = yamlNormalizeValue(raw[i])
		}
		o.Enum = raw
	case "const":
		var raw any
		if err := yamlInto(key, val, &raw); err != nil {
			return err
		}
		o.Const = yamlNormalizeValue(raw)
		o.HasConst = true
	case "format":
		return yamlInto(key, val, &o.Format)
	case "pattern":
		return yamlInto(key, val, &o.Pattern)
	case "minimum":
		return yamlNumPtr(key, val, &o.Minimum)
	case "maximum":
		return yamlNumPtr(key, val, &o.Maximum)
	case "exclusiveMinimum":
		return yamlNumPtr(key, val, &o.ExclusiveMinimum)
	case "exclusiveMaximum":
		return yamlNumPtr(key, val, &o.ExclusiveMaximum)
	case "multipleOf":
		return yamlNumPtr(key, val, &o.MultipleOf)
	case "minLength":
		return yamlIntPtr(key, val, &o.MinLength)
	case "maxLength":
		return yamlIntPtr(key, val, &o.MaxLength)
	case "minItems":
		return yamlIntPtr(key, val, &o.MinItems)
	case "maxItems":
		return yamlIntPtr(key, val, &o.MaxItems)
	}
	// Unknown keywords are skipped.
	return nil
}

func yamlInto[T any](key string, val *yaml.Node, dst *T) error {
	if err := val.Decode(dst); err != nil {
		return fmt.Errorf("schema: %q: %w", key, err)
	}
	return nil
}

func yamlNumPtr(key string, val *yaml.Node, dst **float64) error {
	var f float64
	if err := val.Decode(&f); err != nil {
		return fmt.Errorf("schema: %q: %w", key, err)
	}
	*dst = &f
	return nil
}

func yamlIntPtr(key string, val *yaml.Node, dst **int) error {
	var n int
	if err := val.Decode(&n); err != nil {
		return fmt.Errorf("schema: %q: %w", key, err)
	}
	*dst = &n
	return nil
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively so that enum/const
// comparisons behave the same for YAML and JSON schemas.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
