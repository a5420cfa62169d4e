package schema

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrInvalidShape is wrapped by decode errors when the input is not a schema
// (for example a bare number where an object or boolean was required).
var ErrInvalidShape = errors.New("schema: invalid schema shape")

// DecodeJSON decodes a JSON Schema document. It walks the token stream rather
// than unmarshalling into a map so that property declaration order survives.
func DecodeJSON(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	n, err := decodeNode(dec)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// decodeNode reads the next value as a schema: an object or a boolean literal.
func decodeNode(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	switch t := tok.(type) {
	case bool:
		return Bool(t), nil
	case json.Delim:
		if t == '{' {
			return decodeObject(dec)
		}
	}
	return nil, fmt.Errorf("%w: expected object or boolean, got %v", ErrInvalidShape, tok)
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	o := &Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string key %v", ErrInvalidShape, tok)
		}
		if err := decodeKeyword(dec, o, key); err != nil {
			return nil, err
		}
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return o, nil
}

func decodeKeyword(dec *json.Decoder, o *Object, key string) error {
	switch key {
	case "type":
		return decodeInto(dec, key, &o.Type)
	case "properties":
		p, err := decodeProperties(dec)
		if err != nil {
			return err
		}
		o.Properties = p
	case "items":
		return decodeItems(dec, o)
	case "if":
		n, err := decodeNode(dec)
		if err != nil {
			return err
		}
		o.If = n
	case "then":
		n, err := decodeNode(dec)
		if err != nil {
			return err
		}
		o.Then = n
	case "else":
		n, err := decodeNode(dec)
		if err != nil {
			return err
		}
		o.Else = n
	case "required":
		return decodeInto(dec, key, &o.Required)
	case "enum":
		return decodeInto(dec, key, &o.Enum)
	case "const":
		var v any
		if err := decodeInto(dec, key, &v); err != nil {
			return err
		}
		o.Const = v
		o.HasConst = true
	case "format":
		return decodeInto(dec, key, &o.Format)
	case "pattern":
		return decodeInto(dec, key, &o.Pattern)
	case "minimum":
		return decodeNumPtr(dec, key, &o.Minimum)
	case "maximum":
		return decodeNumPtr(dec, key, &o.Maximum)
	case "exclusiveMinimum":
		return decodeNumPtr(dec, key, &o.ExclusiveMinimum)
	case "exclusiveMaximum":
		return decodeNumPtr(dec, key, &o.ExclusiveMaximum)
	case "multipleOf":
		return decodeNumPtr(dec, key, &o.MultipleOf)
	case "minLength":
		return decodeIntPtr(dec, key, &o.MinLength)
	case "maxLength":
		return decodeIntPtr(dec, key, &o.MaxLength)
	case "minItems":
		return decodeIntPtr(dec, key, &o.MinItems)
	case "maxItems":
		return decodeIntPtr(dec, key, &o.MaxItems)
	default:
		// Unknown keywords ($comment, title, description, ...) are skipped.
		var sink any
		if err := dec.Decode(&sink); err != nil {
			return fmt.Errorf("schema: %q: %w", key, err)
		}
	}
	return nil
}

func decodeProperties(dec *json.Decoder) (*Properties, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: properties must be an object", ErrInvalidShape)
	}
	p := NewProperties()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string property key %v", ErrInvalidShape, tok)
		}
		n, err := decodeNode(dec)
		if err != nil {
			return nil, err
		}
		p.Set(key, n)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return p, nil
}

func decodeItems(dec *json.Decoder, o *Object) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	switch t := tok.(type) {
	case bool:
		o.Items = Bool(t)
		return nil
	case json.Delim:
		switch t {
		case '{':
			n, err := decodeObject(dec)
			if err != nil {
				return err
			}
			o.Items = n
			return nil
		case '[':
			for dec.More() {
				n, err := decodeNode(dec)
				if err != nil {
					return err
				}
				o.ItemsList = append(o.ItemsList, n)
			}
			// closing ']'
			if _, err := dec.Token(); err != nil {
				return fmt.Errorf("schema: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: items must be a schema or a schema sequence", ErrInvalidShape)
}

func decodeInto[T any](dec *json.Decoder, key string, dst *T) error {
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("schema: %q: %w", key, err)
	}
	return nil
}

func decodeNumPtr(dec *json.Decoder, key string, dst **float64) error {
	var f float64
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("schema: %q: %w", key, err)
	}
	*dst = &f
	return nil
}

func decodeIntPtr(dec *json.Decoder, key string, dst **int) error {
	var n int
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("schema: %q: %w", key, err)
	}
	*dst = &n
	return nil
}
