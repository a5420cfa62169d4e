package schema

// Node is a JSON Schema fragment: either a full *Object schema or a Bool
// literal schema (true/false). The tagged union replaces runtime shape
// probing; callers switch on the concrete type.
type Node interface {
	node()
}

// Bool is a boolean-literal schema. It carries no compilable structure.
type Bool bool

func (Bool) node() {}

// Object is a full schema object: structural keywords consumed by the
// compiler plus leaf constraints consumed opaquely by leaf rule builders.
// Objects are read-only input and are never mutated after decoding.
type Object struct {
	Type string

	// Object keywords.
	Properties *Properties
	Required   []string

	// Array keywords. Items holds the single-schema form; ItemsList the
	// tuple form. At most one of the two is set.
	Items     Node
	ItemsList []Node

	// Conditional keywords.
	If   Node
	Then Node
	Else Node

	// Leaf constraints.
	Format           string
	Pattern          string
	Enum             []any
	Const            any
	HasConst         bool
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64
	MinLength        *int
	MaxLength        *int
	MinItems         *int
	MaxItems         *int
}

func (*Object) node() {}

// WithoutItems returns a shallow copy of o with the items keywords cleared.
// The compiler uses it to build an array's own scalar rule (minItems etc.)
// separately from the element rule.
func (o *Object) WithoutItems() *Object {
	c := *o
	c.Items = nil
	c.ItemsList = nil
	return &c
}

// HasProperties reports whether o declares at least one property.
func (o *Object) HasProperties() bool {
	return o.Properties != nil && o.Properties.Len() > 0
}

// Entry is one (key, schema) pair of an ordered properties mapping.
type Entry struct {
	Key    string
	Schema Node
}

// Properties is an explicitly ordered key→Node mapping. Declaration order is
// significant: conditional resolution keys off the first declared entry, so
// an unordered map would make compilation nondeterministic.
type Properties struct {
	entries []Entry
	index   map[string]int
}

// NewProperties builds an ordered mapping from entries. Later entries sharing
// a key replace the earlier schema in place.
func NewProperties(entries ...Entry) *Properties {
	p := &Properties{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		p.Set(e.Key, e.Schema)
	}
	return p
}

// Set appends (key, n) or replaces the schema of an existing key without
// moving it.
func (p *Properties) Set(key string, n Node) {
	if i, ok := p.index[key]; ok {
		p.entries[i].Schema = n
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Entry{Key: key, Schema: n})
}

// Get returns the schema declared for key.
func (p *Properties) Get(key string) (Node, bool) {
	if p == nil {
		return nil, false
	}
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.entries[i].Schema, true
}

// Has reports whether key is declared.
func (p *Properties) Has(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p.index[key]
	return ok
}

// Len returns the number of declared properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// First returns the first declared entry.
func (p *Properties) First() (Entry, bool) {
	if p == nil || len(p.entries) == 0 {
		return Entry{}, false
	}
	return p.entries[0], true
}

// Entries returns the pairs in declaration order. The slice is shared; do not
// mutate it.
func (p *Properties) Entries() []Entry {
	if p == nil {
		return nil
	}
	return p.entries
}
