package resource

// ValueType is the parser-assigned semantic category of a field value
// literal.
type ValueType uint8

const (
	// ValueInteger is a plain integer literal.
	ValueInteger ValueType = iota
	// ValuePercentage is an integer literal written as a percentage.
	ValuePercentage
	// ValueResourceID is an absolute resource identifier.
	ValueResourceID
	// ValueString is a string literal.
	ValueString
	// ValueIdentifier is a bare identifier, resolved against a schema
	// symbol table during assembly.
	ValueIdentifier
	// ValueFileReference is a file path standing in for a resource.
	ValueFileReference
	// ValueColor is a packed RGB/RGBA integer literal.
	ValueColor
)

// String returns the value type name.
func (v ValueType) String() string {
	switch v {
	case ValueInteger:
		return "integer"
	case ValuePercentage:
		return "percentage"
	case ValueResourceID:
		return "resource-id"
	case ValueString:
		return "string"
	case ValueIdentifier:
		return "identifier"
	case ValueFileReference:
		return "file-reference"
	case ValueColor:
		return "color"
	default:
		return "unknown"
	}
}

// Value is a single literal attached to a field, tagged with its semantic
// type.
type Value struct {
	// Literal is the raw source text of the value.
	Literal string

	// Type is the semantic category assigned by the parser.
	Type ValueType
}

// Field is a named, ordered list of values attached to a resource.
// Fields are immutable once constructed.
type Field struct {
	name   string
	values []Value
}

// NewField creates a field with the given name and values.
func NewField(name string, values ...Value) Field {
	return Field{name: name, values: values}
}

// Name returns the field name.
func (f Field) Name() string {
	return f.name
}

// Values returns the field's values in declaration order.
func (f Field) Values() []Value {
	return f.values
}

// Resource is an identified, typed, named bundle of declared fields to be
// compiled into one fixed binary record.
type Resource struct {
	typ    string
	id     int64
	name   string
	fields []Field
}

// New creates a resource with the given type tag, numeric id and name.
func New(typ string, id int64, name string) *Resource {
	return &Resource{typ: typ, id: id, name: name}
}

// Type returns the resource type tag.
func (r *Resource) Type() string {
	return r.typ
}

// ID returns the resource id.
func (r *Resource) ID() int64 {
	return r.id
}

// Name returns the resource name.
func (r *Resource) Name() string {
	return r.name
}

// AddField appends a field. Field names need not be unique; lookup returns
// the first match.
func (r *Resource) AddField(f Field) {
	r.fields = append(r.fields, f)
}

// Fields returns all fields in insertion order.
func (r *Resource) Fields() []Field {
	return r.fields
}

// FieldNamed returns the first field with the given name, or nil if the
// resource has no such field.
func (r *Resource) FieldNamed(name string) *Field {
	for i := range r.fields {
		if r.fields[i].name == name {
			return &r.fields[i]
		}
	}
	return nil
}
