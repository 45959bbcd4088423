// Package shape defines the structural type inferred from a JSON document.
//
// A Type is an immutable tagged union. Values are compared structurally with a
// total order (kind first, then payload), which lets them be stored in the
// sorted field lists of objects and the sorted option sets of variants.
package shape

import (
	"sort"
	"strings"
)

// Kind identifies the variant of a Type. The declaration order is the
// canonical sort order of kinds.
type Kind int

const (
	Null Kind = iota
	String
	Int
	Float
	Bool
	Object
	Array
	Variant
)

var kindNames = [...]string{
	Null:    "null",
	String:  "string",
	Int:     "int",
	Float:   "float",
	Bool:    "bool",
	Object:  "object",
	Array:   "array",
	Variant: "variant",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsComposite reports whether types of this kind get their own declaration.
func (k Kind) IsComposite() bool {
	return k == Object || k == Variant
}

// Field is a named member of an object type.
type Field struct {
	Name string
	Type Type
}

// Type describes the shape of a JSON value. The zero value is Null.
type Type struct {
	kind    Kind
	fields  []Field // Object, sorted by name
	elem    *Type   // Array
	options []Type  // Variant, sorted and deduplicated
}

// NullType returns the type of a JSON null.
func NullType() Type { return Type{kind: Null} }

// StringType returns the type of a JSON string.
func StringType() Type { return Type{kind: String} }

// IntType returns the type of an integral JSON number.
func IntType() Type { return Type{kind: Int} }

// FloatType returns the type of a fractional JSON number.
func FloatType() Type { return Type{kind: Float} }

// BoolType returns the type of a JSON boolean.
func BoolType() Type { return Type{kind: Bool} }

// ObjectOf builds an object type from a name to type mapping.
func ObjectOf(fields map[string]Type) Type {
	fs := make([]Field, 0, len(fields))
	for name, t := range fields {
		fs = append(fs, Field{Name: name, Type: t})
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Name < fs[j].Name })
	return Type{kind: Object, fields: fs}
}

// ArrayOf builds an array type with the given element type.
func ArrayOf(elem Type) Type {
	return Type{kind: Array, elem: &elem}
}

// VariantOf builds a variant from the given options. Nested variants are
// flattened into the result and duplicates are removed, so the result never
// contains a variant as a direct member.
func VariantOf(options ...Type) Type {
	flat := make([]Type, 0, len(options))
	for _, o := range options {
		if o.kind == Variant {
			flat = append(flat, o.options...)
			continue
		}
		flat = append(flat, o)
	}
	sort.Slice(flat, func(i, j int) bool { return Compare(flat[i], flat[j]) < 0 })

	set := flat[:0]
	for i, o := range flat {
		if i > 0 && Equal(o, set[len(set)-1]) {
			continue
		}
		set = append(set, o)
	}
	return Type{kind: Variant, options: set}
}

// Unknown returns the empty variant, the type of a value never observed.
func Unknown() Type { return Type{kind: Variant} }

// Kind returns the variant tag of t.
func (t Type) Kind() Kind { return t.kind }

// Fields returns a copy of the object fields in name order.
func (t Type) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Field looks up an object field by name.
func (t Type) Field(name string) (Type, bool) {
	i := sort.Search(len(t.fields), func(i int) bool { return t.fields[i].Name >= name })
	if i < len(t.fields) && t.fields[i].Name == name {
		return t.fields[i].Type, true
	}
	return Type{}, false
}

// Elem returns the element type of an array. For other kinds it returns
// the unknown type.
func (t Type) Elem() Type {
	if t.elem == nil {
		return Unknown()
	}
	return *t.elem
}

// Options returns a copy of the variant options in canonical order.
func (t Type) Options() []Type {
	out := make([]Type, len(t.options))
	copy(out, t.options)
	return out
}

// Contains reports whether o is one of the options of the variant t.
func (t Type) Contains(o Type) bool {
	i := sort.Search(len(t.options), func(i int) bool { return Compare(t.options[i], o) >= 0 })
	return i < len(t.options) && Equal(t.options[i], o)
}

// IsUnknown reports whether t is the empty variant.
func (t Type) IsUnknown() bool {
	return t.kind == Variant && len(t.options) == 0
}

// IsNullable reports whether a null value is accepted by t.
func (t Type) IsNullable() bool {
	switch t.kind {
	case Null:
		return true
	case Variant:
		return len(t.options) > 0 && t.options[0].kind == Null
	default:
		return false
	}
}

// Compare orders types by kind, then structurally by payload. It returns a
// negative number when a < b, zero when they are equal and a positive number
// when a > b.
func Compare(a, b Type) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case Object:
		for i := 0; i < len(a.fields) && i < len(b.fields); i++ {
			if c := strings.Compare(a.fields[i].Name, b.fields[i].Name); c != 0 {
				return c
			}
			if c := Compare(a.fields[i].Type, b.fields[i].Type); c != 0 {
				return c
			}
		}
		return len(a.fields) - len(b.fields)
	case Array:
		return Compare(a.Elem(), b.Elem())
	case Variant:
		for i := 0; i < len(a.options) && i < len(b.options); i++ {
			if c := Compare(a.options[i], b.options[i]); c != 0 {
				return c
			}
		}
		return len(a.options) - len(b.options)
	default:
		return 0
	}
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Type) bool {
	return Compare(a, b) == 0
}

// String renders the canonical text form of t, e.g. {a: int, b: (null | string)}.
func (t Type) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t Type) write(sb *strings.Builder) {
	switch t.kind {
	case Object:
		sb.WriteByte('{')
		for i, f := range t.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Type.write(sb)
		}
		sb.WriteByte('}')
	case Array:
		sb.WriteByte('[')
		t.Elem().write(sb)
		sb.WriteByte(']')
	case Variant:
		sb.WriteByte('(')
		for i, o := range t.options {
			if i > 0 {
				sb.WriteString(" | ")
			}
			o.write(sb)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(t.kind.String())
	}
}
