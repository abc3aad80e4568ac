// Package typedesc defines the structured representation of a value's type
// inside the graph document, the string grammar it is parsed from, and its
// mapping onto cty types for default-value handling.
package typedesc

import (
	"github.com/zclconf/go-cty/cty"
)

// ScalarKind enumerates the scalar type keywords of the descriptor grammar.
type ScalarKind string

const (
	Bool   ScalarKind = "bool"
	Byte   ScalarKind = "byte"
	Int    ScalarKind = "int"
	Int64  ScalarKind = "int64"
	Float  ScalarKind = "float"
	Double ScalarKind = "double"
	String ScalarKind = "string"
	Name   ScalarKind = "name"
	Text   ScalarKind = "text"
	// Exec marks an execution-flow pin. Exec pins carry no value; they only
	// sequence node activation and follow their own connection rules.
	Exec ScalarKind = "exec"
	// Wildcard accepts a connection of any type.
	Wildcard ScalarKind = "wildcard"
)

// ContainerKind enumerates the container wrappers of the grammar.
type ContainerKind string

const (
	Array ContainerKind = "array"
	Set   ContainerKind = "set"
	Map   ContainerKind = "map"
)

// RefKind enumerates the qualified-reference kinds of the grammar.
type RefKind string

const (
	RefEnum      RefKind = "enum"
	RefObject    RefKind = "object"
	RefClass     RefKind = "class"
	RefSoftObj   RefKind = "soft_object"
	RefSoftClass RefKind = "soft_class"
	RefInterface RefKind = "interface"
	RefStruct    RefKind = "struct"
)

// Descriptor is the recursively-defined type value. Exactly one of the three
// forms is populated: Scalar, Container (with Elem, and Value for maps), or
// Ref+RefName. Descriptors are immutable once constructed and compared
// structurally.
type Descriptor struct {
	Scalar    ScalarKind
	Container ContainerKind
	Ref       RefKind
	RefName   string

	// Elem is the element type of an array/set, or the key type of a map.
	Elem *Descriptor
	// Value is the value type of a map; nil for every other form.
	Value *Descriptor
}

// ScalarOf builds a scalar descriptor.
func ScalarOf(kind ScalarKind) Descriptor {
	return Descriptor{Scalar: kind}
}

// ArrayOf builds an array descriptor around an element type.
func ArrayOf(elem Descriptor) Descriptor {
	return Descriptor{Container: Array, Elem: &elem}
}

// SetOf builds a set descriptor around an element type.
func SetOf(elem Descriptor) Descriptor {
	return Descriptor{Container: Set, Elem: &elem}
}

// MapOf builds a map descriptor from key and value types.
func MapOf(key, value Descriptor) Descriptor {
	return Descriptor{Container: Map, Elem: &key, Value: &value}
}

// Reference builds a qualified-reference descriptor.
func Reference(kind RefKind, name string) Descriptor {
	return Descriptor{Ref: kind, RefName: name}
}

// IsScalar reports whether the descriptor is a plain scalar.
func (d Descriptor) IsScalar() bool { return d.Scalar != "" }

// IsContainer reports whether the descriptor is an array, set, or map.
func (d Descriptor) IsContainer() bool { return d.Container != "" }

// IsReference reports whether the descriptor is a qualified reference.
func (d Descriptor) IsReference() bool { return d.Ref != "" }

// IsExec reports whether the descriptor is the execution-flow kind.
func (d Descriptor) IsExec() bool { return d.Scalar == Exec }

// IsWildcard reports whether the descriptor accepts any connection.
func (d Descriptor) IsWildcard() bool { return d.Scalar == Wildcard }

// IsZero reports whether the descriptor is the empty value, which represents
// "no type" and never appears on a live pin.
func (d Descriptor) IsZero() bool {
	return d.Scalar == "" && d.Container == "" && d.Ref == ""
}

// Equal compares two descriptors structurally.
func (d Descriptor) Equal(other Descriptor) bool {
	if d.Scalar != other.Scalar || d.Container != other.Container ||
		d.Ref != other.Ref || d.RefName != other.RefName {
		return false
	}
	if (d.Elem == nil) != (other.Elem == nil) || (d.Value == nil) != (other.Value == nil) {
		return false
	}
	if d.Elem != nil && !d.Elem.Equal(*other.Elem) {
		return false
	}
	if d.Value != nil && !d.Value.Equal(*other.Value) {
		return false
	}
	return true
}

// String renders the canonical descriptor string. Parsing the result yields
// a structurally equal descriptor.
func (d Descriptor) String() string {
	switch {
	case d.IsScalar():
		return string(d.Scalar)
	case d.IsContainer():
		if d.Container == Map {
			return "map<" + d.Elem.String() + "," + d.Value.String() + ">"
		}
		return string(d.Container) + "<" + d.Elem.String() + ">"
	case d.IsReference():
		return string(d.Ref) + ":" + d.RefName
	default:
		return ""
	}
}

// CtyType maps the descriptor onto the cty type system used for default
// values. References, exec, and wildcard map to the dynamic pseudo-type
// since their values are host handles or absent entirely.
func (d Descriptor) CtyType() cty.Type {
	switch {
	case d.IsScalar():
		switch d.Scalar {
		case Bool:
			return cty.Bool
		case Byte, Int, Int64, Float, Double:
			return cty.Number
		case String, Name, Text:
			return cty.String
		default:
			return cty.DynamicPseudoType
		}
	case d.IsContainer():
		switch d.Container {
		case Array:
			return cty.List(d.Elem.CtyType())
		case Set:
			return cty.Set(d.Elem.CtyType())
		case Map:
			return cty.Map(d.Value.CtyType())
		}
	}
	return cty.DynamicPseudoType
}

// ZeroValue returns the default value a freshly created pin of this type
// carries before a caller overrides it.
func (d Descriptor) ZeroValue() cty.Value {
	switch {
	case d.IsScalar():
		switch d.Scalar {
		case Bool:
			return cty.False
		case Byte, Int, Int64, Float, Double:
			return cty.Zero
		case String, Name, Text:
			return cty.StringVal("")
		}
	case d.IsContainer():
		switch d.Container {
		case Array:
			return cty.ListValEmpty(d.Elem.CtyType())
		case Set:
			return cty.SetValEmpty(d.Elem.CtyType())
		case Map:
			return cty.MapValEmpty(d.Value.CtyType())
		}
	}
	return cty.NullVal(cty.DynamicPseudoType)
}
