package typeregistry

import (
	"github.com/vk/graphforge/internal/typedesc"
)

// NewBuiltin creates a registry pre-populated with the builtin value structs,
// their shorthand keywords, and the default implicit-conversion rules.
func NewBuiltin() *Registry {
	r := New()

	float := typedesc.ScalarOf(typedesc.Float)
	vector := typedesc.Reference(typedesc.RefStruct, "Vector")
	rotator := typedesc.Reference(typedesc.RefStruct, "Rotator")

	r.RegisterStruct(StructDef{Name: "Vector", Fields: []Field{
		{Name: "X", Type: float}, {Name: "Y", Type: float}, {Name: "Z", Type: float},
	}})
	r.RegisterStruct(StructDef{Name: "Vector2D", Fields: []Field{
		{Name: "X", Type: float}, {Name: "Y", Type: float},
	}})
	r.RegisterStruct(StructDef{Name: "Rotator", Fields: []Field{
		{Name: "Pitch", Type: float}, {Name: "Yaw", Type: float}, {Name: "Roll", Type: float},
	}})
	r.RegisterStruct(StructDef{Name: "Transform", Fields: []Field{
		{Name: "Location", Type: vector},
		{Name: "Rotation", Type: rotator},
		{Name: "Scale", Type: vector},
	}})
	r.RegisterStruct(StructDef{Name: "Color", Fields: []Field{
		{Name: "R", Type: float}, {Name: "G", Type: float},
		{Name: "B", Type: float}, {Name: "A", Type: float},
	}})

	for keyword, name := range map[string]string{
		"vector":    "Vector",
		"vector2d":  "Vector2D",
		"rotator":   "Rotator",
		"transform": "Transform",
		"color":     "Color",
	} {
		r.RegisterAlias(keyword, typedesc.Reference(typedesc.RefStruct, name))
	}

	// Numeric widening and the text-kind interchanges the document treats as
	// implicit.
	widenings := []struct{ from, to typedesc.ScalarKind }{
		{typedesc.Byte, typedesc.Int},
		{typedesc.Byte, typedesc.Int64},
		{typedesc.Byte, typedesc.Float},
		{typedesc.Byte, typedesc.Double},
		{typedesc.Int, typedesc.Int64},
		{typedesc.Int, typedesc.Float},
		{typedesc.Int, typedesc.Double},
		{typedesc.Int64, typedesc.Double},
		{typedesc.Float, typedesc.Double},
		{typedesc.Name, typedesc.String},
		{typedesc.String, typedesc.Name},
		{typedesc.String, typedesc.Text},
		{typedesc.Text, typedesc.String},
	}
	for _, w := range widenings {
		r.RegisterConversion(typedesc.ScalarOf(w.from), typedesc.ScalarOf(w.to))
	}

	return r
}
