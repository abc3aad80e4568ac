// Package typeregistry holds the catalog of named types a graph document can
// reference: value structs with their field layouts, enums, classes, and
// interfaces, plus the implicit-conversion rules between descriptors. The
// engine never performs name-based type lookup anywhere else.
package typeregistry

import (
	"strings"

	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
)

// Field describes one member of a registered value struct.
type Field struct {
	Name string
	Type typedesc.Descriptor
}

// StructDef is a registered value struct. A struct with more than one field
// is splittable on a pin.
type StructDef struct {
	Name   string
	Fields []Field
}

// EnumDef is a registered enumeration.
type EnumDef struct {
	Name   string
	Values []string
}

// TypeHandle is the opaque result of a successful reference resolution.
type TypeHandle struct {
	Kind typedesc.RefKind
	Name string
}

// convKey identifies an implicit conversion by the canonical strings of its
// endpoint descriptors.
type convKey struct {
	from string
	to   string
}

// Registry is the type catalog. Lookups are case-insensitive on type names;
// registration preserves the declared casing.
type Registry struct {
	structs    map[string]*StructDef
	enums      map[string]*EnumDef
	classes    map[string]string
	interfaces map[string]string
	convs      map[convKey]bool
	aliases    map[string]typedesc.Descriptor
}

// New creates an empty registry with no builtin content.
func New() *Registry {
	return &Registry{
		structs:    make(map[string]*StructDef),
		enums:      make(map[string]*EnumDef),
		classes:    make(map[string]string),
		interfaces: make(map[string]string),
		convs:      make(map[convKey]bool),
		aliases:    make(map[string]typedesc.Descriptor),
	}
}

// RegisterStruct adds or replaces a value struct definition.
func (r *Registry) RegisterStruct(def StructDef) {
	r.structs[strings.ToLower(def.Name)] = &def
}

// RegisterEnum adds or replaces an enum definition.
func (r *Registry) RegisterEnum(def EnumDef) {
	r.enums[strings.ToLower(def.Name)] = &def
}

// RegisterClass adds a class name to the catalog.
func (r *Registry) RegisterClass(name string) {
	r.classes[strings.ToLower(name)] = name
}

// RegisterInterface adds an interface name to the catalog.
func (r *Registry) RegisterInterface(name string) {
	r.interfaces[strings.ToLower(name)] = name
}

// RegisterConversion declares that a value of type from may implicitly
// convert into a value of type to.
func (r *Registry) RegisterConversion(from, to typedesc.Descriptor) {
	r.convs[convKey{from: from.String(), to: to.String()}] = true
}

// RegisterAlias binds a shorthand keyword (e.g. "vector") to a descriptor.
func (r *Registry) RegisterAlias(keyword string, desc typedesc.Descriptor) {
	r.aliases[strings.ToLower(keyword)] = desc
}

// Aliases returns the shorthand keyword table for injection into a parser.
func (r *Registry) Aliases() map[string]typedesc.Descriptor {
	return r.aliases
}

// HasReference implements typedesc.ReferenceChecker.
func (r *Registry) HasReference(kind typedesc.RefKind, name string) bool {
	key := strings.ToLower(name)
	switch kind {
	case typedesc.RefStruct:
		_, ok := r.structs[key]
		return ok
	case typedesc.RefEnum:
		_, ok := r.enums[key]
		return ok
	case typedesc.RefClass, typedesc.RefObject, typedesc.RefSoftObj, typedesc.RefSoftClass:
		_, ok := r.classes[key]
		return ok
	case typedesc.RefInterface:
		_, ok := r.interfaces[key]
		return ok
	}
	return false
}

// ResolveReference resolves a qualified reference into a handle, or returns
// a TypeNotFound fault.
func (r *Registry) ResolveReference(kind typedesc.RefKind, name string) (TypeHandle, error) {
	key := strings.ToLower(name)
	switch kind {
	case typedesc.RefStruct:
		if def, ok := r.structs[key]; ok {
			return TypeHandle{Kind: kind, Name: def.Name}, nil
		}
	case typedesc.RefEnum:
		if def, ok := r.enums[key]; ok {
			return TypeHandle{Kind: kind, Name: def.Name}, nil
		}
	case typedesc.RefClass, typedesc.RefObject, typedesc.RefSoftObj, typedesc.RefSoftClass:
		if canonical, ok := r.classes[key]; ok {
			return TypeHandle{Kind: kind, Name: canonical}, nil
		}
	case typedesc.RefInterface:
		if canonical, ok := r.interfaces[key]; ok {
			return TypeHandle{Kind: kind, Name: canonical}, nil
		}
	}
	return TypeHandle{}, fault.New(fault.TypeNotFound, "no %s type named %q is registered", kind, name)
}

// StructFields returns the field layout of a registered struct descriptor.
func (r *Registry) StructFields(desc typedesc.Descriptor) ([]Field, bool) {
	if !desc.IsReference() || desc.Ref != typedesc.RefStruct {
		return nil, false
	}
	def, ok := r.structs[strings.ToLower(desc.RefName)]
	if !ok {
		return nil, false
	}
	return def.Fields, true
}

// Splittable reports whether a descriptor names a multi-field value struct
// that a pin transform may break into sub-pins.
func (r *Registry) Splittable(desc typedesc.Descriptor) bool {
	fields, ok := r.StructFields(desc)
	return ok && len(fields) > 1
}

// IsConvertible reports whether a value of type from may flow into a pin of
// type to. Exact structural matches and wildcard endpoints always pass;
// containers convert elementwise when their kinds match; everything else
// consults the declared conversion table.
func (r *Registry) IsConvertible(from, to typedesc.Descriptor) bool {
	if from.Equal(to) {
		return true
	}
	if from.IsWildcard() || to.IsWildcard() {
		return true
	}
	// Exec pins sequence control flow; they only ever connect to each other.
	if from.IsExec() || to.IsExec() {
		return false
	}
	if from.IsContainer() || to.IsContainer() {
		if from.Container != to.Container {
			return false
		}
		if !r.IsConvertible(*from.Elem, *to.Elem) {
			return false
		}
		if from.Container == typedesc.Map {
			return r.IsConvertible(*from.Value, *to.Value)
		}
		return true
	}
	return r.convs[convKey{from: from.String(), to: to.String()}]
}
