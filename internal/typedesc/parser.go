// This file contains the logic for parsing descriptor strings (e.g. `int`,
// `map<string,array<struct:Vector>>`) into Descriptor values.

package typedesc

import (
	"context"
	"strings"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/fault"
)

// ReferenceChecker is the narrow slice of the type registry the parser needs:
// it answers whether a qualified reference resolves to a known type. The
// parser performs no lookup logic of its own beyond string scanning.
type ReferenceChecker interface {
	HasReference(kind RefKind, name string) bool
}

// Parser turns descriptor strings into Descriptor values. It is a pure
// function of its input plus the injected reference checker and alias table;
// it never mutates document state.
type Parser struct {
	refs ReferenceChecker
	// aliases maps lowercased shorthand keywords (e.g. "vector") onto full
	// descriptors. Injected configuration, not process-wide state.
	aliases map[string]Descriptor
}

// NewParser creates a parser bound to a reference checker and an alias table.
// A nil alias map disables shorthand keywords.
func NewParser(refs ReferenceChecker, aliases map[string]Descriptor) *Parser {
	return &Parser{refs: refs, aliases: aliases}
}

var scalarKinds = map[string]ScalarKind{
	"bool": Bool, "byte": Byte, "int": Int, "int64": Int64,
	"float": Float, "double": Double, "string": String,
	"name": Name, "text": Text, "exec": Exec, "wildcard": Wildcard,
}

var refKinds = map[string]RefKind{
	"enum": RefEnum, "object": RefObject, "class": RefClass,
	"soft_object": RefSoftObj, "soft_class": RefSoftClass,
	"interface": RefInterface, "struct": RefStruct,
}

// Parse converts a descriptor string into a Descriptor. Keywords are matched
// case-insensitively; reference names keep their case. A malformed string
// yields a ParseError naming the offending token; a well-formed reference to
// an unknown type yields TypeNotFound.
func (p *Parser) Parse(ctx context.Context, input string) (Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Descriptor{}, fault.New(fault.ParseError, "type descriptor is empty")
	}

	desc, err := p.parse(trimmed)
	if err != nil {
		return Descriptor{}, err
	}
	logger.Debug("Parsed type descriptor.", "input", input, "canonical", desc.String())
	return desc, nil
}

func (p *Parser) parse(token string) (Descriptor, error) {
	token = strings.TrimSpace(token)
	lower := strings.ToLower(token)

	if kind, ok := scalarKinds[lower]; ok {
		return ScalarOf(kind), nil
	}
	if alias, ok := p.aliases[lower]; ok {
		return p.checkResolved(alias)
	}

	for _, container := range []ContainerKind{Array, Set, Map} {
		prefix := string(container) + "<"
		if strings.HasPrefix(lower, prefix) {
			return p.parseContainer(container, token)
		}
	}

	if strings.Contains(token, ":") {
		return p.parseReference(token)
	}

	return Descriptor{}, fault.New(fault.ParseError, "unknown type keyword %q", token)
}

// parseContainer handles array<T>, set<T>, and map<K,V>. The inner text is
// taken between the first '<' and a matching trailing '>'.
func (p *Parser) parseContainer(kind ContainerKind, token string) (Descriptor, error) {
	open := strings.Index(token, "<")
	if !strings.HasSuffix(token, ">") {
		return Descriptor{}, fault.New(fault.ParseError, "container type %q is missing a closing '>'", token)
	}
	inner := token[open+1 : len(token)-1]
	if strings.TrimSpace(inner) == "" {
		return Descriptor{}, fault.New(fault.ParseError, "container type %q has no element type", token)
	}

	if kind == Map {
		key, value, err := splitTopLevel(inner)
		if err != nil {
			return Descriptor{}, fault.Wrap(fault.ParseError, err, "invalid map type %q", token)
		}
		keyDesc, err := p.parse(key)
		if err != nil {
			return Descriptor{}, err
		}
		valueDesc, err := p.parse(value)
		if err != nil {
			return Descriptor{}, err
		}
		return MapOf(keyDesc, valueDesc), nil
	}

	elem, err := p.parse(inner)
	if err != nil {
		return Descriptor{}, err
	}
	if kind == Array {
		return ArrayOf(elem), nil
	}
	return SetOf(elem), nil
}

// parseReference handles qualified references of the form `kind:Name`.
func (p *Parser) parseReference(token string) (Descriptor, error) {
	kindStr, name, _ := strings.Cut(token, ":")
	kind, ok := refKinds[strings.ToLower(strings.TrimSpace(kindStr))]
	if !ok {
		return Descriptor{}, fault.New(fault.ParseError, "unknown reference kind %q", kindStr)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Descriptor{}, fault.New(fault.ParseError, "reference %q is missing a type name", token)
	}
	return p.checkResolved(Reference(kind, name))
}

// checkResolved verifies a reference descriptor against the registry. The
// distinction between ParseError and TypeNotFound matters to callers: the
// latter means the string was fine and only the name was wrong.
func (p *Parser) checkResolved(desc Descriptor) (Descriptor, error) {
	if !desc.IsReference() {
		return desc, nil
	}
	if p.refs == nil || !p.refs.HasReference(desc.Ref, desc.RefName) {
		return Descriptor{}, fault.New(fault.TypeNotFound, "no %s type named %q is registered", desc.Ref, desc.RefName)
	}
	return desc, nil
}

// splitTopLevel splits a map's inner text on the single comma that sits at
// angle-bracket depth zero. Commas inside nested containers never split.
func splitTopLevel(inner string) (string, string, error) {
	depth := 0
	splitAt := -1
	for i, r := range inner {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return "", "", fault.New(fault.ParseError, "unbalanced '>' in %q", inner)
			}
		case ',':
			if depth == 0 {
				if splitAt != -1 {
					return "", "", fault.New(fault.ParseError, "map type has more than one top-level comma in %q", inner)
				}
				splitAt = i
			}
		}
	}
	if depth != 0 {
		return "", "", fault.New(fault.ParseError, "unbalanced '<' in %q", inner)
	}
	if splitAt == -1 {
		return "", "", fault.New(fault.ParseError, "map type requires a key and a value in %q", inner)
	}
	return inner[:splitAt], inner[splitAt+1:], nil
}
