// Package document holds the in-memory model of one editable graph document:
// callable graphs, nodes, pins, connections, and signatures, plus the
// transaction journal that keeps caller-visible commands atomic. The package
// provides raw structural primitives only; validation lives in the managers
// built on top of it.
package document

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/graphforge/internal/fault"
)

// GraphKind classifies a callable graph.
type GraphKind string

const (
	// EventGraph is a top-level event-driven graph. A document owns at
	// least one.
	EventGraph GraphKind = "event"
	// FunctionGraph is a named callable function with an Entry node and
	// optional Result nodes.
	FunctionGraph GraphKind = "function"
	// MacroGraph is a named expandable macro.
	MacroGraph GraphKind = "macro"
)

// Document is the full editable program graph owned by one session. It is
// single-owner: all access happens on the thread that created it.
type Document struct {
	name       string
	graphs     []*Graph
	nextHandle int
}

// New creates a document containing a single default event graph.
func New(name string) *Document {
	doc := &Document{name: name, nextHandle: 1}
	doc.mustAddGraph(EventGraph, "EventGraph")
	return doc
}

// Name returns the document's display name.
func (d *Document) Name() string { return d.name }

// Graphs returns all callable graphs in insertion order.
func (d *Document) Graphs() []*Graph { return d.graphs }

// DefaultEventGraph returns the first event graph of the document.
func (d *Document) DefaultEventGraph() *Graph {
	for _, g := range d.graphs {
		if g.kind == EventGraph {
			return g
		}
	}
	return nil
}

// GraphNamed finds a graph by name, optionally restricted to a kind. An
// empty kind matches any graph.
func (d *Document) GraphNamed(kind GraphKind, name string) *Graph {
	for _, g := range d.graphs {
		if g.name == name && (kind == "" || g.kind == kind) {
			return g
		}
	}
	return nil
}

// GraphByID finds a graph by its unique identifier.
func (d *Document) GraphByID(id uuid.UUID) *Graph {
	for _, g := range d.graphs {
		if g.id == id {
			return g
		}
	}
	return nil
}

// AddGraph creates a new named graph. Graph names are unique within the
// document; a clash is a StructuralConflict.
func (d *Document) AddGraph(kind GraphKind, name string) (*Graph, error) {
	if d.GraphNamed("", name) != nil {
		return nil, fault.New(fault.StructuralConflict, "a graph named %q already exists", name)
	}
	return d.mustAddGraph(kind, name), nil
}

// RemoveGraph deletes a named graph and everything in it.
func (d *Document) RemoveGraph(name string) error {
	for i, g := range d.graphs {
		if g.name == name {
			d.graphs = append(d.graphs[:i], d.graphs[i+1:]...)
			return nil
		}
	}
	return fault.New(fault.StructuralConflict, "no graph named %q exists", name)
}

func (d *Document) mustAddGraph(kind GraphKind, name string) *Graph {
	g := &Graph{
		doc:   d,
		id:    uuid.New(),
		kind:  kind,
		name:  name,
		scope: fmt.Sprintf("%s.%s", d.name, name),
		sig:   &Signature{},
	}
	d.graphs = append(d.graphs, g)
	return g
}

// takeHandle hands out the next document-unique numeric node handle.
func (d *Document) takeHandle() int {
	h := d.nextHandle
	d.nextHandle++
	return h
}

// Graph is one named callable unit of nodes and connections.
type Graph struct {
	doc   *Document
	id    uuid.UUID
	kind  GraphKind
	name  string
	scope string
	nodes []*Node
	sig   *Signature
}

// ID returns the graph's unique identifier.
func (g *Graph) ID() uuid.UUID { return g.id }

// Kind returns the graph's kind.
func (g *Graph) Kind() GraphKind { return g.kind }

// Name returns the graph's name, unique within the document.
func (g *Graph) Name() string { return g.name }

// Scope is the key under which the graph's signature resolves in the type
// registry of the host.
func (g *Graph) Scope() string { return g.scope }

// Document returns the owning document.
func (g *Graph) Document() *Document { return g.doc }

// Nodes returns the graph's nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Signature returns the graph's parameter and local-variable declarations.
func (g *Graph) Signature() *Signature { return g.sig }

// EntryNode returns the graph's Entry node, or nil for graphs without one.
func (g *Graph) EntryNode() *Node {
	for _, n := range g.nodes {
		if n.kind == KindFunctionEntry {
			return n
		}
	}
	return nil
}

// ResultNodes returns the graph's Result nodes in insertion order.
func (g *Graph) ResultNodes() []*Node {
	var results []*Node
	for _, n := range g.nodes {
		if n.kind == KindFunctionResult {
			results = append(results, n)
		}
	}
	return results
}
