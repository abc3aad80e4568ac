package document

import (
	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/graphforge/internal/typedesc"
)

// NodeKind is the tagged variant that replaces per-kind node subclasses.
// Kind-specific data extraction lives next to the operations that need it,
// switching exhaustively on this tag.
type NodeKind string

const (
	KindEvent          NodeKind = "event"
	KindFunctionEntry  NodeKind = "function_entry"
	KindFunctionResult NodeKind = "function_result"
	KindCall           NodeKind = "call"
	KindVariableGet    NodeKind = "variable_get"
	KindVariableSet    NodeKind = "variable_set"
	KindMacro          NodeKind = "macro"
	KindComment        NodeKind = "comment"
)

// Position is a node's 2D placement on the graph canvas.
type Position struct {
	X float64
	Y float64
}

// Node is one vertex of a callable graph. Nodes are created through their
// owning graph and carry a stable unique id, a document-unique numeric
// handle, an object name, and a display title.
type Node struct {
	graph  *Graph
	id     uuid.UUID
	handle int
	kind   NodeKind
	name   string
	title  string
	pos    Position
	pins   []*Pin
}

// NewNode creates a node in the graph. The object name is the stable
// human-readable identifier (e.g. Branch_17); the title is what the canvas
// displays (e.g. Branch).
func (g *Graph) NewNode(kind NodeKind, name, title string, pos Position) *Node {
	n := &Node{
		graph:  g,
		id:     uuid.New(),
		handle: g.doc.takeHandle(),
		kind:   kind,
		name:   name,
		title:  title,
		pos:    pos,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// detachNode removes a node from the graph's node list. The caller is
// responsible for severing pin connections first.
func (g *Graph) detachNode(target *Node) bool {
	for i, n := range g.nodes {
		if n == target {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// reattachNode restores a previously detached node, used by rollback.
func (g *Graph) reattachNode(n *Node) {
	g.nodes = append(g.nodes, n)
}

// ID returns the node's stable unique identifier.
func (n *Node) ID() uuid.UUID { return n.id }

// Handle returns the node's document-unique numeric handle.
func (n *Node) Handle() int { return n.handle }

// Kind returns the node's variant tag.
func (n *Node) Kind() NodeKind { return n.kind }

// Name returns the node's object name.
func (n *Node) Name() string { return n.name }

// Title returns the node's display title.
func (n *Node) Title() string { return n.title }

// Graph returns the owning graph.
func (n *Node) Graph() *Graph { return n.graph }

// Position returns the node's canvas placement.
func (n *Node) Position() Position { return n.pos }

// SetPosition moves the node on the canvas.
func (n *Node) SetPosition(pos Position) { n.pos = pos }

// Pins returns the node's pins in declaration order. Sub-pins of split pins
// are not part of this list; reach them through their parent.
func (n *Node) Pins() []*Pin { return n.pins }

// Direction tells whether a pin produces or consumes values.
type Direction string

const (
	// In pins consume a value (or execution) from a connected output.
	In Direction = "in"
	// Out pins produce a value (or execution) for connected inputs.
	Out Direction = "out"
)

// Pin is a typed connection point owned by exactly one node. A split pin
// carries sub-pins and holds no direct connections of its own.
type Pin struct {
	node    *Node
	id      uuid.UUID
	name    string
	dir     Direction
	desc    typedesc.Descriptor
	def     cty.Value
	parent  *Pin
	subPins []*Pin
	links   []*Pin
	// savedLinks parks the far ends of edges severed by a split until the
	// pin is recombined.
	savedLinks []*Pin
}

// AddPin appends a pin to the node. The default value starts at the type's
// zero value.
func (n *Node) AddPin(name string, dir Direction, desc typedesc.Descriptor) *Pin {
	p := &Pin{
		node: n,
		id:   uuid.New(),
		name: name,
		dir:  dir,
		desc: desc,
		def:  desc.ZeroValue(),
	}
	n.pins = append(n.pins, p)
	return p
}

// removePin detaches a pin from the node's pin list. Connections and
// sub-pins must already be gone.
func (n *Node) removePin(target *Pin) bool {
	for i, p := range n.pins {
		if p == target {
			n.pins = append(n.pins[:i], n.pins[i+1:]...)
			return true
		}
	}
	return false
}

// insertPin restores a pin at a given index, used by rollback.
func (n *Node) insertPin(p *Pin, index int) {
	if index < 0 || index >= len(n.pins) {
		n.pins = append(n.pins, p)
		return
	}
	n.pins = append(n.pins[:index], append([]*Pin{p}, n.pins[index:]...)...)
}

// pinIndex returns a pin's index in the node's pin list, or -1.
func (n *Node) pinIndex(target *Pin) int {
	for i, p := range n.pins {
		if p == target {
			return i
		}
	}
	return -1
}

// ID returns the pin's persistent token.
func (p *Pin) ID() uuid.UUID { return p.id }

// Name returns the pin's name, unique per node and direction.
func (p *Pin) Name() string { return p.name }

// Direction returns whether the pin is an input or output.
func (p *Pin) Direction() Direction { return p.dir }

// Type returns the pin's type descriptor.
func (p *Pin) Type() typedesc.Descriptor { return p.desc }

// Node returns the owning node.
func (p *Pin) Node() *Node { return p.node }

// Default returns the pin's default value.
func (p *Pin) Default() cty.Value { return p.def }

// SetDefault overrides the pin's default value.
func (p *Pin) SetDefault(v cty.Value) { p.def = v }

// IsExec reports whether the pin carries execution flow.
func (p *Pin) IsExec() bool { return p.desc.IsExec() }

// Parent returns the composite pin this sub-pin was split from, or nil.
func (p *Pin) Parent() *Pin { return p.parent }

// SubPins returns the sub-pins of a split pin in field order.
func (p *Pin) SubPins() []*Pin { return p.subPins }

// IsSplit reports whether the pin currently carries sub-pins.
func (p *Pin) IsSplit() bool { return len(p.subPins) > 0 }

// Connections returns the pins on the far end of every edge touching this
// pin.
func (p *Pin) Connections() []*Pin { return p.links }

// ConnectedTo reports whether an edge exists between the two pins.
func (p *Pin) ConnectedTo(other *Pin) bool {
	for _, l := range p.links {
		if l == other {
			return true
		}
	}
	return false
}

// FindPin locates a pin on the node by exact name and direction.
func (n *Node) FindPin(name string, dir Direction) *Pin {
	for _, p := range n.pins {
		if p.name == name && p.dir == dir {
			return p
		}
	}
	return nil
}
