package engine

import (
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/signature"
	"github.com/vk/graphforge/internal/typedesc"
)

// PinView is the serialized form of one pin.
type PinView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Direction   string    `json:"direction"`
	Type        string    `json:"type"`
	Default     string    `json:"default,omitempty"`
	Connections []string  `json:"connections,omitempty"`
	SubPins     []PinView `json:"sub_pins,omitempty"`
}

// NodeView is the serialized form of one node.
type NodeView struct {
	ID     string    `json:"id"`
	Handle int       `json:"handle"`
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	Kind   string    `json:"kind"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Pins   []PinView `json:"pins,omitempty"`
	// Detail carries the kind-specific payload extracted per variant.
	Detail map[string]string `json:"detail,omitempty"`
}

// GraphView is the serialized form of one callable graph.
type GraphView struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	Scope     string             `json:"scope"`
	Nodes     []NodeView         `json:"nodes"`
	Signature *signature.Listing `json:"signature"`
}

// viewPin serializes a pin, its edges, and its sub-pins.
func viewPin(p *document.Pin) PinView {
	view := PinView{
		ID:        p.ID().String(),
		Name:      p.Name(),
		Direction: string(p.Direction()),
		Type:      p.Type().String(),
		Default:   typedesc.RenderValue(p.Default()),
	}
	for _, other := range p.Connections() {
		view.Connections = append(view.Connections, other.Node().Name()+":"+other.Name())
	}
	for _, sub := range p.SubPins() {
		view.SubPins = append(view.SubPins, viewPin(sub))
	}
	return view
}

// viewNode serializes a node including its kind-specific detail.
func viewNode(n *document.Node) NodeView {
	view := NodeView{
		ID:     n.ID().String(),
		Handle: n.Handle(),
		Name:   n.Name(),
		Title:  n.Title(),
		Kind:   string(n.Kind()),
		X:      n.Position().X,
		Y:      n.Position().Y,
		Detail: kindDetail(n),
	}
	for _, p := range n.Pins() {
		view.Pins = append(view.Pins, viewPin(p))
	}
	return view
}

// kindDetail extracts the per-variant descriptor of a node. The switch is
// exhaustive over NodeKind; a new kind fails loudly here instead of being
// silently ignored.
func kindDetail(n *document.Node) map[string]string {
	switch n.Kind() {
	case document.KindEvent:
		return map[string]string{"event": n.Title()}
	case document.KindFunctionEntry:
		return map[string]string{"entry_of": n.Graph().Name(), "scope": n.Graph().Scope()}
	case document.KindFunctionResult:
		return map[string]string{"result_of": n.Graph().Name(), "scope": n.Graph().Scope()}
	case document.KindCall:
		return map[string]string{"callee": n.Title()}
	case document.KindVariableGet:
		return map[string]string{"variable": n.Title(), "access": "get"}
	case document.KindVariableSet:
		return map[string]string{"variable": n.Title(), "access": "set"}
	case document.KindMacro:
		return map[string]string{"macro": n.Title()}
	case document.KindComment:
		return map[string]string{"comment": n.Title()}
	default:
		return map[string]string{"kind": string(n.Kind())}
	}
}

// viewGraph serializes a graph with all nodes and its signature.
func viewGraph(g *document.Graph) GraphView {
	view := GraphView{
		ID:        g.ID().String(),
		Name:      g.Name(),
		Kind:      string(g.Kind()),
		Scope:     g.Scope(),
		Signature: signature.Describe(g),
	}
	for _, n := range g.Nodes() {
		view.Nodes = append(view.Nodes, viewNode(n))
	}
	return view
}
