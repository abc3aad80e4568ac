package document

// Journaled structural mutation primitives. Every helper applies its change
// immediately and records the inverse on the transaction, so a command that
// fails downstream can unwind without the document noticing. None of these
// validate anything; validation is the job of the managers calling them.

import (
	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/graphforge/internal/typedesc"
)

// link establishes the symmetric edge without journaling.
func link(a, b *Pin) {
	if a.ConnectedTo(b) {
		return
	}
	a.links = append(a.links, b)
	b.links = append(b.links, a)
}

// unlink removes the symmetric edge without journaling.
func unlink(a, b *Pin) {
	a.links = removePinFrom(a.links, b)
	b.links = removePinFrom(b.links, a)
}

func removePinFrom(list []*Pin, target *Pin) []*Pin {
	for i, p := range list {
		if p == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Link creates the edge between an output and an input pin on both sides.
func Link(tx *Txn, out, in *Pin) {
	link(out, in)
	tx.Record(func() { unlink(out, in) })
}

// Unlink removes the edge between two pins on both sides. No-op when the
// edge does not exist.
func Unlink(tx *Txn, a, b *Pin) {
	if !a.ConnectedTo(b) {
		return
	}
	unlink(a, b)
	tx.Record(func() { link(a, b) })
}

// BreakAll removes every edge touching the pin, including edges held by its
// sub-pins.
func BreakAll(tx *Txn, p *Pin) {
	for _, other := range append([]*Pin(nil), p.links...) {
		Unlink(tx, p, other)
	}
	for _, sub := range p.subPins {
		BreakAll(tx, sub)
	}
}

// NewNode creates a node inside the transaction; rollback removes it again.
func NewNode(tx *Txn, g *Graph, kind NodeKind, name, title string, pos Position) *Node {
	n := g.NewNode(kind, name, title, pos)
	tx.Record(func() { g.detachNode(n) })
	return n
}

// RemoveNode severs all of the node's edges, scrubs its pins from every
// parked-link stash in the document, and detaches it from its graph.
func RemoveNode(tx *Txn, n *Node) {
	for _, p := range n.pins {
		BreakAll(tx, p)
	}
	scrubStashes(tx, n)
	g := n.graph
	if g.detachNode(n) {
		tx.Record(func() { g.reattachNode(n) })
	}
}

// scrubStashes drops the node's pins from savedLinks stashes everywhere,
// so recombining a split pin cannot resurrect an edge to a removed node.
func scrubStashes(tx *Txn, n *Node) {
	removed := make(map[*Pin]bool)
	for _, p := range n.pins {
		collectPins(p, removed)
	}
	for _, g := range n.graph.doc.graphs {
		for _, other := range g.nodes {
			if other == n {
				continue
			}
			for _, p := range other.pins {
				scrubPinStash(tx, p, removed)
			}
		}
	}
}

func collectPins(p *Pin, set map[*Pin]bool) {
	set[p] = true
	for _, sub := range p.subPins {
		collectPins(sub, set)
	}
}

func scrubPinStash(tx *Txn, p *Pin, removed map[*Pin]bool) {
	dirty := false
	for _, far := range p.savedLinks {
		if removed[far] {
			dirty = true
			break
		}
	}
	if dirty {
		prev := p.savedLinks
		kept := make([]*Pin, 0, len(prev))
		for _, far := range prev {
			if !removed[far] {
				kept = append(kept, far)
			}
		}
		p.savedLinks = kept
		tx.Record(func() { p.savedLinks = prev })
	}
	for _, sub := range p.subPins {
		scrubPinStash(tx, sub, removed)
	}
}

// MoveNode repositions a node on the canvas.
func MoveNode(tx *Txn, n *Node, pos Position) {
	prev := n.pos
	n.pos = pos
	tx.Record(func() { n.pos = prev })
}

// AddPin appends a pin to a node inside the transaction.
func AddPin(tx *Txn, n *Node, name string, dir Direction, desc typedesc.Descriptor) *Pin {
	p := n.AddPin(name, dir, desc)
	tx.Record(func() { n.removePin(p) })
	return p
}

// RemovePin severs the pin's edges and detaches it from its node, keeping
// its position for rollback.
func RemovePin(tx *Txn, p *Pin) {
	BreakAll(tx, p)
	n := p.node
	index := n.pinIndex(p)
	if n.removePin(p) {
		tx.Record(func() { n.insertPin(p, index) })
	}
}

// RenamePin changes a pin's name.
func RenamePin(tx *Txn, p *Pin, name string) {
	prev := p.name
	p.name = name
	tx.Record(func() { p.name = prev })
}

// RetypePin changes a pin's type descriptor and resets its default to the
// new type's zero value.
func RetypePin(tx *Txn, p *Pin, desc typedesc.Descriptor) {
	prevDesc, prevDef := p.desc, p.def
	p.desc = desc
	p.def = desc.ZeroValue()
	tx.Record(func() { p.desc, p.def = prevDesc, prevDef })
}

// SetPinDefault changes a pin's default value.
func SetPinDefault(tx *Txn, p *Pin, v cty.Value) {
	prev := p.def
	p.def = v
	tx.Record(func() { p.def = prev })
}

// AddSubPin attaches a sub-pin to a split parent. The sub-pin inherits the
// parent's node and direction.
func AddSubPin(tx *Txn, parent *Pin, name string, desc typedesc.Descriptor, def cty.Value) *Pin {
	sub := &Pin{
		node:   parent.node,
		id:     uuid.New(),
		name:   name,
		dir:    parent.dir,
		desc:   desc,
		def:    def,
		parent: parent,
	}
	parent.subPins = append(parent.subPins, sub)
	tx.Record(func() { parent.subPins = removePinFrom(parent.subPins, sub) })
	return sub
}

// ClearSubPins severs every sub-pin edge and removes the sub-pins from the
// parent, destroying them per the ownership invariant.
func ClearSubPins(tx *Txn, parent *Pin) {
	for _, sub := range parent.subPins {
		BreakAll(tx, sub)
	}
	prev := parent.subPins
	parent.subPins = nil
	tx.Record(func() { parent.subPins = prev })
}

// StashLinks severs the pin's live edges and parks their far ends on the
// pin, so a later recombine can put them back. A split parent holds no
// direct connections while its sub-pins exist.
func StashLinks(tx *Txn, p *Pin) {
	stashed := append([]*Pin(nil), p.links...)
	for _, other := range stashed {
		Unlink(tx, p, other)
	}
	prev := p.savedLinks
	p.savedLinks = stashed
	tx.Record(func() { p.savedLinks = prev })
}

// RestoreLinks re-establishes the edges stashed by StashLinks and clears
// the stash.
func RestoreLinks(tx *Txn, p *Pin) {
	stashed := p.savedLinks
	p.savedLinks = nil
	tx.Record(func() { p.savedLinks = stashed })
	for _, other := range stashed {
		Link(tx, p, other)
	}
}
