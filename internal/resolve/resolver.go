// Package resolve maps loosely-specified caller identifiers onto concrete
// nodes and pins. Callers rarely hold exact persistent ids, so resolution
// accepts several identifier shapes and tries them in a fixed priority
// order. Resolution is always fresh; nothing here caches across calls,
// since any prior command may have mutated the document.
package resolve

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
)

// Candidates builds the ordered candidate-graph list: the preferred graph
// first, then every other graph in document order. Callers must know this
// ordering is part of the contract: resolution stops at the first hit.
func Candidates(doc *document.Document, preferred *document.Graph) []*document.Graph {
	graphs := make([]*document.Graph, 0, len(doc.Graphs()))
	if preferred != nil {
		graphs = append(graphs, preferred)
	}
	for _, g := range doc.Graphs() {
		if g != preferred {
			graphs = append(graphs, g)
		}
	}
	return graphs
}

// Node resolves a node identifier against the candidate graphs. Identifier
// shapes, in priority order: (1) unique id, tolerant of braces and missing
// hyphens; (2) exact object name; (3) numeric handle; (4) exact display
// title. Each shape is tried across the whole candidate list before the
// next, so an id match always outranks a name match in a later graph.
func Node(ctx context.Context, graphs []*document.Graph, token string) (*document.Node, error) {
	logger := ctxlog.FromContext(ctx)
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, notFoundNode(graphs, token)
	}

	if id, ok := parseNodeID(token); ok {
		for _, g := range graphs {
			for _, n := range g.Nodes() {
				if n.ID() == id {
					logger.Debug("Resolved node by unique id.", "token", token, "node", n.Name())
					return n, nil
				}
			}
		}
	}

	for _, g := range graphs {
		for _, n := range g.Nodes() {
			if n.Name() == token {
				logger.Debug("Resolved node by object name.", "token", token)
				return n, nil
			}
		}
	}

	if handle, err := strconv.Atoi(token); err == nil {
		for _, g := range graphs {
			for _, n := range g.Nodes() {
				if n.Handle() == handle {
					logger.Debug("Resolved node by numeric handle.", "token", token)
					return n, nil
				}
			}
		}
	}

	for _, g := range graphs {
		for _, n := range g.Nodes() {
			if n.Title() == token {
				logger.Debug("Resolved node by display title.", "token", token)
				return n, nil
			}
		}
	}

	return nil, notFoundNode(graphs, token)
}

// Pin resolves a pin identifier against the candidate graphs. The token is
// either an opaque persistent pin id, or the composite form
// `<nodeToken>:<pinName>`.
func Pin(ctx context.Context, graphs []*document.Graph, token string) (*document.Pin, error) {
	token = strings.TrimSpace(token)

	if nodeToken, pinName, ok := strings.Cut(token, ":"); ok {
		node, err := Node(ctx, graphs, nodeToken)
		if err != nil {
			return nil, err
		}
		return PinOnNode(ctx, node, pinName)
	}

	if id, ok := parseNodeID(token); ok {
		for _, g := range graphs {
			for _, n := range g.Nodes() {
				if p := pinByID(n, id); p != nil {
					return p, nil
				}
			}
		}
	}

	return nil, fault.New(fault.NotFound, "no pin matches identifier %q", token).
		WithDiagnostics(listNodes(graphs))
}

// PinOnNode resolves a pin name on an already-resolved node. Exact id or
// name first, then a case-insensitive name match, and as a last resort the
// text before the final underscore is matched against a split parent pin
// whose sub-pins are then searched (sub-pins are named parent_field).
func PinOnNode(ctx context.Context, n *document.Node, name string) (*document.Pin, error) {
	logger := ctxlog.FromContext(ctx)
	name = strings.TrimSpace(name)

	if id, ok := parseNodeID(name); ok {
		if p := pinByID(n, id); p != nil {
			return p, nil
		}
	}

	for _, p := range allPins(n) {
		if p.Name() == name {
			return p, nil
		}
	}
	for _, p := range allPins(n) {
		if strings.EqualFold(p.Name(), name) {
			logger.Debug("Resolved pin by case-insensitive name.", "node", n.Name(), "pin", p.Name())
			return p, nil
		}
	}

	if cut := strings.LastIndex(name, "_"); cut > 0 {
		parentName := name[:cut]
		for _, p := range n.Pins() {
			if !strings.EqualFold(p.Name(), parentName) {
				continue
			}
			for _, sub := range p.SubPins() {
				if strings.EqualFold(sub.Name(), name) {
					logger.Debug("Resolved sub-pin through split parent.", "node", n.Name(), "pin", sub.Name())
					return sub, nil
				}
			}
		}
	}

	return nil, fault.New(fault.NotFound, "node %q has no pin named %q", n.Name(), name).
		WithDiagnostics(listPins(n))
}

// parseNodeID parses an identifier as a uuid, tolerating braces and
// hyphen-free forms.
func parseNodeID(token string) (uuid.UUID, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// pinByID searches a node's pins and sub-pins for a persistent pin token.
func pinByID(n *document.Node, id uuid.UUID) *document.Pin {
	for _, p := range allPins(n) {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// allPins lists a node's pins followed by every sub-pin.
func allPins(n *document.Node) []*document.Pin {
	pins := append([]*document.Pin(nil), n.Pins()...)
	for _, p := range n.Pins() {
		pins = append(pins, p.SubPins()...)
	}
	return pins
}

// notFoundNode builds the NotFound fault with the candidate listing that is
// part of the resolver's error contract.
func notFoundNode(graphs []*document.Graph, token string) error {
	return fault.New(fault.NotFound, "no node matches identifier %q", token).
		WithDiagnostics(listNodes(graphs))
}

// listNodes renders every candidate node so a caller can correct its
// request and retry.
func listNodes(graphs []*document.Graph) string {
	var sb strings.Builder
	sb.WriteString("candidate nodes:\n")
	for _, g := range graphs {
		for _, n := range g.Nodes() {
			fmt.Fprintf(&sb, "  %s (%q) id=%s handle=%d graph=%s\n",
				n.Name(), n.Title(), n.ID(), n.Handle(), g.Name())
		}
	}
	return sb.String()
}

// listPins renders a node's pins, including sub-pins of split pins.
func listPins(n *document.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pins on node %s:\n", n.Name())
	for _, p := range n.Pins() {
		fmt.Fprintf(&sb, "  [%s] %s: %s\n", p.Direction(), p.Name(), p.Type())
		for _, sub := range p.SubPins() {
			fmt.Fprintf(&sb, "  [%s] %s: %s (split from %s)\n", sub.Direction(), sub.Name(), sub.Type(), p.Name())
		}
	}
	return sb.String()
}
