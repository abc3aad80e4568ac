package engine

import (
	"context"
	"fmt"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/resolve"
	"github.com/vk/graphforge/internal/typedesc"
)

var nodeKinds = map[string]document.NodeKind{
	"event":           document.KindEvent,
	"function_entry":  document.KindFunctionEntry,
	"function_result": document.KindFunctionResult,
	"call":            document.KindCall,
	"variable_get":    document.KindVariableGet,
	"variable_set":    document.KindVariableSet,
	"macro":           document.KindMacro,
	"comment":         document.KindComment,
}

// AddNode creates a node in the scoped graph. The node receives the default
// execution pins of its kind; data pins arrive later through signature or
// connection commands.
func (e *Engine) AddNode(ctx context.Context, scope GraphScope, kindStr, title string, x, y float64) Result {
	g, err := e.resolveGraph(scope)
	if err != nil {
		return failure("add node", err)
	}
	kind, ok := nodeKinds[kindStr]
	if !ok {
		return failure("add node", fault.New(fault.ParseError, "unknown node kind %q", kindStr))
	}

	tx := e.doc.Begin()
	defer tx.Rollback()

	name := fmt.Sprintf("%s_%d", sanitizeName(title), e.nextNameOrdinal(g, title))
	n := document.NewNode(tx, g, kind, name, title, document.Position{X: x, Y: y})
	addDefaultPins(tx, n)

	tx.Commit()
	e.markModified(ctx)
	ctxlog.FromContext(ctx).Info("Added node.", "graph", g.Name(), "node", n.Name(), "kind", kind)
	return success(viewNode(n))
}

// RemoveNode deletes a node after severing every edge touching its pins.
func (e *Engine) RemoveNode(ctx context.Context, scope GraphScope, nodeToken string) Result {
	graphs, err := e.candidates(scope)
	if err != nil {
		return failure("remove node", err)
	}
	n, err := resolve.Node(ctx, graphs, nodeToken)
	if err != nil {
		return failure("remove node", err)
	}

	tx := e.doc.Begin()
	defer tx.Rollback()
	document.RemoveNode(tx, n)
	tx.Commit()

	e.markModified(ctx)
	ctxlog.FromContext(ctx).Info("Removed node.", "node", n.Name())
	return success(map[string]string{"removed": n.ID().String(), "name": n.Name()})
}

// MoveNode repositions a node on the canvas.
func (e *Engine) MoveNode(ctx context.Context, scope GraphScope, nodeToken string, x, y float64) Result {
	graphs, err := e.candidates(scope)
	if err != nil {
		return failure("move node", err)
	}
	n, err := resolve.Node(ctx, graphs, nodeToken)
	if err != nil {
		return failure("move node", err)
	}

	tx := e.doc.Begin()
	defer tx.Rollback()
	document.MoveNode(tx, n, document.Position{X: x, Y: y})
	tx.Commit()

	e.markModified(ctx)
	return success(viewNode(n))
}

// DescribeNode returns the full serialized view of one node.
func (e *Engine) DescribeNode(ctx context.Context, scope GraphScope, nodeToken string) Result {
	graphs, err := e.candidates(scope)
	if err != nil {
		return failure("describe node", err)
	}
	n, err := resolve.Node(ctx, graphs, nodeToken)
	if err != nil {
		return failure("describe node", err)
	}
	return success(viewNode(n))
}

// ListNodes returns a compact listing of every node in the scoped graph.
func (e *Engine) ListNodes(ctx context.Context, scope GraphScope) Result {
	g, err := e.resolveGraph(scope)
	if err != nil {
		return failure("list nodes", err)
	}
	views := make([]NodeView, 0, len(g.Nodes()))
	for _, n := range g.Nodes() {
		views = append(views, viewNode(n))
	}
	return success(views)
}

// DescribeGraph returns the scoped graph with its nodes and signature.
func (e *Engine) DescribeGraph(ctx context.Context, scope GraphScope) Result {
	g, err := e.resolveGraph(scope)
	if err != nil {
		return failure("describe graph", err)
	}
	return success(viewGraph(g))
}

// CreateGraph adds a named function or macro graph. Function graphs start
// with an Entry and a Result node wired for execution flow.
func (e *Engine) CreateGraph(ctx context.Context, kindStr, name string) Result {
	var kind document.GraphKind
	switch kindStr {
	case "function":
		kind = document.FunctionGraph
	case "macro":
		kind = document.MacroGraph
	case "event":
		kind = document.EventGraph
	default:
		return failure("create graph", fault.New(fault.ParseError, "unknown graph kind %q", kindStr))
	}

	g, err := e.doc.AddGraph(kind, name)
	if err != nil {
		return failure("create graph", err)
	}

	if kind == document.FunctionGraph {
		entry := g.NewNode(document.KindFunctionEntry, name+"_Entry", name, document.Position{})
		entry.AddPin("Then", document.Out, typedesc.ScalarOf(typedesc.Exec))
		result := g.NewNode(document.KindFunctionResult, name+"_Result", "Return Node", document.Position{X: 600})
		result.AddPin("Exec", document.In, typedesc.ScalarOf(typedesc.Exec))
	}

	e.markModified(ctx)
	ctxlog.FromContext(ctx).Info("Created graph.", "graph", name, "kind", kind)
	return success(viewGraph(g))
}

// DeleteGraph removes a named graph; targeting a missing graph is a
// structural conflict, not a no-op.
func (e *Engine) DeleteGraph(ctx context.Context, name string) Result {
	if g := e.doc.GraphNamed(document.EventGraph, name); g != nil {
		events := 0
		for _, other := range e.doc.Graphs() {
			if other.Kind() == document.EventGraph {
				events++
			}
		}
		if events == 1 {
			return failure("delete graph", fault.New(fault.StructuralConflict,
				"%q is the document's only event graph and cannot be deleted", name))
		}
	}
	if err := e.doc.RemoveGraph(name); err != nil {
		return failure("delete graph", err)
	}
	e.markModified(ctx)
	return success(map[string]string{"removed": name})
}

// addDefaultPins seeds the execution pins a fresh node of each kind starts
// with.
func addDefaultPins(tx *document.Txn, n *document.Node) {
	exec := typedesc.ScalarOf(typedesc.Exec)
	switch n.Kind() {
	case document.KindEvent, document.KindFunctionEntry:
		document.AddPin(tx, n, "Then", document.Out, exec)
	case document.KindFunctionResult:
		document.AddPin(tx, n, "Exec", document.In, exec)
	case document.KindCall, document.KindMacro, document.KindVariableSet:
		document.AddPin(tx, n, "Exec", document.In, exec)
		document.AddPin(tx, n, "Then", document.Out, exec)
	case document.KindVariableGet, document.KindComment:
		// Pure nodes carry no execution pins.
	}
}

// sanitizeName turns a display title into an object-name stem.
func sanitizeName(title string) string {
	stem := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case r == ' ':
			// dropped
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_':
			stem = append(stem, r)
		}
	}
	if len(stem) == 0 {
		return "Node"
	}
	return string(stem)
}

// nextNameOrdinal picks the ordinal that keeps generated object names
// unique within a graph.
func (e *Engine) nextNameOrdinal(g *document.Graph, title string) int {
	stem := sanitizeName(title)
	ordinal := 0
	for {
		candidate := fmt.Sprintf("%s_%d", stem, ordinal)
		taken := false
		for _, n := range g.Nodes() {
			if n.Name() == candidate {
				taken = true
				break
			}
		}
		if !taken {
			return ordinal
		}
		ordinal++
	}
}
