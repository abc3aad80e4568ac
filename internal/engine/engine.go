// Package engine is the mutation façade over the graph document. It resolves
// a graph scope and caller identifiers, dispatches to the connection, pin
// transform, and signature managers, wraps every mutating command in one
// transaction, and notifies the host after structural changes. Components
// below this layer never see raw identifiers; callers above it never see
// document internals.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vk/graphforge/internal/connect"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/hostdoc"
	"github.com/vk/graphforge/internal/pintransform"
	"github.com/vk/graphforge/internal/resolve"
	"github.com/vk/graphforge/internal/signature"
	"github.com/vk/graphforge/internal/typedesc"
	"github.com/vk/graphforge/internal/typeregistry"
)

// Engine drives one document for one session. It is single-threaded and
// synchronous; every operation runs to completion on the caller's thread.
type Engine struct {
	doc    *document.Document
	reg    *typeregistry.Registry
	parser *typedesc.Parser
	conns  *connect.Manager
	pins   *pintransform.Engine
	sigs   *signature.Manager
	host   hostdoc.Store
}

// New assembles an engine around a document, a type registry, and the host
// store.
func New(doc *document.Document, reg *typeregistry.Registry, host hostdoc.Store) *Engine {
	parser := typedesc.NewParser(reg, reg.Aliases())
	return &Engine{
		doc:    doc,
		reg:    reg,
		parser: parser,
		conns:  connect.NewManager(reg),
		pins:   pintransform.NewEngine(reg),
		sigs:   signature.NewManager(parser),
		host:   host,
	}
}

// Document returns the session's document.
func (e *Engine) Document() *document.Document { return e.doc }

// GraphScope selects the callable graph a command targets.
type GraphScope struct {
	// Scope is event, function, or macro. Empty means event.
	Scope string `json:"scope,omitempty"`
	// Name selects a function or macro graph by name.
	Name string `json:"name,omitempty"`
	// GraphID selects any graph by unique id and overrides Scope/Name.
	GraphID string `json:"graph_id,omitempty"`
}

// ErrorPayload is the serialized form of a failure.
type ErrorPayload struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Diagnostics string `json:"diagnostics,omitempty"`
}

// Result is the envelope every façade operation returns.
type Result struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// success wraps a payload.
func success(data any) Result {
	return Result{Success: true, Data: data}
}

// failure forwards the innermost typed fault plus a command-level context
// string; component errors are never downgraded on the way out.
func failure(command string, err error) Result {
	kind := fault.KindOf(err)
	if kind == "" {
		kind = fault.StructuralConflict
	}
	return Result{Success: false, Error: &ErrorPayload{
		Kind:        string(kind),
		Message:     fmt.Sprintf("%s: %v", command, err),
		Diagnostics: fault.DiagnosticsOf(err),
	}}
}

// resolveGraph maps a scope descriptor onto a concrete graph.
func (e *Engine) resolveGraph(scope GraphScope) (*document.Graph, error) {
	if scope.GraphID != "" {
		id, err := uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(scope.GraphID, "{"), "}"))
		if err != nil {
			return nil, fault.Wrap(fault.StructuralConflict, err, "invalid graph id %q", scope.GraphID)
		}
		if g := e.doc.GraphByID(id); g != nil {
			return g, nil
		}
		return nil, fault.New(fault.StructuralConflict, "no graph with id %q exists", scope.GraphID).
			WithDiagnostics(e.listGraphs())
	}

	switch scope.Scope {
	case "", "event":
		if scope.Name != "" {
			if g := e.doc.GraphNamed(document.EventGraph, scope.Name); g != nil {
				return g, nil
			}
			return nil, fault.New(fault.StructuralConflict, "no event graph named %q exists", scope.Name).
				WithDiagnostics(e.listGraphs())
		}
		if g := e.doc.DefaultEventGraph(); g != nil {
			return g, nil
		}
		return nil, fault.New(fault.StructuralConflict, "document has no event graph").
			WithDiagnostics(e.listGraphs())
	case "function":
		if g := e.doc.GraphNamed(document.FunctionGraph, scope.Name); g != nil {
			return g, nil
		}
		return nil, fault.New(fault.StructuralConflict, "no function graph named %q exists", scope.Name).
			WithDiagnostics(e.listGraphs())
	case "macro":
		if g := e.doc.GraphNamed(document.MacroGraph, scope.Name); g != nil {
			return g, nil
		}
		return nil, fault.New(fault.StructuralConflict, "no macro graph named %q exists", scope.Name).
			WithDiagnostics(e.listGraphs())
	default:
		return nil, fault.New(fault.StructuralConflict, "unknown graph scope %q", scope.Scope)
	}
}

// candidates builds the resolver's candidate-graph list for a scope.
func (e *Engine) candidates(scope GraphScope) ([]*document.Graph, error) {
	preferred, err := e.resolveGraph(scope)
	if err != nil {
		return nil, err
	}
	return resolve.Candidates(e.doc, preferred), nil
}

// listGraphs renders the document's graphs for scope diagnostics.
func (e *Engine) listGraphs() string {
	var sb strings.Builder
	sb.WriteString("graphs in document:\n")
	for _, g := range e.doc.Graphs() {
		fmt.Fprintf(&sb, "  [%s] %s id=%s\n", g.Kind(), g.Name(), g.ID())
	}
	return sb.String()
}

// markModified notifies the host once after a committed structural change.
func (e *Engine) markModified(ctx context.Context) {
	e.host.MarkStructurallyModified(ctx, e.doc)
}

// Recompile asks the host to recompile the whole document. Callers trigger
// this once after a batch of structural edits, never per-edit.
func (e *Engine) Recompile(ctx context.Context) Result {
	if err := e.host.Recompile(ctx, e.doc); err != nil {
		return failure("recompile", err)
	}
	return success(map[string]string{"document": e.doc.Name(), "status": "recompiled"})
}
