// Package hostdoc declares the Host Document Store collaborator: the hosting
// editor owns persistence and compilation, and the engine only notifies it.
// The engine never serializes or compiles a document itself.
package hostdoc

import (
	"context"
	"sync/atomic"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
)

// Store is the narrow surface the engine holds onto the host.
type Store interface {
	// MarkStructurallyModified tells the host that connectivity, signature,
	// or node topology changed. Called once per mutating command.
	MarkStructurallyModified(ctx context.Context, doc *document.Document)
	// Recompile asks the host to recompile the document. Triggered only by
	// an explicit caller command, never per-edit.
	Recompile(ctx context.Context, doc *document.Document) error
}

// Recorder is an in-process Store that counts notifications. It backs the
// standalone server mode and the test suites.
type Recorder struct {
	modifications atomic.Int64
	recompiles    atomic.Int64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// MarkStructurallyModified implements Store.
func (r *Recorder) MarkStructurallyModified(ctx context.Context, doc *document.Document) {
	r.modifications.Add(1)
	ctxlog.FromContext(ctx).Debug("Document marked structurally modified.", "document", doc.Name())
}

// Recompile implements Store.
func (r *Recorder) Recompile(ctx context.Context, doc *document.Document) error {
	r.recompiles.Add(1)
	ctxlog.FromContext(ctx).Info("Document recompiled.", "document", doc.Name())
	return nil
}

// Modifications returns how many structural-modification notices were seen.
func (r *Recorder) Modifications() int64 { return r.modifications.Load() }

// Recompiles returns how many recompile requests were seen.
func (r *Recorder) Recompiles() int64 { return r.recompiles.Load() }
