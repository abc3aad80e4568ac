// Package pintransform splits composite-typed pins into per-field sub-pins
// and recombines them. Both directions run inside the caller's transaction
// and report a per-pin outcome, so batched requests can tell "nothing to do"
// apart from "done" and from "failed".
package pintransform

import (
	"context"
	"fmt"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
	"github.com/vk/graphforge/internal/typeregistry"
)

// Outcome is the per-pin result of a transform.
type Outcome string

const (
	// Applied means the pin changed.
	Applied Outcome = "applied"
	// Noop means the pin was already in the requested state.
	Noop Outcome = "noop"
	// Failed means the pin could not be transformed; the document is
	// unchanged for that pin.
	Failed Outcome = "failed"
)

// ItemResult is the outcome for one pin of a batch.
type ItemResult struct {
	Pin     string  `json:"pin"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message,omitempty"`
}

// BatchResult aggregates per-pin outcomes. Success is true only if no pin
// failed; a batch of pure no-ops is still a success.
type BatchResult struct {
	Items   []ItemResult `json:"items"`
	Success bool         `json:"success"`
}

// Add records one item and updates the aggregate flag.
func (b *BatchResult) Add(pin string, outcome Outcome, message string) {
	b.Items = append(b.Items, ItemResult{Pin: pin, Outcome: outcome, Message: message})
	b.Success = b.Success && outcome != Failed
}

// NewBatchResult creates an empty, so-far-successful batch.
func NewBatchResult() *BatchResult {
	return &BatchResult{Success: true}
}

// StructLayout is the slice of the type registry the engine needs.
type StructLayout interface {
	Splittable(desc typedesc.Descriptor) bool
	StructFields(desc typedesc.Descriptor) ([]typeregistry.Field, bool)
}

// Engine performs pin transforms against a struct-layout source.
type Engine struct {
	layouts StructLayout
}

// NewEngine creates a pin transform engine.
func NewEngine(layouts StructLayout) *Engine {
	return &Engine{layouts: layouts}
}

// Split breaks a composite pin into one sub-pin per struct field, named
// parent_field. The parent's live edges are parked until a recombine. An
// already-split pin reports Noop; a non-composite pin fails NotSplittable.
func (e *Engine) Split(ctx context.Context, tx *document.Txn, pin *document.Pin) (Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	if pin.IsSplit() {
		return Noop, nil
	}
	if !e.layouts.Splittable(pin.Type()) {
		return Failed, fault.New(fault.NotSplittable,
			"pin %q of type %s is not a splittable composite", pin.Name(), pin.Type())
	}

	fields, _ := e.layouts.StructFields(pin.Type())
	document.StashLinks(tx, pin)
	for _, field := range fields {
		name := fmt.Sprintf("%s_%s", pin.Name(), field.Name)
		document.AddSubPin(tx, pin, name, field.Type, field.Type.ZeroValue())
	}
	logger.Debug("Split pin.", "pin", pin.Name(), "sub_pins", len(fields))
	return Applied, nil
}

// Recombine collapses a split pin back into its composite form. A sub-pin
// reference is accepted and redirected to its parent. Sub-pins are
// destroyed, their edges severed, and the parent's pre-split edges return.
// A pin with no sub-pins reports Noop.
func (e *Engine) Recombine(ctx context.Context, tx *document.Txn, pin *document.Pin) (Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	target := pin
	if parent := pin.Parent(); parent != nil {
		target = parent
	}
	if !target.IsSplit() {
		return Noop, nil
	}

	document.ClearSubPins(tx, target)
	document.RestoreLinks(tx, target)
	logger.Debug("Recombined pin.", "pin", target.Name())
	return Applied, nil
}
