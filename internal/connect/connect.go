// Package connect validates and applies edges between resolved pins. It
// operates strictly on pins the resolver already produced; identifier
// handling never reaches this layer.
package connect

import (
	"context"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
)

// Compatibility is the slice of the type registry connection checks need.
type Compatibility interface {
	IsConvertible(from, to typedesc.Descriptor) bool
}

// Manager applies and breaks connections under the document's invariants.
type Manager struct {
	compat Compatibility
}

// NewManager creates a connection manager bound to a compatibility checker.
func NewManager(compat Compatibility) *Manager {
	return &Manager{compat: compat}
}

// Connect establishes the directed edge from an output pin to an input pin.
// Direction is checked first, then input occupancy, then type compatibility;
// only then is the symmetric edge recorded on both endpoints.
func (m *Manager) Connect(ctx context.Context, tx *document.Txn, source, target *document.Pin) error {
	logger := ctxlog.FromContext(ctx)

	if source.Direction() != document.Out || target.Direction() != document.In {
		return fault.New(fault.DirectionMismatch,
			"connections run output to input; got %s pin %q to %s pin %q",
			source.Direction(), source.Name(), target.Direction(), target.Name())
	}
	if source.IsSplit() || target.IsSplit() {
		return fault.New(fault.StructuralConflict,
			"a split pin holds no direct connections; connect its sub-pins instead")
	}

	// A non-execution input carries at most one edge. Execution inputs may
	// fan in, and any output may fan out.
	if !target.IsExec() && len(target.Connections()) > 0 {
		return fault.New(fault.AlreadyConnected,
			"input pin %q on node %q already carries a connection",
			target.Name(), target.Node().Name())
	}

	if source.IsExec() != target.IsExec() {
		return fault.New(fault.Incompatible,
			"cannot connect %s to %s: execution pins only connect to execution pins",
			source.Type(), target.Type())
	}
	if !m.compat.IsConvertible(source.Type(), target.Type()) {
		return fault.New(fault.Incompatible,
			"pin %q of type %s does not convert to pin %q of type %s",
			source.Name(), source.Type(), target.Name(), target.Type())
	}

	document.Link(tx, source, target)
	logger.Debug("Connected pins.",
		"source", source.Node().Name()+":"+source.Name(),
		"target", target.Node().Name()+":"+target.Name())
	return nil
}

// Disconnect removes every edge touching the pin and returns how many were
// broken. Disconnecting an unconnected pin is a no-op, not an error.
func (m *Manager) Disconnect(ctx context.Context, tx *document.Txn, pin *document.Pin) int {
	logger := ctxlog.FromContext(ctx)
	count := len(pin.Connections())
	for _, sub := range pin.SubPins() {
		count += len(sub.Connections())
	}
	document.BreakAll(tx, pin)
	if count > 0 {
		logger.Debug("Disconnected pin.", "pin", pin.Node().Name()+":"+pin.Name(), "edges", count)
	}
	return count
}

// DisconnectPair removes the single edge between two pins. It reports
// whether an edge existed; absence is a no-op.
func (m *Manager) DisconnectPair(ctx context.Context, tx *document.Txn, a, b *document.Pin) bool {
	if !a.ConnectedTo(b) {
		return false
	}
	document.Unlink(tx, a, b)
	return true
}
