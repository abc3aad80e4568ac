// Package signature manages a callable graph's declared interface: its
// parameters, return value, and local variables. Every mutation keeps the
// Signature list and the Entry/Result node pins in step, and returns the
// full freshly-serialized listing so callers reconcile state without a
// separate read.
package signature

import (
	"context"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
)

// Manager mutates graph signatures. Type strings are parsed through the
// injected descriptor parser; the manager holds no other state.
type Manager struct {
	parser *typedesc.Parser
}

// NewManager creates a signature manager around a descriptor parser.
func NewManager(parser *typedesc.Parser) *Manager {
	return &Manager{parser: parser}
}

// ParamUpdate carries the optional fields of an update operation. Nil
// fields stay untouched.
type ParamUpdate struct {
	NewName    *string
	NewType    *string
	NewDefault *string
	Const      *bool
	Reference  *bool
	Editable   *bool
}

// AddParameter declares a new parameter and creates its backing pins on the
// graph's Entry node (inputs) or Result nodes (out and return values).
func (m *Manager) AddParameter(ctx context.Context, tx *document.Txn, g *document.Graph, name, typeStr string, dir document.ParamDirection) (*Listing, error) {
	logger := ctxlog.FromContext(ctx)
	sig := g.Signature()

	if sig.FindParameter(name, dir) != nil {
		return nil, fault.New(fault.DuplicateName,
			"graph %q already declares a %s parameter named %q", g.Name(), dir, name)
	}
	if dir == document.ParamReturn && sig.ReturnParameter() != nil {
		return nil, fault.New(fault.DuplicateReturn,
			"graph %q already declares a return value", g.Name())
	}

	desc, err := m.parser.Parse(ctx, typeStr)
	if err != nil {
		return nil, err
	}

	param := &document.Parameter{
		Name:    name,
		Type:    desc,
		Dir:     dir,
		Default: desc.ZeroValue(),
		Flags:   document.Flags{Editable: true},
	}
	document.AddParameter(tx, sig, param)
	m.createParameterPins(tx, g, param)

	logger.Debug("Added parameter.", "graph", g.Name(), "name", name, "type", desc.String(), "direction", dir)
	return buildListing(g, true), nil
}

// RemoveParameter deletes a parameter and its backing pins. Return values
// are matched by role alone: the name is ignored for dir == return.
func (m *Manager) RemoveParameter(ctx context.Context, tx *document.Txn, g *document.Graph, name string, dir document.ParamDirection) (*Listing, error) {
	sig := g.Signature()
	param, err := m.locate(g, name, dir)
	if err != nil {
		return nil, err
	}

	m.removeParameterPins(tx, g, param)
	document.RemoveParameter(tx, sig, param)
	return buildListing(g, true), nil
}

// UpdateParameter applies an in-place update. Name and type changes retype
// or rename the backing pins.
func (m *Manager) UpdateParameter(ctx context.Context, tx *document.Txn, g *document.Graph, name string, dir document.ParamDirection, update ParamUpdate) (*Listing, error) {
	param, err := m.locate(g, name, dir)
	if err != nil {
		return nil, err
	}

	structural := false
	if update.NewType != nil {
		desc, err := m.parser.Parse(ctx, *update.NewType)
		if err != nil {
			return nil, err
		}
		prevType, prevDefault := param.Type, param.Default
		param.Type = desc
		param.Default = desc.ZeroValue()
		tx.Record(func() { param.Type, param.Default = prevType, prevDefault })
		for _, pin := range m.parameterPins(g, param.Name, param.Dir) {
			document.RetypePin(tx, pin, desc)
		}
		structural = true
	}
	if update.NewName != nil && *update.NewName != param.Name {
		if g.Signature().FindParameter(*update.NewName, param.Dir) != nil {
			return nil, fault.New(fault.DuplicateName,
				"graph %q already declares a %s parameter named %q", g.Name(), param.Dir, *update.NewName)
		}
		for _, pin := range m.parameterPins(g, param.Name, param.Dir) {
			document.RenamePin(tx, pin, *update.NewName)
		}
		prev := param.Name
		param.Name = *update.NewName
		tx.Record(func() { param.Name = prev })
		structural = true
	}
	if update.NewDefault != nil {
		value, err := typedesc.ParseValue(param.Type, *update.NewDefault)
		if err != nil {
			return nil, err
		}
		prev := param.Default
		param.Default = value
		tx.Record(func() { param.Default = prev })
		for _, pin := range m.parameterPins(g, param.Name, param.Dir) {
			document.SetPinDefault(tx, pin, value)
		}
	}
	applyFlagUpdates(tx, &param.Flags, update.Const, update.Reference, update.Editable)

	return buildListing(g, structural), nil
}

// locate finds the parameter an operation targets, honoring return-by-role.
func (m *Manager) locate(g *document.Graph, name string, dir document.ParamDirection) (*document.Parameter, error) {
	sig := g.Signature()
	if dir == document.ParamReturn {
		if ret := sig.ReturnParameter(); ret != nil {
			return ret, nil
		}
		return nil, fault.New(fault.NotFound, "graph %q declares no return value", g.Name())
	}
	if param := sig.FindParameter(name, dir); param != nil {
		return param, nil
	}
	return nil, fault.New(fault.NotFound,
		"graph %q has no %s parameter named %q", g.Name(), dir, name).
		WithDiagnostics(listParameters(g))
}

// createParameterPins mirrors a parameter onto the graph's boundary nodes.
// Inputs surface as outputs of the Entry node; out and return values
// surface as inputs of every Result node.
func (m *Manager) createParameterPins(tx *document.Txn, g *document.Graph, param *document.Parameter) {
	if param.Dir == document.ParamInput {
		if entry := g.EntryNode(); entry != nil {
			pin := document.AddPin(tx, entry, param.Name, document.Out, param.Type)
			document.SetPinDefault(tx, pin, param.Default)
		}
		return
	}
	for _, result := range g.ResultNodes() {
		pin := document.AddPin(tx, result, param.Name, document.In, param.Type)
		document.SetPinDefault(tx, pin, param.Default)
	}
}

// parameterPins finds the live backing pins of a parameter.
func (m *Manager) parameterPins(g *document.Graph, name string, dir document.ParamDirection) []*document.Pin {
	var pins []*document.Pin
	if dir == document.ParamInput {
		if entry := g.EntryNode(); entry != nil {
			if pin := entry.FindPin(name, document.Out); pin != nil {
				pins = append(pins, pin)
			}
		}
		return pins
	}
	for _, result := range g.ResultNodes() {
		if pin := result.FindPin(name, document.In); pin != nil {
			pins = append(pins, pin)
		}
	}
	return pins
}

// removeParameterPins severs and removes a parameter's backing pins.
func (m *Manager) removeParameterPins(tx *document.Txn, g *document.Graph, param *document.Parameter) {
	for _, pin := range m.parameterPins(g, param.Name, param.Dir) {
		document.RemovePin(tx, pin)
	}
}

func applyFlagUpdates(tx *document.Txn, flags *document.Flags, constFlag, reference, editable *bool) {
	prev := *flags
	changed := false
	if constFlag != nil {
		flags.Const = *constFlag
		changed = true
	}
	if reference != nil {
		flags.Reference = *reference
		changed = true
	}
	if editable != nil {
		flags.Editable = *editable
		changed = true
	}
	if changed {
		tx.Record(func() { *flags = prev })
	}
}
