package signature

import (
	"context"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
)

// LocalUpdate carries the optional fields of a local-variable update. Nil
// fields stay untouched.
type LocalUpdate struct {
	NewName    *string
	NewType    *string
	NewDefault *string
	Const      *bool
	Reference  *bool
	Editable   *bool
}

// AddLocal declares a new local variable on the graph's signature. Names
// are unique case-insensitively.
func (m *Manager) AddLocal(ctx context.Context, tx *document.Txn, g *document.Graph, name, typeStr, defaultStr string) (*Listing, error) {
	logger := ctxlog.FromContext(ctx)
	sig := g.Signature()

	if sig.FindLocal(name) != nil {
		return nil, fault.New(fault.DuplicateName,
			"graph %q already declares a local variable named %q", g.Name(), name)
	}

	desc, err := m.parser.Parse(ctx, typeStr)
	if err != nil {
		return nil, err
	}
	value, err := typedesc.ParseValue(desc, defaultStr)
	if err != nil {
		return nil, err
	}

	local := &document.LocalVariable{
		Name:    name,
		Type:    desc,
		Default: value,
		Flags:   document.Flags{Editable: true},
	}
	document.AddLocal(tx, sig, local)
	logger.Debug("Added local variable.", "graph", g.Name(), "name", name, "type", desc.String())
	return buildListing(g, true), nil
}

// RemoveLocal deletes a local variable by case-insensitive name.
func (m *Manager) RemoveLocal(ctx context.Context, tx *document.Txn, g *document.Graph, name string) (*Listing, error) {
	sig := g.Signature()
	local := sig.FindLocal(name)
	if local == nil {
		return nil, fault.New(fault.NotFound,
			"graph %q has no local variable named %q", g.Name(), name).
			WithDiagnostics(listLocals(g))
	}
	document.RemoveLocal(tx, sig, local)
	return buildListing(g, true), nil
}

// UpdateLocal applies an in-place update to a local variable. A type or
// name change is structural and the listing flags recompilation; a change
// to flags or default alone is cosmetic and does not.
func (m *Manager) UpdateLocal(ctx context.Context, tx *document.Txn, g *document.Graph, name string, update LocalUpdate) (*Listing, error) {
	sig := g.Signature()
	local := sig.FindLocal(name)
	if local == nil {
		return nil, fault.New(fault.NotFound,
			"graph %q has no local variable named %q", g.Name(), name).
			WithDiagnostics(listLocals(g))
	}

	structural := false
	if update.NewType != nil {
		desc, err := m.parser.Parse(ctx, *update.NewType)
		if err != nil {
			return nil, err
		}
		prevType, prevDefault := local.Type, local.Default
		local.Type = desc
		local.Default = desc.ZeroValue()
		tx.Record(func() { local.Type, local.Default = prevType, prevDefault })
		structural = true
	}
	if update.NewName != nil && *update.NewName != local.Name {
		if existing := sig.FindLocal(*update.NewName); existing != nil && existing != local {
			return nil, fault.New(fault.DuplicateName,
				"graph %q already declares a local variable named %q", g.Name(), *update.NewName)
		}
		prev := local.Name
		local.Name = *update.NewName
		tx.Record(func() { local.Name = prev })
		structural = true
	}
	if update.NewDefault != nil {
		value, err := typedesc.ParseValue(local.Type, *update.NewDefault)
		if err != nil {
			return nil, err
		}
		prev := local.Default
		local.Default = value
		tx.Record(func() { local.Default = prev })
	}
	applyFlagUpdates(tx, &local.Flags, update.Const, update.Reference, update.Editable)

	return buildListing(g, structural), nil
}
