package signature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
	"github.com/vk/graphforge/internal/typeregistry"
)

func fixture(t *testing.T) (*document.Document, *document.Graph, *Manager) {
	t.Helper()
	doc := document.New("BP_Character")
	fn, err := doc.AddGraph(document.FunctionGraph, "ComputeDamage")
	require.NoError(t, err)
	entry := fn.NewNode(document.KindFunctionEntry, "ComputeDamage_Entry", "Compute Damage", document.Position{})
	entry.AddPin("Then", document.Out, typedesc.ScalarOf(typedesc.Exec))
	result := fn.NewNode(document.KindFunctionResult, "ComputeDamage_Result", "Return Node", document.Position{X: 400})
	result.AddPin("Exec", document.In, typedesc.ScalarOf(typedesc.Exec))

	reg := typeregistry.NewBuiltin()
	parser := typedesc.NewParser(reg, reg.Aliases())
	return doc, fn, NewManager(parser)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestAddParameterCreatesEntryPin(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	listing, err := m.AddParameter(ctx, tx, fn, "Speed", "float", document.ParamInput)
	require.NoError(t, err)
	tx.Commit()

	require.Len(t, listing.Parameters, 1)
	assert.Equal(t, "Speed", listing.Parameters[0].Name)
	assert.Equal(t, "float", listing.Parameters[0].Type)
	assert.True(t, listing.RecompileNeeded)

	entryPin := fn.EntryNode().FindPin("Speed", document.Out)
	require.NotNil(t, entryPin, "input parameters surface as Entry outputs")
	assert.True(t, entryPin.Type().Equal(typedesc.ScalarOf(typedesc.Float)))
}

func TestAddParameterDuplicateNameKeepsFirst(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddParameter(ctx, tx, fn, "Speed", "float", document.ParamInput)
	require.NoError(t, err)
	tx.Commit()

	tx = doc.Begin()
	_, err = m.AddParameter(ctx, tx, fn, "Speed", "int", document.ParamInput)
	require.Error(t, err)
	assert.Equal(t, fault.DuplicateName, fault.KindOf(err))
	tx.Rollback()

	params := fn.Signature().Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, "Speed", params[0].Name)
	assert.True(t, params[0].Type.Equal(typedesc.ScalarOf(typedesc.Float)),
		"the original float parameter survives the rejected duplicate")
}

func TestAddSecondReturnFails(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddParameter(ctx, tx, fn, "Damage", "float", document.ParamReturn)
	require.NoError(t, err)

	_, err = m.AddParameter(ctx, tx, fn, "Other", "int", document.ParamReturn)
	require.Error(t, err)
	assert.Equal(t, fault.DuplicateReturn, fault.KindOf(err))
	tx.Commit()

	resultPin := fn.ResultNodes()[0].FindPin("Damage", document.In)
	assert.NotNil(t, resultPin, "return values surface as Result inputs")
}

func TestRemoveReturnMatchesByRoleNotName(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddParameter(ctx, tx, fn, "Damage", "float", document.ParamReturn)
	require.NoError(t, err)
	tx.Commit()

	tx = doc.Begin()
	listing, err := m.RemoveParameter(ctx, tx, fn, "CompletelyDifferentName", document.ParamReturn)
	require.NoError(t, err)
	tx.Commit()

	assert.Empty(t, listing.Parameters)
	assert.Nil(t, fn.ResultNodes()[0].FindPin("Damage", document.In))
}

func TestRemoveParameterNotFound(t *testing.T) {
	doc, fn, m := fixture(t)

	tx := doc.Begin()
	defer tx.Rollback()

	_, err := m.RemoveParameter(context.Background(), tx, fn, "Ghost", document.ParamInput)
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}

func TestUpdateParameterTypeIsStructural(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddParameter(ctx, tx, fn, "Speed", "float", document.ParamInput)
	require.NoError(t, err)
	tx.Commit()

	tx = doc.Begin()
	listing, err := m.UpdateParameter(ctx, tx, fn, "Speed", document.ParamInput, ParamUpdate{
		NewType: strPtr("vector"),
	})
	require.NoError(t, err)
	tx.Commit()

	assert.True(t, listing.RecompileNeeded)
	assert.Equal(t, "struct:Vector", listing.Parameters[0].Type)
	pin := fn.EntryNode().FindPin("Speed", document.Out)
	require.NotNil(t, pin)
	assert.True(t, pin.Type().Equal(typedesc.Reference(typedesc.RefStruct, "Vector")))
}

func TestUpdateParameterFlagsIsCosmetic(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddParameter(ctx, tx, fn, "Speed", "float", document.ParamInput)
	require.NoError(t, err)
	tx.Commit()

	tx = doc.Begin()
	listing, err := m.UpdateParameter(ctx, tx, fn, "Speed", document.ParamInput, ParamUpdate{
		Const:      boolPtr(true),
		NewDefault: strPtr("4.5"),
	})
	require.NoError(t, err)
	tx.Commit()

	assert.False(t, listing.RecompileNeeded, "flag and default edits do not require recompilation")
	assert.True(t, listing.Parameters[0].Const)
	assert.Equal(t, "4.5", listing.Parameters[0].Default)
}

func TestLocalVariablesAreCaseInsensitive(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddLocal(ctx, tx, fn, "Counter", "int", "0")
	require.NoError(t, err)

	_, err = m.AddLocal(ctx, tx, fn, "COUNTER", "int", "0")
	require.Error(t, err)
	assert.Equal(t, fault.DuplicateName, fault.KindOf(err))
	tx.Commit()
}

func TestUpdateLocalRenameAndRetype(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddLocal(ctx, tx, fn, "Counter", "int", "0")
	require.NoError(t, err)
	tx.Commit()

	tx = doc.Begin()
	listing, err := m.UpdateLocal(ctx, tx, fn, "counter", LocalUpdate{
		NewName: strPtr("HitCount"),
		NewType: strPtr("int64"),
	})
	require.NoError(t, err)
	tx.Commit()

	assert.True(t, listing.RecompileNeeded)
	require.Len(t, listing.Locals, 1)
	assert.Equal(t, "HitCount", listing.Locals[0].Name)
	assert.Equal(t, "int64", listing.Locals[0].Type)

	tx = doc.Begin()
	listing, err = m.UpdateLocal(ctx, tx, fn, "HitCount", LocalUpdate{Editable: boolPtr(false)})
	require.NoError(t, err)
	tx.Commit()
	assert.False(t, listing.RecompileNeeded)
}

func TestRemoveLocalNotFoundListsCandidates(t *testing.T) {
	doc, fn, m := fixture(t)
	ctx := context.Background()

	tx := doc.Begin()
	_, err := m.AddLocal(ctx, tx, fn, "Counter", "int", "")
	require.NoError(t, err)
	tx.Commit()

	tx = doc.Begin()
	defer tx.Rollback()
	_, err = m.RemoveLocal(ctx, tx, fn, "Ghost")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
	assert.Contains(t, fault.DiagnosticsOf(err), "Counter")
}
