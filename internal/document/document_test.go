package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
)

func TestNewDocumentHasDefaultEventGraph(t *testing.T) {
	doc := New("BP_Door")
	require.NotNil(t, doc.DefaultEventGraph())
	assert.Equal(t, EventGraph, doc.DefaultEventGraph().Kind())
	assert.Equal(t, "BP_Door.EventGraph", doc.DefaultEventGraph().Scope())
}

func TestAddGraphRejectsDuplicateNames(t *testing.T) {
	doc := New("BP_Door")
	_, err := doc.AddGraph(FunctionGraph, "Open")
	require.NoError(t, err)

	_, err = doc.AddGraph(MacroGraph, "Open")
	require.Error(t, err)
	assert.Equal(t, fault.StructuralConflict, fault.KindOf(err))
}

func TestRemoveGraphMissing(t *testing.T) {
	doc := New("BP_Door")
	err := doc.RemoveGraph("DoesNotExist")
	require.Error(t, err)
	assert.Equal(t, fault.StructuralConflict, fault.KindOf(err))
}

func TestLinkIsSymmetricAndRollsBack(t *testing.T) {
	doc := New("BP_Door")
	graph := doc.DefaultEventGraph()
	a := graph.NewNode(KindCall, "GetSpeed", "Get Speed", Position{})
	b := graph.NewNode(KindCall, "SetSpeed", "Set Speed", Position{})
	out := a.AddPin("ReturnValue", Out, typedesc.ScalarOf(typedesc.Float))
	in := b.AddPin("Speed", In, typedesc.ScalarOf(typedesc.Float))

	tx := doc.Begin()
	Link(tx, out, in)
	assert.True(t, out.ConnectedTo(in))
	assert.True(t, in.ConnectedTo(out))

	tx.Rollback()
	assert.False(t, out.ConnectedTo(in))
	assert.False(t, in.ConnectedTo(out))
	assert.Empty(t, out.Connections())
	assert.Empty(t, in.Connections())
}

func TestRemoveNodeSeversAllEdges(t *testing.T) {
	doc := New("BP_Door")
	graph := doc.DefaultEventGraph()
	a := graph.NewNode(KindCall, "A", "A", Position{})
	b := graph.NewNode(KindCall, "B", "B", Position{})
	out := a.AddPin("Out", Out, typedesc.ScalarOf(typedesc.Int))
	in := b.AddPin("In", In, typedesc.ScalarOf(typedesc.Int))

	tx := doc.Begin()
	Link(tx, out, in)
	tx.Commit()

	tx = doc.Begin()
	RemoveNode(tx, a)
	assert.Len(t, graph.Nodes(), 1)
	assert.Empty(t, in.Connections(), "dangling edge after node removal")
	tx.Commit()
}

func TestRemoveNodeRollbackRestoresEdges(t *testing.T) {
	doc := New("BP_Door")
	graph := doc.DefaultEventGraph()
	a := graph.NewNode(KindCall, "A", "A", Position{})
	b := graph.NewNode(KindCall, "B", "B", Position{})
	out := a.AddPin("Out", Out, typedesc.ScalarOf(typedesc.Int))
	in := b.AddPin("In", In, typedesc.ScalarOf(typedesc.Int))

	tx := doc.Begin()
	Link(tx, out, in)
	tx.Commit()

	tx = doc.Begin()
	RemoveNode(tx, a)
	tx.Rollback()

	assert.Len(t, graph.Nodes(), 2)
	assert.True(t, out.ConnectedTo(in))
	assert.True(t, in.ConnectedTo(out))
}

func TestSavepointUnwindsOnlyOneItem(t *testing.T) {
	doc := New("BP_Door")
	graph := doc.DefaultEventGraph()
	n := graph.NewNode(KindCall, "N", "N", Position{})

	tx := doc.Begin()
	first := AddPin(tx, n, "First", In, typedesc.ScalarOf(typedesc.Bool))
	mark := tx.Savepoint()
	AddPin(tx, n, "Second", In, typedesc.ScalarOf(typedesc.Bool))
	tx.RollbackTo(mark)

	require.Len(t, n.Pins(), 1)
	assert.Same(t, first, n.Pins()[0])
	tx.Commit()
}

func TestStashAndRestoreLinks(t *testing.T) {
	doc := New("BP_Door")
	graph := doc.DefaultEventGraph()
	a := graph.NewNode(KindCall, "A", "A", Position{})
	b := graph.NewNode(KindCall, "B", "B", Position{})
	vec := typedesc.Reference(typedesc.RefStruct, "Vector")
	out := a.AddPin("Location", Out, vec)
	in := b.AddPin("Target", In, vec)

	tx := doc.Begin()
	Link(tx, out, in)
	tx.Commit()

	tx = doc.Begin()
	StashLinks(tx, out)
	assert.Empty(t, out.Connections())
	RestoreLinks(tx, out)
	assert.True(t, out.ConnectedTo(in))
	tx.Commit()
}

func TestRemoveNodeScrubsParkedLinks(t *testing.T) {
	doc := New("BP_Door")
	graph := doc.DefaultEventGraph()
	a := graph.NewNode(KindCall, "A", "A", Position{})
	b := graph.NewNode(KindCall, "B", "B", Position{})
	vec := typedesc.Reference(typedesc.RefStruct, "Vector")
	out := a.AddPin("Location", Out, vec)
	in := b.AddPin("Target", In, vec)

	tx := doc.Begin()
	Link(tx, out, in)
	StashLinks(tx, in)
	RemoveNode(tx, a)
	RestoreLinks(tx, in)
	tx.Commit()

	assert.Empty(t, in.Connections())
	assert.Empty(t, out.Connections())
}

func TestHandlesAreUniquePerDocument(t *testing.T) {
	doc := New("BP_Door")
	graph := doc.DefaultEventGraph()
	fn, err := doc.AddGraph(FunctionGraph, "Open")
	require.NoError(t, err)

	a := graph.NewNode(KindCall, "A", "A", Position{})
	b := fn.NewNode(KindCall, "B", "B", Position{})
	assert.NotEqual(t, a.Handle(), b.Handle())
	assert.NotEqual(t, a.ID(), b.ID())
}
