package connect

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

type pinPair struct {
	doc    *document.Document
	out    *document.Pin
	in     *document.Pin
	spare  *document.Pin
	execIn *document.Pin
}

func fixture(t *testing.T) pinPair {
	t.Helper()
	doc := document.New("BP_Test")
	graph := doc.DefaultEventGraph()
	producer := graph.NewNode(document.KindCall, "Producer", "Producer", document.Position{})
	consumer := graph.NewNode(document.KindCall, "Consumer", "Consumer", document.Position{})

	return pinPair{
		doc:    doc,
		out:    producer.AddPin("Value", document.Out, typedesc.ScalarOf(typedesc.Int)),
		in:     consumer.AddPin("Input", document.In, typedesc.ScalarOf(typedesc.Int)),
		spare:  producer.AddPin("Other", document.Out, typedesc.ScalarOf(typedesc.Int)),
		execIn: consumer.AddPin("Exec", document.In, typedesc.ScalarOf(typedesc.Exec)),
	}
}

func newManager() *Manager {
	return NewManager(typeregistry.NewBuiltin())
}

func TestConnectHappyPath(t *testing.T) {
	f := fixture(t)
	m := newManager()

	tx := f.doc.Begin()
	require.NoError(t, m.Connect(context.Background(), tx, f.out, f.in))
	tx.Commit()

	assert.True(t, f.out.ConnectedTo(f.in))
	assert.True(t, f.in.ConnectedTo(f.out))
}

func TestConnectDirectionMismatch(t *testing.T) {
	f := fixture(t)
	m := newManager()

	tx := f.doc.Begin()
	defer tx.Rollback()

	err := m.Connect(context.Background(), tx, f.in, f.out)
	require.Error(t, err)
	assert.Equal(t, fault.DirectionMismatch, fault.KindOf(err))

	err = m.Connect(context.Background(), tx, f.out, f.spare)
	require.Error(t, err)
	assert.Equal(t, fault.DirectionMismatch, fault.KindOf(err))
}

func TestConnectOccupiedInputKeepsPriorEdge(t *testing.T) {
	f := fixture(t)
	m := newManager()

	tx := f.doc.Begin()
	require.NoError(t, m.Connect(context.Background(), tx, f.out, f.in))
	tx.Commit()

	tx = f.doc.Begin()
	err := m.Connect(context.Background(), tx, f.spare, f.in)
	require.Error(t, err)
	assert.Equal(t, fault.AlreadyConnected, fault.KindOf(err))
	tx.Rollback()

	// The prior edge is intact and sole.
	require.Len(t, f.in.Connections(), 1)
	assert.Same(t, f.out, f.in.Connections()[0])
}

func TestConnectExecInputAcceptsFanIn(t *testing.T) {
	f := fixture(t)
	m := newManager()
	graph := f.doc.DefaultEventGraph()
	first := graph.NewNode(document.KindCall, "First", "First", document.Position{})
	second := graph.NewNode(document.KindCall, "Second", "Second", document.Position{})
	execA := first.AddPin("Then", document.Out, typedesc.ScalarOf(typedesc.Exec))
	execB := second.AddPin("Then", document.Out, typedesc.ScalarOf(typedesc.Exec))

	tx := f.doc.Begin()
	require.NoError(t, m.Connect(context.Background(), tx, execA, f.execIn))
	require.NoError(t, m.Connect(context.Background(), tx, execB, f.execIn))
	tx.Commit()

	assert.Len(t, f.execIn.Connections(), 2)
}

func TestConnectExecToDataIsIncompatible(t *testing.T) {
	f := fixture(t)
	m := newManager()
	graph := f.doc.DefaultEventGraph()
	n := graph.NewNode(document.KindCall, "N", "N", document.Position{})
	execOut := n.AddPin("Then", document.Out, typedesc.ScalarOf(typedesc.Exec))

	tx := f.doc.Begin()
	defer tx.Rollback()

	err := m.Connect(context.Background(), tx, execOut, f.in)
	require.Error(t, err)
	assert.Equal(t, fault.Incompatible, fault.KindOf(err))
}

func TestConnectConvertibleTypes(t *testing.T) {
	f := fixture(t)
	m := newManager()
	graph := f.doc.DefaultEventGraph()
	n := graph.NewNode(document.KindCall, "N", "N", document.Position{})
	floatIn := n.AddPin("FloatIn", document.In, typedesc.ScalarOf(typedesc.Float))
	boolIn := n.AddPin("BoolIn", document.In, typedesc.ScalarOf(typedesc.Bool))
	wildIn := n.AddPin("WildIn", document.In, typedesc.ScalarOf(typedesc.Wildcard))

	ctx := context.Background()
	tx := f.doc.Begin()
	defer tx.Rollback()

	require.NoError(t, m.Connect(ctx, tx, f.out, floatIn), "int widens to float")
	require.NoError(t, m.Connect(ctx, tx, f.spare, wildIn), "wildcard accepts anything")

	err := m.Connect(ctx, tx, f.out, boolIn)
	require.Error(t, err)
	assert.Equal(t, fault.Incompatible, fault.KindOf(err))
}

func TestDisconnectIsIdempotent(t *testing.T) {
	f := fixture(t)
	m := newManager()
	ctx := context.Background()

	tx := f.doc.Begin()
	require.NoError(t, m.Connect(ctx, tx, f.out, f.in))
	tx.Commit()

	tx = f.doc.Begin()
	assert.Equal(t, 1, m.Disconnect(ctx, tx, f.in))
	assert.Equal(t, 0, m.Disconnect(ctx, tx, f.in), "second disconnect is a no-op")
	assert.False(t, m.DisconnectPair(ctx, tx, f.out, f.in))
	tx.Commit()

	assert.Empty(t, f.out.Connections())
}

func TestDisconnectPair(t *testing.T) {
	f := fixture(t)
	m := newManager()
	ctx := context.Background()

	tx := f.doc.Begin()
	require.NoError(t, m.Connect(ctx, tx, f.out, f.in))
	require.True(t, m.DisconnectPair(ctx, tx, f.out, f.in))
	tx.Commit()

	assert.Empty(t, f.in.Connections())
}
