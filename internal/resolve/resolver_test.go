package resolve

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/fault"
	"github.com/vk/graphforge/internal/typedesc"
)

func fixtureDoc(t *testing.T) (*document.Document, *document.Graph, *document.Node) {
	t.Helper()
	doc := document.New("BP_Door")
	graph := doc.DefaultEventGraph()
	branch := graph.NewNode(document.KindCall, "Branch_17", "Branch", document.Position{X: 100, Y: 50})
	branch.AddPin("Exec", document.In, typedesc.ScalarOf(typedesc.Exec))
	branch.AddPin("Condition", document.In, typedesc.ScalarOf(typedesc.Bool))
	branch.AddPin("Then", document.Out, typedesc.ScalarOf(typedesc.Exec))
	branch.AddPin("Else", document.Out, typedesc.ScalarOf(typedesc.Exec))
	return doc, graph, branch
}

func TestNodeResolutionShapes(t *testing.T) {
	doc, graph, branch := fixtureDoc(t)
	graphs := Candidates(doc, graph)
	ctx := context.Background()

	testCases := []struct {
		name  string
		token string
	}{
		{"canonical uuid", branch.ID().String()},
		{"braced uuid", "{" + branch.ID().String() + "}"},
		{"uuid without hyphens", strings.ReplaceAll(branch.ID().String(), "-", "")},
		{"braced uppercase uuid without hyphens", "{" + strings.ToUpper(strings.ReplaceAll(branch.ID().String(), "-", "")) + "}"},
		{"object name", "Branch_17"},
		{"numeric handle", fmt.Sprintf("%d", branch.Handle())},
		{"display title", "Branch"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Node(ctx, graphs, tc.token)
			require.NoError(t, err)
			assert.Same(t, branch, n)
		})
	}
}

func TestNodeIDMatchOutranksNameMatch(t *testing.T) {
	doc, graph, branch := fixtureDoc(t)
	// A second node whose object name is the first node's id string. The id
	// match must still win.
	impostor := graph.NewNode(document.KindCall, branch.ID().String(), "Impostor", document.Position{})

	n, err := Node(context.Background(), Candidates(doc, graph), branch.ID().String())
	require.NoError(t, err)
	assert.Same(t, branch, n)
	assert.NotSame(t, impostor, n)
}

func TestNodePreferredGraphWinsWithinShape(t *testing.T) {
	doc, _, _ := fixtureDoc(t)
	fn, err := doc.AddGraph(document.FunctionGraph, "Open")
	require.NoError(t, err)
	eventDup := doc.DefaultEventGraph().NewNode(document.KindCall, "Dup", "Dup", document.Position{})
	fnDup := fn.NewNode(document.KindCall, "Dup", "Dup", document.Position{})

	n, err := Node(context.Background(), Candidates(doc, fn), "Dup")
	require.NoError(t, err)
	assert.Same(t, fnDup, n)

	n, err = Node(context.Background(), Candidates(doc, nil), "Dup")
	require.NoError(t, err)
	assert.Same(t, eventDup, n)
}

func TestNodeNotFoundCarriesCandidateListing(t *testing.T) {
	doc, graph, _ := fixtureDoc(t)
	_, err := Node(context.Background(), Candidates(doc, graph), "NoSuchNode")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))

	diag := fault.DiagnosticsOf(err)
	assert.Contains(t, diag, "Branch_17")
	assert.Contains(t, diag, "Branch")
	assert.Contains(t, diag, "EventGraph")
}

func TestPinCompositeForm(t *testing.T) {
	doc, graph, branch := fixtureDoc(t)
	graphs := Candidates(doc, graph)

	p, err := Pin(context.Background(), graphs, "Branch_17:Condition")
	require.NoError(t, err)
	assert.Same(t, branch.FindPin("Condition", document.In), p)

	_, err = Pin(context.Background(), graphs, "Missing_99:Condition")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
	assert.Contains(t, fault.DiagnosticsOf(err), "Branch_17")
}

func TestPinByPersistentToken(t *testing.T) {
	doc, graph, branch := fixtureDoc(t)
	condition := branch.FindPin("Condition", document.In)

	p, err := Pin(context.Background(), Candidates(doc, graph), condition.ID().String())
	require.NoError(t, err)
	assert.Same(t, condition, p)
}

func TestPinOnNodeCaseInsensitiveFallback(t *testing.T) {
	_, _, branch := fixtureDoc(t)

	p, err := PinOnNode(context.Background(), branch, "condition")
	require.NoError(t, err)
	assert.Equal(t, "Condition", p.Name())
}

func TestPinOnNodeSplitParentFallback(t *testing.T) {
	doc := document.New("BP_Door")
	graph := doc.DefaultEventGraph()
	n := graph.NewNode(document.KindCall, "SetActorLocation", "Set Actor Location", document.Position{})
	vec := typedesc.Reference(typedesc.RefStruct, "Vector")
	location := n.AddPin("Location", document.In, vec)

	tx := doc.Begin()
	sub := document.AddSubPin(tx, location, "Location_X", typedesc.ScalarOf(typedesc.Float), typedesc.ScalarOf(typedesc.Float).ZeroValue())
	tx.Commit()

	p, err := PinOnNode(context.Background(), n, "Location_X")
	require.NoError(t, err)
	assert.Same(t, sub, p)

	_, err = PinOnNode(context.Background(), n, "Location_W")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
	assert.Contains(t, fault.DiagnosticsOf(err), "Location")
}
