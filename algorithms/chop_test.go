package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomegraphs/handlegraph"
	"github.com/genomegraphs/handlegraph/memgraph"
)

func TestChop(t *testing.T) {
	t.Parallel()

	g := memgraph.New()
	a := g.CreateHandle("GATTACA")
	b := g.CreateHandle("CC")
	g.CreateEdge(a, b)

	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)
	g.AppendStep(p, a)
	g.AppendStep(p, b)

	Chop(g, 3)

	// Every node fits the limit and the graph still spells the same walk.
	g.ForEachHandle(handlegraph.Always(func(h handlegraph.Handle) {
		assert.LessOrEqual(t, g.GetLength(h), 3)
	}))
	assert.Equal(t, "GATTACACC", handlegraph.PathSequence(g, p))
	assert.Equal(t, 4, g.NodeCount())
}

func TestChopLeavesShortNodesAlone(t *testing.T) {
	t.Parallel()

	g := memgraph.New()
	a := g.CreateHandle("ACG")
	Chop(g, 3)

	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, "ACG", g.GetSequence(a))
}

func TestChopThenUnchopRestoresSpelling(t *testing.T) {
	t.Parallel()

	g := memgraph.New()
	a := g.CreateHandle("GATTACAGATTACA")
	b := g.CreateHandle("CCCC")
	tip := g.CreateHandle("T")
	g.CreateEdge(a, b)
	g.CreateEdge(a, tip)

	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)
	g.AppendStep(p, a)
	g.AppendStep(p, b)

	q, err := g.CreatePathHandle("branch", false)
	require.NoError(t, err)
	g.AppendStep(q, a)
	g.AppendStep(q, tip)

	Chop(g, 4)
	assert.Equal(t, "GATTACAGATTACACCCC", handlegraph.PathSequence(g, p))
	assert.Equal(t, "GATTACAGATTACAT", handlegraph.PathSequence(g, q))

	Unchop(g)
	assert.Equal(t, "GATTACAGATTACACCCC", handlegraph.PathSequence(g, p))
	assert.Equal(t, "GATTACAGATTACAT", handlegraph.PathSequence(g, q))

	// The pieces of a glue back into one node; b and tip stay separate
	// because the branch point has degree two.
	assert.Equal(t, 3, g.NodeCount())
}
