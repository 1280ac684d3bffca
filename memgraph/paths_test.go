package memgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomegraphs/handlegraph"
)

// chain builds a linear graph A -> C -> G -> T and returns its handles.
func chain(t *testing.T) (*Graph, []handlegraph.Handle) {
	t.Helper()
	g := New()
	handles := make([]handlegraph.Handle, 0, 4)
	for _, sequence := range []string{"A", "C", "G", "T"} {
		handles = append(handles, g.CreateHandle(sequence))
	}
	for i := 0; i+1 < len(handles); i++ {
		g.CreateEdge(handles[i], handles[i+1])
	}
	return g, handles
}

func TestCreatePathHandle(t *testing.T) {
	t.Parallel()

	g := New()
	p, err := g.CreatePathHandle("GRCh38#chrM", false)
	require.NoError(t, err)

	assert.Equal(t, 1, g.PathCount())
	assert.True(t, g.HasPath("GRCh38#chrM"))
	assert.Equal(t, p, g.GetPathHandle("GRCh38#chrM"))
	assert.Equal(t, "GRCh38#chrM", g.GetPathName(p))
	assert.False(t, g.GetIsCircular(p))
	assert.True(t, handlegraph.IsEmpty(g, p))

	_, err = g.CreatePathHandle("GRCh38#chrM", false)
	assert.Error(t, err)
}

func TestAppendAndPrependSteps(t *testing.T) {
	t.Parallel()

	g, handles := chain(t)
	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)

	g.AppendStep(p, handles[1])
	g.AppendStep(p, handles[2])
	first := g.PrependStep(p, handles[0])
	g.AppendStep(p, handles[3])

	assert.Equal(t, 4, g.StepCount(p))
	assert.Equal(t, first, g.PathBegin(p))
	assert.Equal(t, handles, handlegraph.ScanPath(g, p))
	assert.Equal(t, "ACGT", handlegraph.PathSequence(g, p))

	// Step navigation agrees with path order.
	s := g.PathBegin(p)
	for _, h := range handles {
		assert.Equal(t, h, g.GetHandleOfStep(s))
		assert.Equal(t, p, g.GetPathHandleOfStep(s))
		s = g.GetNextStep(s)
	}
	assert.Equal(t, g.PathEnd(p), s)
	assert.Equal(t, handles[3], g.GetHandleOfStep(g.GetPreviousStep(s)))
}

func TestCircularStepNavigation(t *testing.T) {
	t.Parallel()

	g, handles := chain(t)
	g.CreateEdge(handles[3], handles[0])

	p, err := g.CreatePathHandle("loop", true)
	require.NoError(t, err)
	for _, h := range handles {
		g.AppendStep(p, h)
	}

	// The last step wraps to the first and vice versa.
	last := g.GetPreviousStep(g.PathBegin(p))
	assert.Equal(t, handles[3], g.GetHandleOfStep(last))
	assert.Equal(t, g.PathBegin(p), g.GetNextStep(last))

	// Iteration still visits each step exactly once.
	assert.Equal(t, handles, handlegraph.ScanPath(g, p))
	assert.Equal(t, "ACGT", handlegraph.PathSequence(g, p))
}

func TestForEachStepInPathEarlyStop(t *testing.T) {
	t.Parallel()

	g, handles := chain(t)
	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)
	for _, h := range handles {
		g.AppendStep(p, h)
	}

	seen := 0
	finished := handlegraph.ForEachStepInPath(g, p, func(handlegraph.StepHandle) bool {
		seen++
		return seen < 2
	})
	assert.False(t, finished)
	assert.Equal(t, 2, seen)
}

func TestStepsOfHandle(t *testing.T) {
	t.Parallel()

	g := New()
	n := g.CreateHandle("ACGT")

	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)
	forward := g.AppendStep(p, n)
	backward := g.AppendStep(p, g.Flip(n))

	assert.ElementsMatch(t, []handlegraph.StepHandle{forward, backward},
		handlegraph.StepsOfHandle(g, n, false))
	assert.Equal(t, []handlegraph.StepHandle{forward},
		handlegraph.StepsOfHandle(g, n, true))
	assert.Equal(t, []handlegraph.StepHandle{backward},
		handlegraph.StepsOfHandle(g, g.Flip(n), true))
}

func TestRewriteSegment(t *testing.T) {
	t.Parallel()

	t.Run("ReplaceMiddle", func(t *testing.T) {
		t.Parallel()

		g, handles := chain(t)
		sub := g.CreateHandle("CC")

		p, err := g.CreatePathHandle("walk", false)
		require.NoError(t, err)
		var steps []handlegraph.StepHandle
		for _, h := range handles {
			steps = append(steps, g.AppendStep(p, h))
		}

		begin, end := g.RewriteSegment(steps[1], steps[3], []handlegraph.Handle{sub})
		assert.Equal(t, sub, g.GetHandleOfStep(begin))
		assert.Equal(t, steps[3], end)
		assert.Equal(t, "ACCT", handlegraph.PathSequence(g, p))

		// Steps outside the range survive.
		assert.Equal(t, steps[0], g.PathBegin(p))
		assert.Equal(t, handles[3], g.GetHandleOfStep(steps[3]))
	})

	t.Run("DeleteRange", func(t *testing.T) {
		t.Parallel()

		g, handles := chain(t)
		p, err := g.CreatePathHandle("walk", false)
		require.NoError(t, err)
		var steps []handlegraph.StepHandle
		for _, h := range handles {
			steps = append(steps, g.AppendStep(p, h))
		}

		g.RewriteSegment(steps[1], steps[3], nil)
		assert.Equal(t, 2, g.StepCount(p))
		assert.Equal(t, "AT", handlegraph.PathSequence(g, p))
	})

	t.Run("AppendAtEnd", func(t *testing.T) {
		t.Parallel()

		g, handles := chain(t)
		p, err := g.CreatePathHandle("walk", false)
		require.NoError(t, err)
		g.AppendStep(p, handles[0])

		g.RewriteSegment(g.PathEnd(p), g.PathEnd(p), []handlegraph.Handle{handles[1], handles[2]})
		assert.Equal(t, "ACG", handlegraph.PathSequence(g, p))
	})
}

func TestDestroyPath(t *testing.T) {
	t.Parallel()

	g, handles := chain(t)
	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)
	for _, h := range handles {
		g.AppendStep(p, h)
	}
	q, err := g.CreatePathHandle("other", false)
	require.NoError(t, err)
	g.AppendStep(q, handles[0])

	g.DestroyPath(p)

	assert.Equal(t, 1, g.PathCount())
	assert.False(t, g.HasPath("walk"))
	// The other path's steps are untouched.
	assert.Len(t, handlegraph.StepsOfHandle(g, handles[0], false), 1)
}

func TestForEachStepPositionOnHandle(t *testing.T) {
	t.Parallel()

	g := New()
	a := g.CreateHandle("AAA")
	b := g.CreateHandle("CC")
	c := g.CreateHandle("GGGG")
	g.CreateEdge(a, b)
	g.CreateEdge(b, c)
	g.CreateEdge(c, g.Flip(b))

	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)
	g.AppendStep(p, a)
	g.AppendStep(p, b)
	g.AppendStep(p, c)
	g.AppendStep(p, g.Flip(b))

	type visit struct {
		isReverse bool
		position  int
	}
	var visits []visit
	g.ForEachStepPositionOnHandle(b, func(s handlegraph.StepHandle, isReverse bool, position int) bool {
		visits = append(visits, visit{isReverse, position})
		return true
	})

	assert.ElementsMatch(t, []visit{
		{false, 3},
		{true, 9},
	}, visits)
}

func TestPathMetadataIteration(t *testing.T) {
	t.Parallel()

	g, handles := chain(t)
	names := []string{
		"GRCh38#chrM",
		"NA19239#1#chr1#0",
		"CHM13#chr12",
	}
	for _, name := range names {
		p, err := g.CreatePathHandle(name, false)
		require.NoError(t, err)
		g.AppendStep(p, handles[0])
	}

	var references []string
	handlegraph.ForEachPathOfSense(g, handlegraph.SenseReference, handlegraph.Always(func(p handlegraph.PathHandle) {
		references = append(references, g.GetPathName(p))
	}))
	assert.Equal(t, []string{"GRCh38#chrM", "CHM13#chr12"}, references)

	var chrM []string
	handlegraph.ForEachPathMatching(g, handlegraph.PathFilter{
		Samples: []string{"GRCh38"},
		Loci:    []string{"chrM"},
	}, handlegraph.Always(func(p handlegraph.PathHandle) {
		chrM = append(chrM, g.GetPathName(p))
	}))
	assert.Equal(t, []string{"GRCh38#chrM"}, chrM)

	haplotypeSteps := 0
	handlegraph.ForEachStepOfSense(g, handles[0], handlegraph.SenseHaplotype, handlegraph.Always(func(handlegraph.StepHandle) {
		haplotypeSteps++
	}))
	assert.Equal(t, 1, haplotypeSteps)

	// Early stop propagates out of the filter helpers.
	visited := 0
	finished := handlegraph.ForEachPathOfSense(g, handlegraph.SenseReference, func(handlegraph.PathHandle) bool {
		visited++
		return false
	})
	assert.False(t, finished)
	assert.Equal(t, 1, visited)
}

func TestCreatePathFromMetadata(t *testing.T) {
	t.Parallel()

	g := New()
	p, err := handlegraph.CreatePath(g, handlegraph.PathMetadata{
		Sense:      handlegraph.SenseHaplotype,
		Sample:     "NA19239",
		Locus:      "chr1",
		Haplotype:  1,
		PhaseBlock: 0,
		Subrange:   handlegraph.NoSubrange,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "NA19239#1#chr1#0", g.GetPathName(p))
	assert.Equal(t, handlegraph.SenseHaplotype, handlegraph.GetSense(g, p))
	assert.Equal(t, "NA19239", handlegraph.GetSampleName(g, p))

	_, err = handlegraph.CreatePath(g, handlegraph.PathMetadata{
		Sense:      handlegraph.SenseGeneric,
		Sample:     "NA19239",
		Locus:      "chr1",
		Haplotype:  handlegraph.NoHaplotype,
		PhaseBlock: handlegraph.NoPhaseBlock,
		Subrange:   handlegraph.NoSubrange,
	}, false)
	assert.Error(t, err)
}

func TestSetCircularity(t *testing.T) {
	t.Parallel()

	g, handles := chain(t)
	p, err := g.CreatePathHandle("walk", false)
	require.NoError(t, err)
	g.AppendStep(p, handles[0])
	g.AppendStep(p, handles[1])

	g.SetCircularity(p, true)
	assert.True(t, g.GetIsCircular(p))
	assert.Equal(t, g.PathBegin(p), g.GetNextStep(g.GetPreviousStep(g.PathBegin(p))))

	g.SetCircularity(p, false)
	assert.False(t, g.GetIsCircular(p))
}
