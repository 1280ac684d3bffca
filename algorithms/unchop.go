package algorithms

import "github.com/genomegraphs/handlegraph"

// stepPair is one traversal of the joint between two nodes being merged:
// two consecutive steps, and whether the walk crosses the joint in the
// merged node's reverse orientation.
type stepPair struct {
	first   handlegraph.StepHandle
	second  handlegraph.StepHandle
	reverse bool
}

// Unchop merges runs of nodes that are joined by exactly one edge and
// walked straight through by every path on them. Each merge replaces two
// abutting nodes with a fresh node spelling their concatenated sequence;
// repeated to a fixpoint, so maximal runs collapse to a single node. Path
// sequences are identical before and after.
func Unchop(g handlegraph.MutablePathDeletableHandleGraph) {
	for merged := true; merged; {
		merged = false

		var edges []handlegraph.Edge
		handlegraph.ForEachEdge(g, handlegraph.Always(func(e handlegraph.Edge) {
			edges = append(edges, e)
		}))

		for _, e := range edges {
			if pairs, ok := mergeablePairs(g, e.From, e.To); ok {
				mergePair(g, e.From, e.To, pairs)
				// The snapshot holds handles into pre-merge topology.
				merged = true
				break
			}
		}
	}
}

// mergeablePairs decides whether the nodes on either end of the edge
// left→right can be glued together, and if so returns every path traversal
// of the joint between them.
//
// The nodes must be distinct, the edge must be the only one on left's right
// side and on right's left side, and no path may end at the joint: every
// step entering it must have a partner step leaving it. A circular path
// whose stored begin falls on the far side of the joint is also rejected,
// except for a two-step loop covering exactly the pair, which is handled
// separately during the merge.
func mergeablePairs(g handlegraph.MutablePathDeletableHandleGraph,
	left, right handlegraph.Handle) ([]stepPair, bool) {

	if g.GetID(left) == g.GetID(right) {
		return nil, false
	}
	if handlegraph.Degree(g, left, false) != 1 || handlegraph.Degree(g, right, true) != 1 {
		return nil, false
	}

	var pairs []stepPair

	// Forward traversals enter the joint on left.
	for _, s := range handlegraph.StepsOfHandle(g, left, true) {
		p := g.GetPathHandleOfStep(s)
		if !g.GetIsCircular(p) && g.GetNextStep(s) == g.PathEnd(p) {
			// The path stops dead at the joint.
			return nil, false
		}
		second := g.GetNextStep(s)
		if g.GetIsCircular(p) && second == g.PathBegin(p) && g.StepCount(p) != 2 {
			// The joint straddles the stored begin of a circular path.
			return nil, false
		}
		pairs = append(pairs, stepPair{first: s, second: second})
	}

	// Reverse traversals enter the joint on the flip side of right and leave
	// through the flip side of left.
	for _, s := range handlegraph.StepsOfHandle(g, g.Flip(left), true) {
		p := g.GetPathHandleOfStep(s)
		if !g.GetIsCircular(p) && s == g.PathBegin(p) {
			return nil, false
		}
		if g.GetIsCircular(p) && s == g.PathBegin(p) && g.StepCount(p) != 2 {
			return nil, false
		}
		pairs = append(pairs, stepPair{first: g.GetPreviousStep(s), second: s, reverse: true})
	}

	// A path may also begin on right or end on its flip side without ever
	// placing a step on left.
	for _, s := range handlegraph.StepsOfHandle(g, right, true) {
		p := g.GetPathHandleOfStep(s)
		if !g.GetIsCircular(p) && s == g.PathBegin(p) {
			return nil, false
		}
	}
	for _, s := range handlegraph.StepsOfHandle(g, g.Flip(right), true) {
		p := g.GetPathHandleOfStep(s)
		if !g.GetIsCircular(p) && g.GetNextStep(s) == g.PathEnd(p) {
			return nil, false
		}
	}

	return pairs, true
}

// mergePair glues left and right into a fresh node, transfers the outer
// edges, rewrites every traversal of the joint to a single step on the new
// node, and destroys the originals.
func mergePair(g handlegraph.MutablePathDeletableHandleGraph,
	left, right handlegraph.Handle, pairs []stepPair) handlegraph.Handle {

	merged := g.CreateHandle(g.GetSequence(left) + g.GetSequence(right))

	// Outer edges on left's left side.
	g.FollowEdges(left, true, handlegraph.Always(func(prev handlegraph.Handle) {
		switch prev {
		case right:
			// An edge from the run's end back to its start becomes a
			// non-reversing self loop.
			prev = merged
		case g.Flip(left):
			prev = g.Flip(merged)
		}
		g.CreateEdge(prev, merged)
	}))

	// Outer edges on right's right side.
	g.FollowEdges(right, false, handlegraph.Always(func(next handlegraph.Handle) {
		switch next {
		case left:
			next = merged
		case g.Flip(right):
			next = g.Flip(merged)
		}
		g.CreateEdge(merged, next)
	}))

	for _, pair := range pairs {
		replacement := merged
		if pair.reverse {
			replacement = g.Flip(merged)
		}

		p := g.GetPathHandleOfStep(pair.first)
		if g.GetIsCircular(p) && g.GetNextStep(pair.second) == pair.first {
			// The path is exactly this pair, wrapped. Rebuild it as a
			// one-step circular path instead of rewriting in place.
			name := g.GetPathName(p)
			g.DestroyPath(p)
			// The name was just freed.
			rebuilt, _ := g.CreatePathHandle(name, true)
			g.AppendStep(rebuilt, replacement)
			continue
		}

		g.RewriteSegment(pair.first, g.GetNextStep(pair.second), []handlegraph.Handle{replacement})
	}

	g.DestroyHandle(left)
	g.DestroyHandle(right)
	return merged
}
