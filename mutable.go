package handlegraph

import "fmt"

// MutableHandleGraph is a handle graph that supports addition of new graph
// material. Mutation may invalidate step handles into the graph.
type MutableHandleGraph interface {
	HandleGraph

	// CreateHandle creates a new node with the given sequence and an
	// implementation-chosen ID, and returns its forward handle.
	CreateHandle(sequence string) Handle

	// CreateHandleWithID creates a new node with the given sequence and ID,
	// and returns its forward handle.
	CreateHandleWithID(sequence string, id NodeID) Handle

	// CreateEdge connects the right side of left to the left side of right.
	// Existing edges are ignored.
	CreateEdge(left, right Handle)

	// ApplyOrdering reorders the graph's traversal order to match the given
	// complete ordering of forward handles.
	ApplyOrdering(order []Handle)

	// ApplyOrientation makes the orientation indicated by the handle the
	// node's local forward orientation, rewriting the stored sequence, the
	// edges, and the steps of any stored paths through the node. Returns a
	// valid handle to the node in its new forward orientation; other handles
	// to the node are invalidated.
	ApplyOrientation(h Handle) Handle

	// DivideHandle splits the node at the given offsets, interpreted in the
	// handle's orientation, and returns handles to the parts in the order
	// and orientation matching the handle passed in. Stored paths are
	// updated; other handles to the node are invalidated.
	DivideHandle(h Handle, offsets []int) []Handle
}

// DivideHandleAt splits a node at a single offset and returns the two parts.
func DivideHandleAt(g MutableHandleGraph, h Handle, offset int) (Handle, Handle) {
	parts := g.DivideHandle(h, []int{offset})
	return parts[0], parts[len(parts)-1]
}

// DeletableHandleGraph is a mutable handle graph that also supports removal
// of graph material.
type DeletableHandleGraph interface {
	MutableHandleGraph

	// DestroyHandle removes the node and all edges on it. The node must not
	// have any paths on it.
	DestroyHandle(h Handle)

	// DestroyEdge removes the edge from the right side of left to the left
	// side of right, if it exists.
	DestroyEdge(left, right Handle)

	// Clear removes all nodes, edges, and paths.
	Clear()
}

// MutablePathHandleGraph is a path handle graph whose embedded paths can be
// modified.
type MutablePathHandleGraph interface {
	PathHandleGraph

	// DestroyPath removes the path. Handles to the path and its steps are
	// invalidated; handles to other paths remain valid.
	DestroyPath(p PathHandle)

	// CreatePathHandle creates a new empty path with the given name and
	// returns its handle. Fails if a path with the name already exists.
	// Handles to other paths remain valid.
	CreatePathHandle(name string, isCircular bool) (PathHandle, error)

	// AppendStep adds a visit to the handle at the end of the path and
	// returns the new step. In a circular path the new step lands between
	// the steps considered "last" and "first". Handles to prior steps on
	// the path, and to other paths, remain valid.
	AppendStep(p PathHandle, h Handle) StepHandle

	// PrependStep adds a visit to the handle before the first step of the
	// path and returns the new step. Handles to prior steps on the path,
	// and to other paths, remain valid.
	PrependStep(p PathHandle, h Handle) StepHandle

	// RewriteSegment replaces the half-open range of steps [begin, end)
	// with visits to the given handles, and returns the new range. Handles
	// to steps outside the range, and to other paths, remain valid.
	RewriteSegment(begin, end StepHandle, newSegment []Handle) (StepHandle, StepHandle)

	// SetCircularity makes the path circular or linear. Becoming circular
	// joins the last step to the first; becoming linear unjoins them.
	SetCircularity(p PathHandle, circular bool)
}

// MutablePathMutableHandleGraph combines path mutation with graph mutation.
type MutablePathMutableHandleGraph interface {
	MutablePathHandleGraph
	MutableHandleGraph
}

// MutablePathDeletableHandleGraph combines path mutation with full graph
// mutation and deletion.
type MutablePathDeletableHandleGraph interface {
	MutablePathHandleGraph
	DeletableHandleGraph
}

// PathMetadataCreator is an optional capability for graphs that store path
// metadata directly rather than encoding it into the name. CreatePath
// consults it before falling back to name construction.
type PathMetadataCreator interface {
	CreatePathFromMetadata(meta PathMetadata, isCircular bool) (PathHandle, error)
}

// CreatePath adds an empty path with the given metadata, encoding the
// metadata into the canonical path name. Metadata that fails validation for
// its sense is rejected.
func CreatePath(g MutablePathHandleGraph, meta PathMetadata, isCircular bool) (PathHandle, error) {
	if creator, ok := g.(PathMetadataCreator); ok {
		return creator.CreatePathFromMetadata(meta, isCircular)
	}
	name, err := CreatePathName(meta)
	if err != nil {
		return 0, fmt.Errorf("creating path: %w", err)
	}
	return g.CreatePathHandle(name, isCircular)
}

// ChangeSequence replaces a node's sequence while preserving its edges and
// rewriting the steps of every path through it. Returns a handle to the
// node carrying the new sequence; the node keeps its topology but gets a
// fresh ID.
func ChangeSequence(g MutablePathDeletableHandleGraph, h Handle, sequence string) Handle {
	newHandle := g.CreateHandle(sequence)

	// Copy the edges over.
	g.FollowEdges(h, false, Always(func(next Handle) {
		if next == h {
			// Non-reversing self loop: reattach both ends.
			next = newHandle
		} else if next == g.Flip(h) {
			next = g.Flip(newHandle)
		}
		g.CreateEdge(newHandle, next)
	}))
	g.FollowEdges(h, true, Always(func(prev Handle) {
		// A non-reversing self loop was already added above.
		if g.GetID(prev) != g.GetID(h) || g.GetIsReverse(prev) {
			if prev == g.Flip(h) {
				prev = g.Flip(newHandle)
			}
			g.CreateEdge(prev, newHandle)
		}
	}))

	// Collect the steps that need to move, then rewrite them one at a time.
	var steps []StepHandle
	g.ForEachStepOnHandle(h, Always(func(s StepHandle) {
		steps = append(steps, s)
	}))
	for _, step := range steps {
		replacement := newHandle
		if g.GetIsReverse(g.GetHandleOfStep(step)) {
			replacement = g.Flip(newHandle)
		}
		g.RewriteSegment(step, g.GetNextStep(step), []Handle{replacement})
	}

	g.DestroyHandle(h)
	return newHandle
}
