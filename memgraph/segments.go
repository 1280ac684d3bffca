package memgraph

import (
	"github.com/genomegraphs/handlegraph"
)

// memgraph stores no segment translation, so it answers every segment query
// with the documented no-translation fallback: each node is its own segment,
// named after its ID.

// HasSegmentNames reports whether a node-to-segment translation exists.
// memgraph never has one.
func (g *Graph) HasSegmentNames() bool {
	return false
}

// GetSegment returns the fallback segment for the node: its ID as a name
// and the one-node ID range.
func (g *Graph) GetSegment(id handlegraph.NodeID) (string, handlegraph.NodeID, handlegraph.NodeID) {
	return handlegraph.UntranslatedSegmentName(id), id, id + 1
}

// GetSegmentNameAndOffset returns the fallback name and offset 0.
func (g *Graph) GetSegmentNameAndOffset(id handlegraph.NodeID, isReverse bool) (string, int) {
	return handlegraph.UntranslatedSegmentName(id), 0
}

// GetSegmentName returns the node ID as a string.
func (g *Graph) GetSegmentName(id handlegraph.NodeID) string {
	return handlegraph.UntranslatedSegmentName(id)
}

// GetSegmentOffset returns 0: without a translation every node starts its
// own segment.
func (g *Graph) GetSegmentOffset(id handlegraph.NodeID, isReverse bool) int {
	return 0
}

// ForEachSegment visits each node as its own one-node segment, in creation
// order.
func (g *Graph) ForEachSegment(visit func(name string, lo, hi handlegraph.NodeID) bool) bool {
	return g.ForEachHandle(func(h handlegraph.Handle) bool {
		id := unpackID(h)
		return visit(handlegraph.UntranslatedSegmentName(id), id, id+1)
	})
}

// ForEachLink visits every edge as an inter-segment link between the
// fallback segments of its endpoints.
func (g *Graph) ForEachLink(visit func(e handlegraph.Edge, fromSegment, toSegment string) bool) bool {
	return handlegraph.ForEachEdge(g, func(e handlegraph.Edge) bool {
		return visit(e,
			handlegraph.UntranslatedSegmentName(unpackID(e.From)),
			handlegraph.UntranslatedSegmentName(unpackID(e.To)))
	})
}

// Compile-time checks that Graph satisfies the full interface stack.
var (
	_ handlegraph.MutablePathDeletableHandleGraph = (*Graph)(nil)
	_ handlegraph.MutablePathMutableHandleGraph   = (*Graph)(nil)
	_ handlegraph.PathPositionHandleGraph         = (*Graph)(nil)
	_ handlegraph.SegmentHandleGraph              = (*Graph)(nil)
)
