package handlegraph

import "strconv"

// SegmentSpace is the interface for a translation from node IDs back to the
// named segments of a source assembly graph, as in a GFA that has been
// chopped. A graph without a translation answers every query with the
// no-translation fallback: the node ID rendered as a string, the one-node
// ID range [id, id+1), and offset 0.
type SegmentSpace interface {
	// HasSegmentNames reports whether a translation from node IDs to
	// segment names exists.
	HasSegmentNames() bool

	// GetSegment returns the segment name and the semiopen node ID range
	// containing the node.
	GetSegment(id NodeID) (string, NodeID, NodeID)

	// GetSegmentNameAndOffset returns the segment name and the node's
	// starting offset within the segment, in the given orientation.
	GetSegmentNameAndOffset(id NodeID, isReverse bool) (string, int)

	// GetSegmentName returns the name of the segment containing the node.
	GetSegmentName(id NodeID) string

	// GetSegmentOffset returns the node's starting offset within its
	// segment, in the given orientation.
	GetSegmentOffset(id NodeID, isReverse bool) int

	// ForEachSegment visits each segment name with its semiopen node ID
	// range. Returns false if the visitor stopped iteration early.
	ForEachSegment(visit func(name string, lo, hi NodeID) bool) bool

	// ForEachLink visits each inter-segment edge in canonical orientation
	// with the names of the segments it connects. Returns false if the
	// visitor stopped iteration early.
	ForEachLink(visit func(e Edge, fromSegment, toSegment string) bool) bool
}

// SegmentHandleGraph is a handle graph that carries a segment translation.
type SegmentHandleGraph interface {
	HandleGraph
	SegmentSpace
}

// The handle-based lookups delegate to the ID and orientation queries
// through the graph that issued the handle.

// SegmentOfHandle returns the segment name and node ID range for the
// handle's node.
func SegmentOfHandle(s SegmentSpace, g HandleGraph, h Handle) (string, NodeID, NodeID) {
	return s.GetSegment(g.GetID(h))
}

// SegmentNameAndOffsetOfHandle returns the segment name and starting offset
// for the handle, in the handle's orientation.
func SegmentNameAndOffsetOfHandle(s SegmentSpace, g HandleGraph, h Handle) (string, int) {
	return s.GetSegmentNameAndOffset(g.GetID(h), g.GetIsReverse(h))
}

// SegmentNameOfHandle returns the segment name for the handle's node.
func SegmentNameOfHandle(s SegmentSpace, g HandleGraph, h Handle) string {
	return s.GetSegmentName(g.GetID(h))
}

// SegmentOffsetOfHandle returns the starting offset of the handle within
// its segment, in the handle's orientation.
func SegmentOffsetOfHandle(s SegmentSpace, g HandleGraph, h Handle) int {
	return s.GetSegmentOffset(g.GetID(h), g.GetIsReverse(h))
}

// UntranslatedSegmentName is the no-translation fallback name for a node.
func UntranslatedSegmentName(id NodeID) string {
	return strconv.FormatInt(int64(id), 10)
}
