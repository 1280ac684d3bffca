// Package handlegraph defines interfaces for bidirected sequence graphs
// addressed through opaque handles.
//
// A node in a specific orientation is a Handle, a named walk through the
// graph is a PathHandle, and one visit of a path to a node is a StepHandle.
// Concrete graphs implement the interfaces in this package; everything a
// graph does not need to store is expressed as free functions over the
// interfaces, so an implementation only provides the primitives.
package handlegraph

import (
	"fmt"
	"strings"
)

// NodeID is the stable identifier of a node, independent of orientation.
type NodeID int64

// Handle is an opaque reference to a node in a specific orientation. The
// encoding is implementation-defined; handles are only meaningful to the
// graph that issued them. Handles are comparable and usable as map keys.
type Handle uint64

// Edge is an ordered pair of handles: a connection from the right side of
// From to the left side of To.
type Edge struct {
	From Handle
	To   Handle
}

// PathHandle is an opaque reference to a named path stored in a graph.
type PathHandle uint64

// StepHandle is an opaque reference to one visit of a path to a handle,
// including the past-the-end sentinel positions.
type StepHandle [2]uint64

// Visitor is the callback contract for iteration: return false to stop.
// Every iteration helper returns false if and only if a visitor stopped it
// early.
type Visitor[T any] func(T) bool

// Always adapts a visitor that never stops into a Visitor.
func Always[T any](fn func(T)) Visitor[T] {
	return func(item T) bool {
		fn(item)
		return true
	}
}

// HandleGraph is the read-only topology interface.
type HandleGraph interface {
	// HasNode reports whether a node with the given ID exists.
	HasNode(id NodeID) bool

	// GetHandle returns the handle for the node in the requested orientation.
	// The node must exist.
	GetHandle(id NodeID, isReverse bool) Handle

	// GetID returns the ID of the node the handle refers to.
	GetID(h Handle) NodeID

	// GetIsReverse reports whether the handle is in the reverse orientation.
	GetIsReverse(h Handle) bool

	// Flip returns the handle for the same node in the opposite orientation.
	Flip(h Handle) Handle

	// GetLength returns the sequence length of the handle's node.
	GetLength(h Handle) int

	// GetSequence returns the sequence of the node in the handle's
	// orientation (reverse-complemented for reverse handles).
	GetSequence(h Handle) string

	// NodeCount returns the number of nodes in the graph.
	NodeCount() int

	// MinNodeID returns the smallest node ID in the graph.
	MinNodeID() NodeID

	// MaxNodeID returns the largest node ID in the graph.
	MaxNodeID() NodeID

	// FollowEdges visits the handles reachable from h: rightward neighbors
	// when goLeft is false, leftward neighbors when goLeft is true. Returns
	// false if the visitor stopped iteration early.
	FollowEdges(h Handle, goLeft bool, visit Visitor[Handle]) bool

	// ForEachHandle visits every node once, in its forward orientation.
	// Returns false if the visitor stopped iteration early.
	ForEachHandle(visit Visitor[Handle]) bool
}

// Forward returns the handle for the same node in its forward orientation.
func Forward(g HandleGraph, h Handle) Handle {
	if g.GetIsReverse(h) {
		return g.Flip(h)
	}
	return h
}

// Degree returns the number of edges on the left or right side of the handle.
func Degree(g HandleGraph, h Handle, goLeft bool) int {
	count := 0
	g.FollowEdges(h, goLeft, Always(func(Handle) {
		count++
	}))
	return count
}

// HasEdge reports whether an edge connects the right side of from to the
// left side of to.
func HasEdge(g HandleGraph, from, to Handle) bool {
	found := false
	g.FollowEdges(from, false, func(next Handle) bool {
		if next == to {
			found = true
			return false
		}
		return true
	})
	return found
}

// EdgeCount returns the total number of distinct edges in the graph.
func EdgeCount(g HandleGraph) int {
	count := 0
	ForEachEdge(g, Always(func(Edge) {
		count++
	}))
	return count
}

// TotalLength returns the sum of all node sequence lengths.
func TotalLength(g HandleGraph) int {
	total := 0
	g.ForEachHandle(Always(func(h Handle) {
		total += g.GetLength(h)
	}))
	return total
}

// Subsequence returns length characters of the handle's sequence starting
// at index.
func Subsequence(g HandleGraph, h Handle, index, length int) string {
	return g.GetSequence(h)[index : index+length]
}

// Base returns the single character at index in the handle's sequence.
func Base(g HandleGraph, h Handle, index int) byte {
	return g.GetSequence(h)[index]
}

// EdgeHandle returns the canonical Edge for the connection between left and
// right. The two equivalent representations (left→right and
// flip(right)→flip(left)) canonicalize to the same value.
func EdgeHandle(g HandleGraph, left, right Handle) Edge {
	flipped := Edge{From: g.Flip(right), To: g.Flip(left)}
	forward := Edge{From: left, To: right}
	if flipped.From < forward.From || (flipped.From == forward.From && flipped.To < forward.To) {
		return flipped
	}
	return forward
}

// TraverseEdgeHandle views an edge from the perspective of the handle on one
// of its ends: it returns the handle reached by crossing the edge away from
// left. Panics if left is not an end of the edge.
func TraverseEdgeHandle(g HandleGraph, e Edge, left Handle) Handle {
	switch left {
	case e.From:
		// The edge is in the orientation we want it in.
		return e.To
	case g.Flip(e.To):
		// We want the other orientation of the edge.
		return g.Flip(e.From)
	default:
		panic(fmt.Sprintf("cannot view edge (%d, %d) from handle %d not on either end",
			e.From, e.To, left))
	}
}

// ForEachEdge visits every distinct edge once, in canonical orientation.
// Returns false if the visitor stopped iteration early.
func ForEachEdge(g HandleGraph, visit Visitor[Edge]) bool {
	return g.ForEachHandle(func(h Handle) bool {
		keepGoing := g.FollowEdges(h, false, func(next Handle) bool {
			// Emit each edge from its lower-ID end. Rightward self loops
			// are emitted here too.
			if g.GetID(h) <= g.GetID(next) {
				return visit(EdgeHandle(g, h, next))
			}
			return true
		})
		if !keepGoing {
			return false
		}
		return g.FollowEdges(h, true, func(prev Handle) bool {
			// Leftward reversing self loops are only visible from this
			// side, so emit them here.
			if g.GetID(h) < g.GetID(prev) ||
				(g.GetID(h) == g.GetID(prev) && g.GetIsReverse(prev)) {
				return visit(EdgeHandle(g, prev, h))
			}
			return true
		})
	})
}

// complements maps each supported nucleotide character to its complement.
// Characters without a defined complement (such as N) pass through unchanged.
var complements = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c',
}

// ReverseComplement returns the reverse complement of a nucleotide sequence.
func ReverseComplement(sequence string) string {
	var sb strings.Builder
	sb.Grow(len(sequence))
	for i := len(sequence) - 1; i >= 0; i-- {
		c := sequence[i]
		if comp, ok := complements[c]; ok {
			c = comp
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
