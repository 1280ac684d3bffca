package algorithms

import "github.com/genomegraphs/handlegraph"

// Chop divides every node longer than maxNodeLength into pieces of at most
// that length, left to right in the node's forward orientation. Embedded
// paths are carried through the divisions and spell the same sequences
// afterwards.
func Chop(g handlegraph.MutableHandleGraph, maxNodeLength int) {
	// Snapshot the nodes to split before mutating anything.
	var oversized []handlegraph.Handle
	g.ForEachHandle(handlegraph.Always(func(h handlegraph.Handle) {
		if g.GetLength(h) > maxNodeLength {
			oversized = append(oversized, h)
		}
	}))

	for _, h := range oversized {
		length := g.GetLength(h)
		offsets := make([]int, 0, (length-1)/maxNodeLength)
		for offset := maxNodeLength; offset < length; offset += maxNodeLength {
			offsets = append(offsets, offset)
		}
		g.DivideHandle(h, offsets)
	}
}
