// Package algorithms provides graph algorithms that operate purely through
// the handlegraph interfaces: closest-first traversal, graph and path
// copying, and node chopping and unchopping.
package algorithms

import (
	"container/heap"

	"github.com/genomegraphs/handlegraph"
)

// DijkstraOptions adjust the closest-first traversal.
type DijkstraOptions struct {
	// TraverseLeftward walks left out of the starts instead of right.
	TraverseLeftward bool

	// Prune makes a stop signal from the callback cut the search off
	// beyond the current handle instead of aborting the whole traversal.
	Prune bool

	// CycleToStart allows a start handle to be reached again by a cycle,
	// at its cyclic distance, instead of being considered already visited.
	CycleToStart bool
}

// distanceRecord is a queue entry: a handle at a tentative distance.
type distanceRecord struct {
	distance int
	handle   handlegraph.Handle
}

type distanceQueue []distanceRecord

func (q distanceQueue) Len() int      { return len(q) }
func (q distanceQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q distanceQueue) Less(i, j int) bool {
	return q[i].distance < q[j].distance
}

func (q *distanceQueue) Push(x any) {
	*q = append(*q, x.(distanceRecord))
}

func (q *distanceQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	*q = old[:len(old)-1]
	return last
}

// DijkstraFrom runs Dijkstra from a single start handle.
func DijkstraFrom(g handlegraph.HandleGraph, start handlegraph.Handle,
	reached func(handlegraph.Handle, int) bool, opts DijkstraOptions) bool {
	return Dijkstra(g, []handlegraph.Handle{start}, reached, opts)
}

// Dijkstra walks out from the given start handles and visits every
// reachable handle (including the starts) once, in closest-first order,
// accounting for sequence lengths. Distances are measured between the
// outgoing side of the starts and the incoming side of each reached handle,
// so every start is at distance 0.
//
// The reached callback is called in ascending order of distance; returning
// false aborts the search, or prunes it beyond the current handle when
// opts.Prune is set. Returns true if the search terminated normally, and
// false if it was aborted or pruned.
func Dijkstra(g handlegraph.HandleGraph, starts []handlegraph.Handle,
	reached func(handlegraph.Handle, int) bool, opts DijkstraOptions) bool {

	isStart := make(map[handlegraph.Handle]bool, len(starts))
	for _, start := range starts {
		isStart[start] = true
	}

	// Handles may enter the queue several times at decreasing distances, so
	// entries coming out have to be checked against the visited set.
	visited := make(map[handlegraph.Handle]bool)
	stoppedEarly := false

	// The first time a start comes out of the queue is its seeding at
	// distance 0, which must not block a later cyclic visit.
	unseenStarts := make(map[handlegraph.Handle]bool)
	if opts.CycleToStart {
		for _, start := range starts {
			unseenStarts[start] = true
		}
	}

	queue := make(distanceQueue, 0, len(starts))
	for _, start := range starts {
		queue = append(queue, distanceRecord{distance: 0, handle: start})
	}
	heap.Init(&queue)

	for queue.Len() > 0 {
		record := heap.Pop(&queue).(distanceRecord)
		current, distance := record.handle, record.distance

		if opts.CycleToStart && unseenStarts[current] {
			// The very first visit to this start does not count as visited,
			// so a cycle can come back around to it.
			delete(unseenStarts, current)
		} else {
			if visited[current] {
				continue
			}
			visited[current] = true

			if !reached(current, distance) {
				if !opts.Prune {
					return false
				}
				// Leave this handle unexpanded and move on.
				stoppedEarly = true
				continue
			}
		}

		if !isStart[current] {
			// Distance grows by the node length, except out of the starts:
			// distance is counted from their outgoing side.
			distance += g.GetLength(current)
		}

		g.FollowEdges(current, opts.TraverseLeftward, handlegraph.Always(func(next handlegraph.Handle) {
			if !visited[next] {
				heap.Push(&queue, distanceRecord{distance: distance, handle: next})
			}
		}))
	}

	return !stoppedEarly
}
