// Package memgraph provides an in-memory reference implementation of the
// full mutable path handle graph interface stack.
//
// It is a lightweight, map-backed graph guarded by a read-write mutex.
// Iteration helpers snapshot the relevant keys under the read lock and
// visit them after releasing it, so visitors may re-enter or mutate the
// graph. Traversal order is deterministic: nodes in creation order, paths
// in creation order, and steps in path order.
//
// memgraph is a test collaborator and a usable small-graph implementation,
// not a succinct or persistent storage layer.
package memgraph

import (
	"fmt"
	"sync"

	"github.com/genomegraphs/handlegraph"
)

var (
	_ handlegraph.MutablePathDeletableHandleGraph = (*Graph)(nil)
	_ handlegraph.PathPositionHandleGraph         = (*Graph)(nil)
	_ handlegraph.SegmentHandleGraph              = (*Graph)(nil)
)

type node struct {
	id       handlegraph.NodeID
	sequence string
}

// Graph is a map-backed implementation of
// handlegraph.MutablePathDeletableHandleGraph,
// handlegraph.PathPositionHandleGraph, and handlegraph.SegmentHandleGraph.
type Graph struct {
	mu        sync.RWMutex
	nodes     map[handlegraph.NodeID]*node
	nodeOrder []handlegraph.NodeID

	// edges holds each edge once in canonical orientation; adjacency holds
	// both traversable representations keyed by the handle the edge leaves
	// from.
	edges     map[handlegraph.Edge]struct{}
	adjacency map[handlegraph.Handle][]handlegraph.Handle

	paths     map[uint64]*path
	pathOrder []uint64
	byName    map[string]uint64

	// stepIndex lists the steps on each node, in insertion order.
	stepIndex map[handlegraph.NodeID][]handlegraph.StepHandle

	nextNodeID handlegraph.NodeID
	nextPathID uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[handlegraph.NodeID]*node),
		edges:      make(map[handlegraph.Edge]struct{}),
		adjacency:  make(map[handlegraph.Handle][]handlegraph.Handle),
		paths:      make(map[uint64]*path),
		byName:     make(map[string]uint64),
		stepIndex:  make(map[handlegraph.NodeID][]handlegraph.StepHandle),
		nextNodeID: 1,
		nextPathID: 1,
	}
}

// Handles pack the node ID and an orientation bit. They are only meaningful
// to the graph that issued them.

func pack(id handlegraph.NodeID, isReverse bool) handlegraph.Handle {
	h := handlegraph.Handle(uint64(id) << 1)
	if isReverse {
		h |= 1
	}
	return h
}

func unpackID(h handlegraph.Handle) handlegraph.NodeID {
	return handlegraph.NodeID(uint64(h) >> 1)
}

func unpackIsReverse(h handlegraph.Handle) bool {
	return uint64(h)&1 == 1
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id handlegraph.NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// GetHandle returns the handle for the node in the requested orientation.
func (g *Graph) GetHandle(id handlegraph.NodeID, isReverse bool) handlegraph.Handle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.nodes[id]; !ok {
		panic(fmt.Sprintf("memgraph: no node with ID %d", id))
	}
	return pack(id, isReverse)
}

// GetID returns the ID of the node the handle refers to.
func (g *Graph) GetID(h handlegraph.Handle) handlegraph.NodeID {
	return unpackID(h)
}

// GetIsReverse reports whether the handle is in the reverse orientation.
func (g *Graph) GetIsReverse(h handlegraph.Handle) bool {
	return unpackIsReverse(h)
}

// Flip returns the handle for the same node in the opposite orientation.
func (g *Graph) Flip(h handlegraph.Handle) handlegraph.Handle {
	return h ^ 1
}

// GetLength returns the sequence length of the handle's node.
func (g *Graph) GetLength(h handlegraph.Handle) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.mustNode(unpackID(h)).sequence)
}

// GetSequence returns the sequence of the node in the handle's orientation.
func (g *Graph) GetSequence(h handlegraph.Handle) string {
	g.mu.RLock()
	sequence := g.mustNode(unpackID(h)).sequence
	g.mu.RUnlock()
	if unpackIsReverse(h) {
		return handlegraph.ReverseComplement(sequence)
	}
	return sequence
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// MinNodeID returns the smallest node ID in the graph, or 0 when empty.
func (g *Graph) MinNodeID() handlegraph.NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var minID handlegraph.NodeID
	for id := range g.nodes {
		if minID == 0 || id < minID {
			minID = id
		}
	}
	return minID
}

// MaxNodeID returns the largest node ID in the graph, or 0 when empty.
func (g *Graph) MaxNodeID() handlegraph.NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var maxID handlegraph.NodeID
	for id := range g.nodes {
		if id > maxID {
			maxID = id
		}
	}
	return maxID
}

// FollowEdges visits the neighbors of h on its right side, or its left side
// when goLeft is true.
func (g *Graph) FollowEdges(h handlegraph.Handle, goLeft bool, visit handlegraph.Visitor[handlegraph.Handle]) bool {
	// Leftward neighbors of h are the flipped rightward neighbors of
	// flip(h).
	from := h
	if goLeft {
		from = g.Flip(h)
	}

	g.mu.RLock()
	neighbors := make([]handlegraph.Handle, len(g.adjacency[from]))
	copy(neighbors, g.adjacency[from])
	g.mu.RUnlock()

	for _, next := range neighbors {
		if goLeft {
			next = g.Flip(next)
		}
		if !visit(next) {
			return false
		}
	}
	return true
}

// ForEachHandle visits every node once, in creation order, in its forward
// orientation.
func (g *Graph) ForEachHandle(visit handlegraph.Visitor[handlegraph.Handle]) bool {
	g.mu.RLock()
	order := make([]handlegraph.NodeID, len(g.nodeOrder))
	copy(order, g.nodeOrder)
	g.mu.RUnlock()

	for _, id := range order {
		if !g.HasNode(id) {
			// Destroyed by the visitor mid-iteration.
			continue
		}
		if !visit(pack(id, false)) {
			return false
		}
	}
	return true
}

// CreateHandle creates a new node with the given sequence and the next free
// ID.
func (g *Graph) CreateHandle(sequence string) handlegraph.Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createNode(sequence, g.nextNodeID)
}

// CreateHandleWithID creates a new node with the given sequence and ID.
func (g *Graph) CreateHandleWithID(sequence string, id handlegraph.NodeID) handlegraph.Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[id]; ok {
		panic(fmt.Sprintf("memgraph: node with ID %d already exists", id))
	}
	return g.createNode(sequence, id)
}

// createNode inserts a node record. Must be called with the write lock held.
func (g *Graph) createNode(sequence string, id handlegraph.NodeID) handlegraph.Handle {
	g.nodes[id] = &node{id: id, sequence: sequence}
	g.nodeOrder = append(g.nodeOrder, id)
	if id >= g.nextNodeID {
		g.nextNodeID = id + 1
	}
	return pack(id, false)
}

// CreateEdge connects the right side of left to the left side of right.
// Existing edges are ignored.
func (g *Graph) CreateEdge(left, right handlegraph.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createEdgeLocked(left, right)
}

func (g *Graph) createEdgeLocked(left, right handlegraph.Handle) {
	canonical := g.canonicalEdge(left, right)
	if _, ok := g.edges[canonical]; ok {
		return
	}
	g.edges[canonical] = struct{}{}

	g.adjacency[left] = append(g.adjacency[left], right)
	if left != g.Flip(right) {
		// The mirrored representation is distinct, so index it too.
		g.adjacency[g.Flip(right)] = append(g.adjacency[g.Flip(right)], g.Flip(left))
	}
}

// canonicalEdge picks the smaller of the two equivalent representations.
func (g *Graph) canonicalEdge(left, right handlegraph.Handle) handlegraph.Edge {
	flipped := handlegraph.Edge{From: g.Flip(right), To: g.Flip(left)}
	forward := handlegraph.Edge{From: left, To: right}
	if flipped.From < forward.From || (flipped.From == forward.From && flipped.To < forward.To) {
		return flipped
	}
	return forward
}

// DestroyEdge removes the edge from the right side of left to the left side
// of right, if it exists.
func (g *Graph) DestroyEdge(left, right handlegraph.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.destroyEdgeLocked(left, right)
}

func (g *Graph) destroyEdgeLocked(left, right handlegraph.Handle) {
	canonical := g.canonicalEdge(left, right)
	if _, ok := g.edges[canonical]; !ok {
		return
	}
	delete(g.edges, canonical)
	g.adjacency[left] = removeHandle(g.adjacency[left], right)
	if left != g.Flip(right) {
		g.adjacency[g.Flip(right)] = removeHandle(g.adjacency[g.Flip(right)], g.Flip(left))
	}
}

func removeHandle(handles []handlegraph.Handle, h handlegraph.Handle) []handlegraph.Handle {
	for i, other := range handles {
		if other == h {
			return append(handles[:i], handles[i+1:]...)
		}
	}
	return handles
}

// DestroyHandle removes the node and all edges on it. The node must be free
// of path steps.
func (g *Graph) DestroyHandle(h handlegraph.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.destroyHandleLocked(h)
}

func (g *Graph) destroyHandleLocked(h handlegraph.Handle) {
	id := unpackID(h)
	if len(g.stepIndex[id]) > 0 {
		panic(fmt.Sprintf("memgraph: cannot destroy node %d with %d path steps on it",
			id, len(g.stepIndex[id])))
	}
	g.destroyNodeEdgesLocked(id)
	delete(g.nodes, id)
	delete(g.stepIndex, id)
	for i, other := range g.nodeOrder {
		if other == id {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}
}

// destroyNodeEdgesLocked removes every edge incident to the node.
func (g *Graph) destroyNodeEdgesLocked(id handlegraph.NodeID) {
	for _, from := range []handlegraph.Handle{pack(id, false), pack(id, true)} {
		for len(g.adjacency[from]) > 0 {
			g.destroyEdgeLocked(from, g.adjacency[from][0])
		}
		delete(g.adjacency, from)
	}
}

// Clear removes all nodes, edges, and paths.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = make(map[handlegraph.NodeID]*node)
	g.nodeOrder = nil
	g.edges = make(map[handlegraph.Edge]struct{})
	g.adjacency = make(map[handlegraph.Handle][]handlegraph.Handle)
	g.paths = make(map[uint64]*path)
	g.pathOrder = nil
	g.byName = make(map[string]uint64)
	g.stepIndex = make(map[handlegraph.NodeID][]handlegraph.StepHandle)
	g.nextNodeID = 1
	g.nextPathID = 1
}

// ApplyOrdering reorders node traversal to match the given complete
// ordering of forward handles.
func (g *Graph) ApplyOrdering(order []handlegraph.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(order) != len(g.nodes) {
		panic(fmt.Sprintf("memgraph: ordering of %d handles does not cover %d nodes",
			len(order), len(g.nodes)))
	}
	ids := make([]handlegraph.NodeID, 0, len(order))
	for _, h := range order {
		ids = append(ids, unpackID(h))
	}
	g.nodeOrder = ids
}

// ApplyOrientation makes the handle's orientation the node's local forward
// orientation, rewriting the sequence, the edges, and the path steps
// through the node. Returns the node's new forward handle.
func (g *Graph) ApplyOrientation(h handlegraph.Handle) handlegraph.Handle {
	if !unpackIsReverse(h) {
		// Already forward.
		return h
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := unpackID(h)
	n := g.mustNode(id)
	n.sequence = handlegraph.ReverseComplement(n.sequence)

	fwd, rev := pack(id, false), pack(id, true)
	swap := func(x handlegraph.Handle) handlegraph.Handle {
		switch x {
		case fwd:
			return rev
		case rev:
			return fwd
		default:
			return x
		}
	}

	// Re-key every incident edge with the node's orientations exchanged.
	var incident []handlegraph.Edge
	for e := range g.edges {
		if unpackID(e.From) == id || unpackID(e.To) == id {
			incident = append(incident, e)
		}
	}
	for _, e := range incident {
		g.destroyEdgeLocked(e.From, e.To)
	}
	for _, e := range incident {
		g.createEdgeLocked(swap(e.From), swap(e.To))
	}

	// Flip the steps through the node.
	for _, s := range g.stepIndex[id] {
		st := g.mustStep(s)
		st.handle = swap(st.handle)
	}

	return fwd
}

// DivideHandle splits the node at the given ascending offsets, interpreted
// in the handle's orientation. Stored paths are rewritten so that every
// path spells the same sequence before and after. The original node is
// destroyed; the parts are new nodes.
func (g *Graph) DivideHandle(h handlegraph.Handle, offsets []int) []handlegraph.Handle {
	sequence := g.GetSequence(h)

	// Cut the oriented sequence into pieces.
	pieces := make([]string, 0, len(offsets)+1)
	at := 0
	for _, offset := range offsets {
		pieces = append(pieces, sequence[at:offset])
		at = offset
	}
	pieces = append(pieces, sequence[at:])

	g.mu.Lock()
	defer g.mu.Unlock()

	parts := make([]handlegraph.Handle, 0, len(pieces))
	for _, piece := range pieces {
		parts = append(parts, g.createNode(piece, g.nextNodeID))
	}
	first, last := parts[0], parts[len(parts)-1]

	// Wire the chain of parts together.
	for i := 0; i+1 < len(parts); i++ {
		g.createEdgeLocked(parts[i], parts[i+1])
	}

	// Transfer the edges off both sides of the original, translating self
	// loops onto the chain ends.
	for _, next := range append([]handlegraph.Handle(nil), g.adjacency[h]...) {
		switch next {
		case h:
			g.createEdgeLocked(last, first)
		case g.Flip(h):
			g.createEdgeLocked(last, g.Flip(last))
		default:
			g.createEdgeLocked(last, next)
		}
	}
	for _, prevFlipped := range append([]handlegraph.Handle(nil), g.adjacency[g.Flip(h)]...) {
		prev := g.Flip(prevFlipped)
		switch prev {
		case h:
			// Already handled as a rightward self loop.
		case g.Flip(h):
			g.createEdgeLocked(g.Flip(first), first)
		default:
			g.createEdgeLocked(prev, first)
		}
	}

	// Rewrite every step through the original node with the chain, flipped
	// for steps that traverse it against the handle's orientation.
	forwardRun := parts
	reverseRun := make([]handlegraph.Handle, len(parts))
	for i, part := range parts {
		reverseRun[len(parts)-1-i] = g.Flip(part)
	}

	id := unpackID(h)
	steps := append([]handlegraph.StepHandle(nil), g.stepIndex[id]...)
	for _, s := range steps {
		st := g.mustStep(s)
		run := forwardRun
		if st.handle != h {
			run = reverseRun
		}
		// Replace exactly this step, by its physical successor, so a
		// circular path cannot make the range wrap.
		g.rewriteSegmentLocked(s, stepHandleOf(s[0], st.next), run)
	}

	g.destroyHandleLocked(h)
	return parts
}

func (g *Graph) mustNode(id handlegraph.NodeID) *node {
	n, ok := g.nodes[id]
	if !ok {
		panic(fmt.Sprintf("memgraph: no node with ID %d", id))
	}
	return n
}
