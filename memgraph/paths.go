package memgraph

import (
	"fmt"

	"github.com/genomegraphs/handlegraph"
)

// step is one visit of a path to a handle, linked to its neighbors by
// path-local step IDs. ID 0 is reserved for "none" and for the
// past-the-end sentinel.
type step struct {
	handle handlegraph.Handle
	prev   uint64
	next   uint64
}

type path struct {
	id       uint64
	name     string
	circular bool
	steps    map[uint64]*step
	head     uint64
	tail     uint64
	nextStep uint64
}

// Step handles pack the path ID and a stable path-local step ID, so they
// survive mutation of other steps on the same path.

func stepHandleOf(pathID, stepID uint64) handlegraph.StepHandle {
	return handlegraph.StepHandle{pathID, stepID}
}

// PathCount returns the number of paths stored in the graph.
func (g *Graph) PathCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.paths)
}

// HasPath reports whether a path with the given name exists.
func (g *Graph) HasPath(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.byName[name]
	return ok
}

// GetPathHandle returns the handle for the path with the given name.
func (g *Graph) GetPathHandle(name string) handlegraph.PathHandle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.byName[name]
	if !ok {
		panic(fmt.Sprintf("memgraph: no path named %q", name))
	}
	return handlegraph.PathHandle(id)
}

// GetPathName returns the stored name of the path.
func (g *Graph) GetPathName(p handlegraph.PathHandle) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mustPath(p).name
}

// GetIsCircular reports whether the path is circular.
func (g *Graph) GetIsCircular(p handlegraph.PathHandle) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mustPath(p).circular
}

// StepCount returns the number of steps in the path.
func (g *Graph) StepCount(p handlegraph.PathHandle) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.mustPath(p).steps)
}

// GetHandleOfStep returns the node handle the step visits.
func (g *Graph) GetHandleOfStep(s handlegraph.StepHandle) handlegraph.Handle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mustStep(s).handle
}

// GetPathHandleOfStep returns the path the step belongs to.
func (g *Graph) GetPathHandleOfStep(s handlegraph.StepHandle) handlegraph.PathHandle {
	return handlegraph.PathHandle(s[0])
}

// PathBegin returns the first step of the path, or PathEnd when it is
// empty.
func (g *Graph) PathBegin(p handlegraph.PathHandle) handlegraph.StepHandle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return stepHandleOf(uint64(p), g.mustPath(p).head)
}

// PathEnd returns the past-the-end sentinel step of the path.
func (g *Graph) PathEnd(p handlegraph.PathHandle) handlegraph.StepHandle {
	return stepHandleOf(uint64(p), 0)
}

// GetNextStep returns the step after s on its path, the past-the-end
// sentinel after the final step of a linear path, or the first step after
// the final step of a circular path.
func (g *Graph) GetNextStep(s handlegraph.StepHandle) handlegraph.StepHandle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nextStepLocked(s)
}

func (g *Graph) nextStepLocked(s handlegraph.StepHandle) handlegraph.StepHandle {
	pth := g.paths[s[0]]
	if s[1] == 0 {
		// Past the end already.
		return s
	}
	st := g.mustStep(s)
	if st.next == 0 {
		if pth.circular {
			return stepHandleOf(s[0], pth.head)
		}
		return stepHandleOf(s[0], 0)
	}
	return stepHandleOf(s[0], st.next)
}

// GetPreviousStep returns the step before s on its path. On the first step
// of a circular path it loops around to the last step; on the first step of
// a linear path the result is unspecified.
func (g *Graph) GetPreviousStep(s handlegraph.StepHandle) handlegraph.StepHandle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pth := g.paths[s[0]]
	if s[1] == 0 {
		// The step before past-the-end is the last step.
		return stepHandleOf(s[0], pth.tail)
	}
	st := g.mustStep(s)
	if st.prev == 0 {
		if pth.circular {
			return stepHandleOf(s[0], pth.tail)
		}
		return stepHandleOf(s[0], 0)
	}
	return stepHandleOf(s[0], st.prev)
}

// ForEachPathHandle visits every path, in creation order.
func (g *Graph) ForEachPathHandle(visit handlegraph.Visitor[handlegraph.PathHandle]) bool {
	g.mu.RLock()
	order := make([]uint64, len(g.pathOrder))
	copy(order, g.pathOrder)
	g.mu.RUnlock()

	for _, id := range order {
		g.mu.RLock()
		_, alive := g.paths[id]
		g.mu.RUnlock()
		if !alive {
			continue
		}
		if !visit(handlegraph.PathHandle(id)) {
			return false
		}
	}
	return true
}

// ForEachStepOnHandle visits every step of any path on the handle's node,
// in either orientation, in insertion order.
func (g *Graph) ForEachStepOnHandle(h handlegraph.Handle, visit handlegraph.Visitor[handlegraph.StepHandle]) bool {
	g.mu.RLock()
	steps := append([]handlegraph.StepHandle(nil), g.stepIndex[unpackID(h)]...)
	g.mu.RUnlock()

	for _, s := range steps {
		if !visit(s) {
			return false
		}
	}
	return true
}

// CreatePathHandle creates a new empty path with the given name. Duplicate
// names are refused.
func (g *Graph) CreatePathHandle(name string, isCircular bool) (handlegraph.PathHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.byName[name]; ok {
		return 0, fmt.Errorf("path %q already exists", name)
	}

	id := g.nextPathID
	g.nextPathID++
	g.paths[id] = &path{
		id:       id,
		name:     name,
		circular: isCircular,
		steps:    make(map[uint64]*step),
		nextStep: 1,
	}
	g.pathOrder = append(g.pathOrder, id)
	g.byName[name] = id
	return handlegraph.PathHandle(id), nil
}

// DestroyPath removes the path and all its steps.
func (g *Graph) DestroyPath(p handlegraph.PathHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pth := g.mustPath(p)
	for stepID := range pth.steps {
		g.unindexStep(stepHandleOf(pth.id, stepID))
	}
	delete(g.paths, pth.id)
	delete(g.byName, pth.name)
	for i, other := range g.pathOrder {
		if other == pth.id {
			g.pathOrder = append(g.pathOrder[:i], g.pathOrder[i+1:]...)
			break
		}
	}
}

// AppendStep adds a visit to the handle at the end of the path.
func (g *Graph) AppendStep(p handlegraph.PathHandle, h handlegraph.Handle) handlegraph.StepHandle {
	g.mu.Lock()
	defer g.mu.Unlock()

	pth := g.mustPath(p)
	s := g.insertStepLocked(pth, h, pth.tail, 0)
	return s
}

// PrependStep adds a visit to the handle before the first step of the path.
func (g *Graph) PrependStep(p handlegraph.PathHandle, h handlegraph.Handle) handlegraph.StepHandle {
	g.mu.Lock()
	defer g.mu.Unlock()

	pth := g.mustPath(p)
	s := g.insertStepLocked(pth, h, 0, pth.head)
	return s
}

// insertStepLocked links a new step between prevID and nextID (0 meaning
// the respective end of the path). Must be called with the write lock held.
func (g *Graph) insertStepLocked(pth *path, h handlegraph.Handle, prevID, nextID uint64) handlegraph.StepHandle {
	stepID := pth.nextStep
	pth.nextStep++
	pth.steps[stepID] = &step{handle: h, prev: prevID, next: nextID}

	if prevID == 0 {
		pth.head = stepID
	} else {
		pth.steps[prevID].next = stepID
	}
	if nextID == 0 {
		pth.tail = stepID
	} else {
		pth.steps[nextID].prev = stepID
	}

	s := stepHandleOf(pth.id, stepID)
	id := unpackID(h)
	g.stepIndex[id] = append(g.stepIndex[id], s)
	return s
}

// RewriteSegment replaces the half-open range of steps [begin, end) with
// visits to the given handles, and returns the new range.
func (g *Graph) RewriteSegment(begin, end handlegraph.StepHandle, newSegment []handlegraph.Handle) (handlegraph.StepHandle, handlegraph.StepHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rewriteSegmentLocked(begin, end, newSegment)
}

func (g *Graph) rewriteSegmentLocked(begin, end handlegraph.StepHandle, newSegment []handlegraph.Handle) (handlegraph.StepHandle, handlegraph.StepHandle) {
	if begin[0] != end[0] {
		panic("memgraph: rewrite range spans two paths")
	}
	pth := g.paths[begin[0]]
	if pth == nil {
		panic(fmt.Sprintf("memgraph: no path with ID %d", begin[0]))
	}

	// Find the neighbors the new run must splice between.
	var prevID uint64
	if begin[1] != 0 {
		prevID = pth.steps[begin[1]].prev
	} else {
		// Rewriting at the past-the-end position appends.
		prevID = pth.tail
	}

	// Unlink and unindex the old range.
	s := begin
	for s[1] != 0 && s != end {
		st := pth.steps[s[1]]
		g.unindexStep(s)
		next := st.next
		delete(pth.steps, s[1])
		s = stepHandleOf(pth.id, next)
	}

	nextID := end[1]
	if s != end {
		// Removal ran off the physical end of the step list, so the range
		// wrapped around a circular path and the replacement attaches at
		// the tail.
		nextID = 0
	}

	// Splice in the replacement run.
	firstNew := nextID
	lastNew := prevID
	for _, h := range newSegment {
		s := g.insertStepLocked(pth, h, lastNew, nextID)
		if lastNew == prevID {
			firstNew = s[1]
		}
		lastNew = s[1]
	}

	if len(newSegment) == 0 {
		// Close the gap the removal left.
		if prevID == 0 {
			pth.head = nextID
		} else {
			pth.steps[prevID].next = nextID
		}
		if nextID == 0 {
			pth.tail = prevID
		} else {
			pth.steps[nextID].prev = prevID
		}
		return end, end
	}

	return stepHandleOf(pth.id, firstNew), end
}

// unindexStep removes a step from the per-node step index. Must be called
// with the write lock held.
func (g *Graph) unindexStep(s handlegraph.StepHandle) {
	pth := g.paths[s[0]]
	st := pth.steps[s[1]]
	id := unpackID(st.handle)
	steps := g.stepIndex[id]
	for i, other := range steps {
		if other == s {
			g.stepIndex[id] = append(steps[:i], steps[i+1:]...)
			break
		}
	}
}

// SetCircularity makes the path circular or linear.
func (g *Graph) SetCircularity(p handlegraph.PathHandle, circular bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mustPath(p).circular = circular
}

// ForEachStepPositionOnHandle visits every step on the handle's node along
// with whether the step opposes the handle's orientation and the 0-based
// base offset of the step along its path.
func (g *Graph) ForEachStepPositionOnHandle(h handlegraph.Handle, visit handlegraph.StepPositionVisitor) bool {
	type record struct {
		step      handlegraph.StepHandle
		isReverse bool
		position  int
	}

	id := unpackID(h)

	g.mu.RLock()
	positions := make(map[handlegraph.StepHandle]int)
	walked := make(map[uint64]bool)
	for _, s := range g.stepIndex[id] {
		if walked[s[0]] {
			continue
		}
		walked[s[0]] = true
		// Walk the whole path once, accumulating base offsets.
		pth := g.paths[s[0]]
		offset := 0
		for stepID := pth.head; stepID != 0; stepID = pth.steps[stepID].next {
			positions[stepHandleOf(pth.id, stepID)] = offset
			offset += len(g.mustNode(unpackID(pth.steps[stepID].handle)).sequence)
		}
	}

	records := make([]record, 0, len(g.stepIndex[id]))
	for _, s := range g.stepIndex[id] {
		st := g.mustStep(s)
		records = append(records, record{
			step:      s,
			isReverse: unpackIsReverse(st.handle) != unpackIsReverse(h),
			position:  positions[s],
		})
	}
	g.mu.RUnlock()

	for _, r := range records {
		if !visit(r.step, r.isReverse, r.position) {
			return false
		}
	}
	return true
}

func (g *Graph) mustPath(p handlegraph.PathHandle) *path {
	pth, ok := g.paths[uint64(p)]
	if !ok {
		panic(fmt.Sprintf("memgraph: no path with ID %d", uint64(p)))
	}
	return pth
}

func (g *Graph) mustStep(s handlegraph.StepHandle) *step {
	pth, ok := g.paths[s[0]]
	if !ok {
		panic(fmt.Sprintf("memgraph: no path with ID %d", s[0]))
	}
	st, ok := pth.steps[s[1]]
	if !ok {
		panic(fmt.Sprintf("memgraph: no step %d on path %q", s[1], pth.name))
	}
	return st
}
