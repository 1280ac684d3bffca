package handlegraph

// PathHandleGraph is the interface for a handle graph that stores embedded
// paths.
type PathHandleGraph interface {
	HandleGraph

	// PathCount returns the number of paths stored in the graph.
	PathCount() int

	// HasPath reports whether a path with the given name exists.
	HasPath(name string) bool

	// GetPathHandle returns the handle for the path with the given name.
	// The path must exist.
	GetPathHandle(name string) PathHandle

	// GetPathName returns the stored name of the path.
	GetPathName(p PathHandle) string

	// GetIsCircular reports whether the path is circular.
	GetIsCircular(p PathHandle) bool

	// StepCount returns the number of steps in the path.
	StepCount(p PathHandle) int

	// GetHandleOfStep returns the node handle (ID and orientation) the step
	// visits.
	GetHandleOfStep(s StepHandle) Handle

	// GetPathHandleOfStep returns the path the step belongs to.
	GetPathHandleOfStep(s StepHandle) PathHandle

	// PathBegin returns the first step, or in a circular path an arbitrary
	// step considered "first". If the path is empty, returns PathEnd.
	PathBegin(p PathHandle) StepHandle

	// PathEnd returns a fictitious step past the end of the path. GetNextStep
	// returns it after the final step of a non-circular path, and never
	// returns it for a circular path.
	PathEnd(p PathHandle) StepHandle

	// GetNextStep returns the step after s on its path. On the final step of
	// a non-circular path it returns PathEnd; on a circular path the last
	// step loops around to PathBegin.
	GetNextStep(s StepHandle) StepHandle

	// GetPreviousStep returns the step before s on its path. On the first
	// step of a non-circular path the result is undefined; on a circular
	// path the first step loops around to the last.
	GetPreviousStep(s StepHandle) StepHandle

	// ForEachPathHandle visits every path in the graph. Returns false if the
	// visitor stopped iteration early.
	ForEachPathHandle(visit Visitor[PathHandle]) bool

	// ForEachStepOnHandle visits every step of any path on the handle's
	// node, in either orientation. Returns false if the visitor stopped
	// iteration early.
	ForEachStepOnHandle(h Handle, visit Visitor[StepHandle]) bool
}

// StepsOfHandle returns all steps of any path on the handle's node. If
// matchOrientation is true, only steps that visit the node in the handle's
// orientation are returned.
func StepsOfHandle(g PathHandleGraph, h Handle, matchOrientation bool) []StepHandle {
	var steps []StepHandle
	g.ForEachStepOnHandle(h, Always(func(s StepHandle) {
		if !matchOrientation || g.GetIsReverse(h) == g.GetIsReverse(g.GetHandleOfStep(s)) {
			steps = append(steps, s)
		}
	}))
	return steps
}

// IsEmpty reports whether the path has no steps.
func IsEmpty(g PathHandleGraph, p PathHandle) bool {
	return g.StepCount(p) == 0
}

// ForEachStepInPath visits each step of the path exactly once, starting at
// PathBegin, even for circular paths. Returns false if the visitor stopped
// iteration early.
func ForEachStepInPath(g PathHandleGraph, p PathHandle, visit Visitor[StepHandle]) bool {
	// Where iteration should stop: back at the beginning in a circular
	// path, past the end otherwise.
	end := g.PathEnd(p)
	if g.GetIsCircular(p) {
		end = g.PathBegin(p)
	}

	// A non-empty circular path starts out at its ending condition.
	ignoreEnd := g.GetIsCircular(p) && !IsEmpty(g, p)

	for here := g.PathBegin(p); ignoreEnd || here != end; here = g.GetNextStep(here) {
		if !visit(here) {
			return false
		}
		ignoreEnd = false
	}
	return true
}

// ScanPath returns the handles visited by the path, in path order.
func ScanPath(g PathHandleGraph, p PathHandle) []Handle {
	handles := make([]Handle, 0, g.StepCount(p))
	ForEachStepInPath(g, p, Always(func(s StepHandle) {
		handles = append(handles, g.GetHandleOfStep(s))
	}))
	return handles
}

// PathSequence returns the string a path spells out, concatenating the
// oriented sequences of its steps.
func PathSequence(g PathHandleGraph, p PathHandle) string {
	var sb []byte
	ForEachStepInPath(g, p, Always(func(s StepHandle) {
		sb = append(sb, g.GetSequence(g.GetHandleOfStep(s))...)
	}))
	return string(sb)
}
