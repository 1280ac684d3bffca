package handlegraph

// StepPositionVisitor receives a step, whether the step visits its node
// against the queried handle's orientation, and the 0-based position of the
// step along its path. Return false to stop iteration.
type StepPositionVisitor func(s StepHandle, isReverse bool, position int) bool

// PathPositionHandleGraph is a path handle graph that can report the
// positions of steps along their paths.
type PathPositionHandleGraph interface {
	PathHandleGraph

	// ForEachStepPositionOnHandle visits every step of any path on the
	// handle's node together with its path-relative position. Returns false
	// if the visitor stopped iteration early.
	ForEachStepPositionOnHandle(h Handle, visit StepPositionVisitor) bool
}
