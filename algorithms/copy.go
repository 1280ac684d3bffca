package algorithms

import (
	"fmt"

	"github.com/genomegraphs/handlegraph"
)

// CopyHandleGraph copies every node and edge of from into into, preserving
// node IDs. The target is not required to be empty, so a graph can be
// appended onto another.
func CopyHandleGraph(from handlegraph.HandleGraph, into handlegraph.MutableHandleGraph) {
	from.ForEachHandle(handlegraph.Always(func(h handlegraph.Handle) {
		into.CreateHandleWithID(from.GetSequence(h), from.GetID(h))
	}))

	handlegraph.ForEachEdge(from, handlegraph.Always(func(e handlegraph.Edge) {
		into.CreateEdge(
			into.GetHandle(from.GetID(e.From), from.GetIsReverse(e.From)),
			into.GetHandle(from.GetID(e.To), from.GetIsReverse(e.To)),
		)
	}))
}

// CopyPathHandleGraph copies the topology and then every path of from into
// into, sense by sense: reference paths first, then generic, then
// haplotype. Fails if a path's name collides with one already in the target.
func CopyPathHandleGraph(from handlegraph.PathHandleGraph, into handlegraph.MutablePathMutableHandleGraph) error {
	CopyHandleGraph(from, into)

	var err error
	for _, sense := range []handlegraph.Sense{
		handlegraph.SenseReference,
		handlegraph.SenseGeneric,
		handlegraph.SenseHaplotype,
	} {
		handlegraph.ForEachPathOfSense(from, sense, func(p handlegraph.PathHandle) bool {
			err = CopyPath(from, p, into)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyPath re-creates the path in the target graph from its metadata and
// appends its steps. The nodes it visits must already exist in the target
// with the same IDs.
func CopyPath(from handlegraph.PathHandleGraph, path handlegraph.PathHandle,
	into handlegraph.MutablePathHandleGraph) error {

	copied, err := handlegraph.CreatePath(into,
		handlegraph.GetMetadata(from, path), from.GetIsCircular(path))
	if err != nil {
		return fmt.Errorf("copying path %q: %w", from.GetPathName(path), err)
	}

	for _, h := range handlegraph.ScanPath(from, path) {
		into.AppendStep(copied, into.GetHandle(from.GetID(h), from.GetIsReverse(h)))
	}
	return nil
}
