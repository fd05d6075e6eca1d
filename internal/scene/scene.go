// Package scene describes the authoring environment the exporter reads from:
// a node hierarchy, a set of clips, and the process-wide evaluation state that
// decides which clip and frame the hierarchy currently reflects.
//
// The exporter never mutates the graph. All calls against an Evaluator must be
// serialized by the caller.
package scene

import (
	"github.com/heimdex/bsi-exporter/internal/transform"
)

// Node is a read-only handle into the scene graph.
type Node interface {
	// Name is the export key. It is assumed unique within an exported subtree.
	Name() string
	// Parent returns nil for a top-level node.
	Parent() Node
	// Children returns the children in declared order.
	Children() []Node
	// Transform returns the node's transform at the current evaluation time,
	// in global space.
	Transform() transform.Matrix
}

// Clip is a named animation sequence. Span is inclusive, in frames.
type Clip interface {
	Name() string
	Span() (start, stop int)
}

// Evaluator owns the current clip and the time cursor.
type Evaluator interface {
	// Activate makes clip the current evaluation context.
	Activate(clip Clip) error
	// Reevaluate forces a full scene evaluation at the current time.
	Reevaluate() error
	// Seek moves the time cursor to frame.
	Seek(frame int) error
	// Step advances the time cursor by one frame.
	Step() error
}

// Scene is everything the exporter consumes from the environment.
type Scene interface {
	Evaluator
	// RootModel is the scene's root, used to locate export subjects by name.
	RootModel() Node
	Clips() []Clip
}

// FindClip returns the first clip named name, or nil.
func FindClip(s Scene, name string) Clip {
	for _, c := range s.Clips() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
