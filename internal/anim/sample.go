// Package anim samples node transforms over a clip's time span.
package anim

import (
	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/transform"
)

// Sample returns n's transform relative to its parent at the current
// evaluation time. A node without a parent is the exported subtree root and
// gets the axis correction instead.
func Sample(n scene.Node) transform.Matrix {
	parent := n.Parent()
	if parent == nil {
		return transform.Multiply(n.Transform(), transform.AxisCorrection)
	}
	return transform.Multiply(n.Transform(), transform.Inverse(parent.Transform()))
}

// Snapshot samples every node, preserving order.
func Snapshot(nodes []scene.Node) []transform.Matrix {
	snap := make([]transform.Matrix, len(nodes))
	for i, n := range nodes {
		snap[i] = Sample(n)
	}
	return snap
}
