// Package scenetest provides a scripted scene.Scene for tests.
package scenetest

import (
	"fmt"

	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/transform"
)

// Node is a scripted node. Pose, when set, returns the node's global
// transform at the scene's evaluated frame; otherwise Static is returned.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	scene    *Scene

	Static transform.Matrix
	Pose   func(frame int) transform.Matrix
}

// NewNode returns a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{name: name, Static: transform.Identity}
}

// Add appends children in order and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) Name() string { return n.name }

func (n *Node) Parent() scene.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []scene.Node {
	out := make([]scene.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) Transform() transform.Matrix {
	if n.Pose != nil && n.scene != nil {
		return n.Pose(n.scene.evaluated)
	}
	return n.Static
}

// Clip is a fixed-span clip.
type Clip struct {
	ClipName    string
	Start, Stop int
}

func (c *Clip) Name() string           { return c.ClipName }
func (c *Clip) Span() (start, stop int) { return c.Start, c.Stop }

// Scene records every evaluator call in Calls and fails an operation when
// Fail holds an error for it ("activate", "reevaluate", "seek", "step").
type Scene struct {
	model *Node
	clips []scene.Clip

	current   scene.Clip
	cursor    int
	evaluated int

	Calls []string
	Fail  map[string]error
}

// New builds a scene whose root model holds tops as top-level nodes. Top-level
// nodes report a nil parent.
func New(tops []*Node, clips ...*Clip) *Scene {
	s := &Scene{model: &Node{name: "Scene", Static: transform.Identity}, Fail: map[string]error{}}
	for _, top := range tops {
		s.model.children = append(s.model.children, top)
		s.bind(top)
	}
	for _, c := range clips {
		s.clips = append(s.clips, c)
	}
	return s
}

func (s *Scene) bind(n *Node) {
	n.scene = s
	for _, c := range n.children {
		s.bind(c)
	}
}

func (s *Scene) RootModel() scene.Node { return s.model }
func (s *Scene) Clips() []scene.Clip   { return s.clips }

// Current returns the active clip.
func (s *Scene) Current() scene.Clip { return s.current }

func (s *Scene) Activate(clip scene.Clip) error {
	s.Calls = append(s.Calls, "activate "+clip.Name())
	if err := s.Fail["activate"]; err != nil {
		return err
	}
	s.current = clip
	return nil
}

func (s *Scene) Reevaluate() error {
	s.Calls = append(s.Calls, "reevaluate")
	if err := s.Fail["reevaluate"]; err != nil {
		return err
	}
	s.evaluated = s.cursor
	return nil
}

func (s *Scene) Seek(frame int) error {
	s.Calls = append(s.Calls, fmt.Sprintf("seek %d", frame))
	if err := s.Fail["seek"]; err != nil {
		return err
	}
	s.cursor = frame
	return nil
}

func (s *Scene) Step() error {
	s.Calls = append(s.Calls, "step")
	if err := s.Fail["step"]; err != nil {
		return err
	}
	s.cursor++
	return nil
}
