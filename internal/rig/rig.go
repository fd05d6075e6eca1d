package rig

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/transform"
)

// Rig is an in-memory scene. Like the authoring environment it emulates, its
// evaluation state is process-wide: callers serialize Activate, Seek, Step and
// Reevaluate.
type Rig struct {
	model *Node
	nodes []*Node
	takes []*Take

	current *Take
	frame   int
}

type Node struct {
	name     string
	parent   *Node
	children []*Node
	rest     pose
	world    transform.Matrix
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

// Transform returns the global transform computed by the last Reevaluate.
func (n *Node) Transform() transform.Matrix { return n.world }

type Take struct {
	name        string
	start, stop int
	tracks      map[*Node]*track
}

func (t *Take) Name() string           { return t.name }
func (t *Take) Span() (start, stop int) { return t.start, t.stop }

// Build validates doc and returns a rig evaluated at its rest pose.
func Build(doc Document) (*Rig, error) {
	r := &Rig{model: &Node{name: "Scene", world: transform.Identity}}
	byName := map[string]*Node{}

	var add func(spec NodeSpec, parent *Node) (*Node, error)
	add = func(spec NodeSpec, parent *Node) (*Node, error) {
		if spec.Name == "" {
			return nil, invalid("node without name")
		}
		if _, dup := byName[spec.Name]; dup {
			return nil, invalid("duplicate node %q", spec.Name)
		}
		rest, err := restPose(spec)
		if err != nil {
			return nil, err
		}
		n := &Node{name: spec.Name, parent: parent, rest: rest}
		byName[n.name] = n
		r.nodes = append(r.nodes, n)
		for _, cs := range spec.Children {
			c, err := add(cs, n)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, c)
		}
		return n, nil
	}

	for _, spec := range doc.Nodes {
		top, err := add(spec, nil)
		if err != nil {
			return nil, err
		}
		r.model.children = append(r.model.children, top)
	}

	seen := map[string]bool{}
	for _, ts := range doc.Takes {
		if ts.Name == "" {
			return nil, invalid("take without name")
		}
		if seen[ts.Name] {
			return nil, invalid("duplicate take %q", ts.Name)
		}
		seen[ts.Name] = true

		take := &Take{name: ts.Name, start: ts.Start, stop: ts.Stop, tracks: map[*Node]*track{}}
		names := make([]string, 0, len(ts.Tracks))
		for name := range ts.Tracks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			n, ok := byName[name]
			if !ok {
				return nil, invalid("take %q animates unknown node %q", ts.Name, name)
			}
			tr, err := newTrack(ts.Tracks[name])
			if err != nil {
				return nil, fmt.Errorf("take %q node %q: %w", ts.Name, name, err)
			}
			take.tracks[n] = tr
		}
		r.takes = append(r.takes, take)
	}

	r.evaluate()
	return r, nil
}

func (r *Rig) RootModel() scene.Node { return r.model }

func (r *Rig) Clips() []scene.Clip {
	out := make([]scene.Clip, len(r.takes))
	for i, t := range r.takes {
		out[i] = t
	}
	return out
}

// Node returns the node named name, or nil.
func (r *Rig) Node(name string) *Node {
	for _, n := range r.nodes {
		if n.name == name {
			return n
		}
	}
	return nil
}

// Current returns the active take, or nil.
func (r *Rig) Current() *Take { return r.current }

// Frame returns the time cursor.
func (r *Rig) Frame() int { return r.frame }

func (r *Rig) Activate(clip scene.Clip) error {
	for _, t := range r.takes {
		if t.name == clip.Name() {
			r.current = t
			return nil
		}
	}
	return fmt.Errorf("take %q is not part of the rig", clip.Name())
}

func (r *Rig) Reevaluate() error {
	r.evaluate()
	return nil
}

func (r *Rig) Seek(frame int) error {
	if r.current == nil {
		return fmt.Errorf("seek to frame %d: no active take", frame)
	}
	r.frame = frame
	return nil
}

func (r *Rig) Step() error {
	if r.current == nil {
		return fmt.Errorf("step: no active take")
	}
	r.frame++
	return nil
}

// evaluate recomputes every node's global transform; parents are always
// visited before their children because r.nodes is in depth-first order.
func (r *Rig) evaluate() {
	for _, n := range r.nodes {
		p := n.rest
		if r.current != nil {
			if tr, ok := r.current.tracks[n]; ok {
				p = tr.sample(r.frame, n.rest)
			}
		}
		local := p.matrix()
		if n.parent != nil {
			n.world = transform.Multiply(local, n.parent.world)
		} else {
			n.world = local
		}
	}
}

type pose struct {
	translate mgl64.Vec3
	rotate    mgl64.Quat
	scale     mgl64.Vec3
}

// matrix returns S·R·T in row-vector form. mgl64 builds T·R·S for column
// vectors; its column-major storage read row-major is exactly the transpose.
func (p pose) matrix() transform.Matrix {
	m := mgl64.Translate3D(p.translate[0], p.translate[1], p.translate[2]).
		Mul4(p.rotate.Mat4()).
		Mul4(mgl64.Scale3D(p.scale[0], p.scale[1], p.scale[2]))
	return transform.Matrix(m)
}

func restPose(spec NodeSpec) (pose, error) {
	p := pose{rotate: mgl64.QuatIdent(), scale: mgl64.Vec3{1, 1, 1}}
	for what, v := range map[string][]float64{"translate": spec.Translate, "rotate": spec.Rotate, "scale": spec.Scale} {
		if err := checkVec(fmt.Sprintf("node %q %s", spec.Name, what), v); err != nil {
			return pose{}, err
		}
	}
	if spec.Translate != nil {
		p.translate = vec(spec.Translate)
	}
	if spec.Rotate != nil {
		p.rotate = euler(spec.Rotate)
	}
	if spec.Scale != nil {
		p.scale = vec(spec.Scale)
	}
	return p, nil
}

func vec(v []float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func euler(deg []float64) mgl64.Quat {
	return mgl64.AnglesToQuat(mgl64.DegToRad(deg[0]), mgl64.DegToRad(deg[1]), mgl64.DegToRad(deg[2]), mgl64.XYZ)
}
