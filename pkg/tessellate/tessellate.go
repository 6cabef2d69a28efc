// Package tessellate walks a design graph and produces triangle meshes
// using a geometry kernel. Groups and transforms are walked; every other
// node is evaluated to a single solid and meshed, so each child of a group
// yields one mesh.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/brushwork/pkg/graph"
	"github.com/chazu/brushwork/pkg/kernel"
)

// ErrUnsupported is returned when the graph needs an operation the kernel
// does not implement.
var ErrUnsupported = errors.New("unsupported by kernel")

// transformStack accumulates the placements above the node being walked.
type transformStack struct {
	frames []graph.TransformData
}

func (ts *transformStack) push(td graph.TransformData) {
	ts.frames = append(ts.frames, td)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// apply places s by every frame, innermost first.
func (ts *transformStack) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.frames) - 1; i >= 0; i-- {
		s = place(k, s, ts.frames[i])
	}
	return s
}

// place rotates s, then translates it.
func place(k kernel.Kernel, s kernel.Solid, td graph.TransformData) kernel.Solid {
	if r := td.Rotation; r != nil && (r.X != 0 || r.Y != 0 || r.Z != 0) {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	if t := td.Translation; t != nil && (t.X != 0 || t.Y != 0 || t.Z != 0) {
		s = k.Translate(s, t.X, t.Y, t.Z)
	}
	return s
}

// Tessellate walks the design graph and produces one triangle mesh per
// child of each root group using the provided geometry kernel. Children that
// evaluate to nothing produce no mesh. The tessellator is read-only and
// never mutates the graph.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}

	ev := newEvaluator(g, k)
	ts := &transformStack{}
	var meshes []*kernel.Mesh
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := ev.walk(root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", root.Label(), err)
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// Evaluate returns the solid of a single node. Groups evaluate to the union
// of their children.
func Evaluate(g *graph.DesignGraph, k kernel.Kernel, id graph.NodeID) (kernel.Solid, error) {
	return newEvaluator(g, k).solid(id)
}

// evaluator memoizes node solids so that shared subgraphs are built once.
type evaluator struct {
	g      *graph.DesignGraph
	k      kernel.Kernel
	solids map[graph.NodeID]kernel.Solid
	active map[graph.NodeID]bool
}

func newEvaluator(g *graph.DesignGraph, k kernel.Kernel) *evaluator {
	return &evaluator{
		g:      g,
		k:      k,
		solids: make(map[graph.NodeID]kernel.Solid),
		active: make(map[graph.NodeID]bool),
	}
}

// walk descends through groups and transforms and meshes everything else.
func (ev *evaluator) walk(n *graph.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	switch n.Kind {
	case graph.NodeGroup:
		var meshes []*kernel.Mesh
		for _, child := range ev.g.Children(n) {
			collected, err := ev.walk(child, ts)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, collected...)
		}
		return meshes, nil

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.Label(), n.Data)
		}
		ts.push(td)
		defer ts.pop()
		var meshes []*kernel.Mesh
		for _, child := range ev.g.Children(n) {
			collected, err := ev.walk(child, ts)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, collected...)
		}
		return meshes, nil
	}

	s, err := ev.solid(n.ID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	mesh, err := ev.k.ToMesh(ts.apply(ev.k, s))
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed for node %s: %w", n.Label(), err)
	}
	if mesh.IsEmpty() {
		return nil, nil
	}
	mesh.PartName = n.Label()
	return []*kernel.Mesh{mesh}, nil
}

// solid evaluates a node. A nil solid with a nil error means the node is
// empty, such as a group without children.
func (ev *evaluator) solid(id graph.NodeID) (kernel.Solid, error) {
	if s, ok := ev.solids[id]; ok {
		return s, nil
	}
	n := ev.g.Get(id)
	if n == nil {
		return nil, fmt.Errorf("missing node %s", id.Short())
	}
	if ev.active[id] {
		return nil, fmt.Errorf("cycle through node %s", n.Label())
	}
	ev.active[id] = true
	defer delete(ev.active, id)

	s, err := ev.build(n)
	if err != nil {
		return nil, err
	}
	ev.solids[id] = s
	return s, nil
}

func (ev *evaluator) build(n *graph.Node) (kernel.Solid, error) {
	k := ev.k
	switch data := n.Data.(type) {
	case graph.BrushData:
		s := k.Box(data.Size.X, data.Size.Y, data.Size.Z)
		if data.Texture != "" {
			if tx, ok := k.(kernel.Texturer); ok {
				s = tx.Texture(s, data.Texture)
			}
		}
		return s, nil

	case graph.TransformData:
		child, err := ev.only(n)
		if err != nil || child == nil {
			return nil, err
		}
		return place(k, child, data), nil

	case graph.HollowData:
		child, err := ev.only(n)
		if err != nil || child == nil {
			return nil, err
		}
		h, ok := k.(kernel.Hollower)
		if !ok {
			return nil, fmt.Errorf("hollow node %s: %w", n.Label(), ErrUnsupported)
		}
		s, err := h.Hollow(child, data.Thickness)
		if err != nil {
			return nil, fmt.Errorf("hollow node %s: %w", n.Label(), err)
		}
		return s, nil

	case graph.CSGData:
		return ev.fold(n, data.Op)

	case graph.GroupData:
		return ev.fold(n, graph.OpUnion)
	}
	return nil, fmt.Errorf("%s node %s has unsupported data type %T", n.Kind, n.Label(), n.Data)
}

// only evaluates the single child of n.
func (ev *evaluator) only(n *graph.Node) (kernel.Solid, error) {
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("%s node %s has %d children, want 1", n.Kind, n.Label(), len(n.Children))
	}
	return ev.solid(n.Children[0])
}

// fold combines the children of n left to right with op. Empty operands
// are skipped; an empty first operand of a subtraction empties the result.
func (ev *evaluator) fold(n *graph.Node, op graph.CSGOp) (kernel.Solid, error) {
	var acc kernel.Solid
	for i, cid := range n.Children {
		s, err := ev.solid(cid)
		if err != nil {
			return nil, err
		}
		switch {
		case i == 0:
			acc = s
		case acc == nil && op != graph.OpUnion:
			return nil, nil
		case s == nil:
			if op == graph.OpIntersect {
				return nil, nil
			}
		case acc == nil:
			acc = s
		case op == graph.OpUnion:
			acc = ev.k.Union(acc, s)
		case op == graph.OpIntersect:
			acc = ev.k.Intersection(acc, s)
		case op == graph.OpSubtract:
			acc = ev.k.Difference(acc, s)
		default:
			return nil, fmt.Errorf("csg node %s has unknown op %s", n.Label(), op)
		}
	}
	return acc, nil
}
