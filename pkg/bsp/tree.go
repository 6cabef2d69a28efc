// Package bsp builds binary space partition trees over convex polygons and
// clips arbitrary splittable entities against them.
//
// Trees are stored as an arena of nodes addressed by NodeID. A leaf carries
// no data: it is solid when it is the right (back) child of its parent and
// empty when it is the left (front) child, following the convention that
// polygons face out of solid space.
package bsp

import (
	"fmt"

	"github.com/chazu/brushwork/pkg/geom"
)

// NodeID addresses a node inside a Tree.
type NodeID int32

// NoNode is the parent of the root.
const NoNode NodeID = -1

type node struct {
	splitter geom.Plane
	left     NodeID
	right    NodeID
	parent   NodeID
	leaf     bool
}

// Tree is an immutable BSP tree once construction returns.
type Tree struct {
	nodes []node
	root  NodeID
}

func (t *Tree) addBranch(parent NodeID, splitter geom.Plane) NodeID {
	t.nodes = append(t.nodes, node{splitter: splitter, left: NoNode, right: NoNode, parent: parent})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) addLeaf(parent NodeID) NodeID {
	t.nodes = append(t.nodes, node{left: NoNode, right: NoNode, parent: parent, leaf: true})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) at(id NodeID) *node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("bsp: node %d out of range [0,%d)", id, len(t.nodes)))
	}
	return &t.nodes[id]
}

// Root returns the root node, always a branch.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes, branches and leaves together.
func (t *Tree) Len() int { return len(t.nodes) }

// IsLeaf reports whether id is a leaf.
func (t *Tree) IsLeaf(id NodeID) bool { return t.at(id).leaf }

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.at(id).parent }

// Splitter returns the splitting plane of a branch.
func (t *Tree) Splitter(id NodeID) geom.Plane {
	n := t.at(id)
	if n.leaf {
		panic(fmt.Sprintf("bsp: Splitter of leaf %d", id))
	}
	return n.splitter
}

// Left returns the front child of a branch.
func (t *Tree) Left(id NodeID) NodeID {
	n := t.at(id)
	if n.leaf {
		panic(fmt.Sprintf("bsp: Left of leaf %d", id))
	}
	return n.left
}

// Right returns the back child of a branch.
func (t *Tree) Right(id NodeID) NodeID {
	n := t.at(id)
	if n.leaf {
		panic(fmt.Sprintf("bsp: Right of leaf %d", id))
	}
	return n.right
}

// IsSolid reports whether a leaf is solid, i.e. the back child of its parent.
func (t *Tree) IsSolid(id NodeID) bool {
	n := t.at(id)
	if !n.leaf {
		panic(fmt.Sprintf("bsp: IsSolid of branch %d", id))
	}
	if n.parent == NoNode {
		panic("bsp: parentless leaf")
	}
	return t.at(n.parent).right == id
}

// Leaves returns every leaf in front-to-back (left-to-right) order.
func (t *Tree) Leaves() []NodeID {
	var leaves []NodeID
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.at(id)
		if n.leaf {
			leaves = append(leaves, id)
			continue
		}
		stack = append(stack, n.right, n.left)
	}
	return leaves
}

// Depth returns the number of branches on the longest root-to-leaf path.
// Parents are always allocated before their children, so a single pass over
// the arena sees every parent's depth first.
func (t *Tree) Depth() int {
	depths := make([]int, len(t.nodes))
	deepest := 0
	for i, n := range t.nodes {
		if n.parent == NoNode {
			continue
		}
		depths[i] = depths[n.parent] + 1
		if n.leaf && depths[i] > deepest {
			deepest = depths[i]
		}
	}
	return deepest
}
