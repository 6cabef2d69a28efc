package bsp

import (
	"math"

	"github.com/chazu/brushwork/pkg/geom"
)

// Options weights the splitter choice. A lower metric
// BalanceWeight*|front-back| + SplitWeight*straddle wins.
type Options struct {
	BalanceWeight int
	SplitWeight   int
}

// DefaultOptions favours balanced trees over fewer splits.
func DefaultOptions() Options {
	return Options{BalanceWeight: 8, SplitWeight: 1}
}

// SplitterScore holds the counts behind one candidate's metric.
type SplitterScore struct {
	Front, Back, Straddle int
	Metric                int
}

// ScoreSplitter counts the polygons other than polys[candidate] that lie in
// front of, behind, or across the candidate's plane. Coplanar polygons are
// not counted.
func ScoreSplitter(polys []geom.Polygon, candidate int, opts Options) SplitterScore {
	plane := polys[candidate].Plane()
	var s SplitterScore
	for i, p := range polys {
		if i == candidate {
			continue
		}
		switch geom.ClassifyPolygon(p, plane) {
		case geom.Front:
			s.Front++
		case geom.Back:
			s.Back++
		case geom.Straddle:
			s.Straddle++
		}
	}
	diff := s.Front - s.Back
	if diff < 0 {
		diff = -diff
	}
	s.Metric = opts.BalanceWeight*diff + opts.SplitWeight*s.Straddle
	return s
}

// ChooseSplitter returns the index of the polygon whose plane has the lowest
// metric. Ties go to the earliest polygon.
func ChooseSplitter(polys []geom.Polygon, opts Options) int {
	best, bestMetric := 0, math.MaxInt
	for i := range polys {
		if m := ScoreSplitter(polys, i, opts).Metric; m < bestMetric {
			best, bestMetric = i, m
		}
	}
	return best
}

// Partition sorts polys by their side of plane. Straddling polygons are split
// into both lists; coplanar polygons are dropped.
func Partition(polys []geom.Polygon, plane geom.Plane) (front, back []geom.Polygon) {
	for _, p := range polys {
		switch geom.ClassifyPolygon(p, plane) {
		case geom.Front:
			front = append(front, p)
		case geom.Back:
			back = append(back, p)
		case geom.Straddle:
			f, b := geom.SplitPolygon(p, plane)
			front = append(front, f)
			back = append(back, b)
		}
	}
	return front, back
}

type buildItem struct {
	id    NodeID
	polys []geom.Polygon
}

// Build constructs a tree from a non-empty polygon set. It panics on an empty
// set.
//
// Subtrees are built from an explicit work stack, so near-coplanar input that
// produces very deep trees cannot exhaust the call stack.
func Build(polys []geom.Polygon, opts Options) *Tree {
	if len(polys) == 0 {
		panic("bsp: Build with no polygons")
	}
	t := &Tree{}
	t.root = t.addBranch(NoNode, geom.Plane{})
	stack := []buildItem{{id: t.root, polys: polys}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		splitter := item.polys[ChooseSplitter(item.polys, opts)].Plane()
		t.nodes[item.id].splitter = splitter
		front, back := Partition(item.polys, splitter)

		if len(front) == 0 {
			t.nodes[item.id].left = t.addLeaf(item.id)
		} else {
			child := t.addBranch(item.id, geom.Plane{})
			t.nodes[item.id].left = child
			stack = append(stack, buildItem{id: child, polys: front})
		}
		if len(back) == 0 {
			t.nodes[item.id].right = t.addLeaf(item.id)
		} else {
			child := t.addBranch(item.id, geom.Plane{})
			t.nodes[item.id].right = child
			stack = append(stack, buildItem{id: child, polys: back})
		}
	}
	return t
}

// BuildRightLinear chains planes into a tree whose only solid leaf is the
// intersection of the back half-spaces of every plane. Each branch's front
// child is an empty leaf. It panics on an empty plane list.
func BuildRightLinear(planes []geom.Plane) *Tree {
	if len(planes) == 0 {
		panic("bsp: BuildRightLinear with no planes")
	}
	t := &Tree{nodes: make([]node, 0, 2*len(planes)+1)}
	t.root = t.addBranch(NoNode, planes[0])
	cur := t.root
	for i, p := range planes {
		if i > 0 {
			next := t.addBranch(cur, p)
			t.nodes[cur].right = next
			cur = next
		}
		t.nodes[cur].left = t.addLeaf(cur)
	}
	t.nodes[cur].right = t.addLeaf(cur)
	return t
}
