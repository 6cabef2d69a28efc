package bsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brushwork/pkg/geom"
)

type vec = geom.Vec

func cubeFaces(lo, hi vec) []geom.Polygon {
	return geom.BoxFaces(lo, hi, geom.Surface{Texture: "wall"})
}

func totalArea(polys []geom.Polygon) float64 {
	var a float64
	for _, p := range polys {
		a += p.Area()
	}
	return a
}

func assertSameVertexSet(t *testing.T, want []vec, got geom.Polygon) {
	t.Helper()
	require.Len(t, got.Vertices, len(want), "vertex count of %v", got)
	for _, w := range want {
		found := false
		for _, v := range got.Vertices {
			if geom.SameVertex(v, w) {
				found = true
				break
			}
		}
		assert.True(t, found, "vertex %v missing from %v", w, got)
	}
}

func TestChooseSplitterTwoCubes(t *testing.T) {
	polys := append(cubeFaces(vec{}, vec{X: 1, Y: 1, Z: 1}),
		cubeFaces(vec{X: 3}, vec{X: 4, Y: 1, Z: 1})...)
	opts := DefaultOptions()

	tests := []struct {
		name      string
		candidate int
		want      SplitterScore
	}{
		{"first -X", 0, SplitterScore{Back: 11, Metric: 88}},
		{"first +X", 1, SplitterScore{Front: 6, Back: 5, Metric: 8}},
		{"first -Y", 2, SplitterScore{Back: 10, Metric: 80}},
		{"second -X", 6, SplitterScore{Front: 6, Back: 5, Metric: 8}},
		{"second +X", 7, SplitterScore{Back: 11, Metric: 88}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreSplitter(polys, tt.candidate, opts)
			if got != tt.want {
				t.Errorf("ScoreSplitter(%d) = %+v, want %+v", tt.candidate, got, tt.want)
			}
		})
	}

	assert.Equal(t, 1, ChooseSplitter(polys, opts), "ties go to the earliest candidate")
}

func TestScoreSplitterCountsStraddle(t *testing.T) {
	polys := []geom.Polygon{
		cubeFaces(vec{}, vec{X: 1, Y: 1, Z: 1})[1],
		geom.NewPolygon([]vec{{X: 0}, {X: 2}, {X: 2, Y: 1}}, geom.Surface{}),
	}
	s := ScoreSplitter(polys, 0, Options{BalanceWeight: 8, SplitWeight: 3})
	assert.Equal(t, SplitterScore{Straddle: 1, Metric: 3}, s)
}

func TestBuildCube(t *testing.T) {
	tree := Build(cubeFaces(vec{}, vec{X: 1, Y: 1, Z: 1}), DefaultOptions())

	assert.Equal(t, 13, tree.Len())
	assert.Equal(t, 6, tree.Depth())

	leaves := tree.Leaves()
	require.Len(t, leaves, 7)
	solid := 0
	for _, id := range leaves {
		if tree.IsSolid(id) {
			solid++
		}
	}
	assert.Equal(t, 1, solid)
	assert.True(t, tree.IsSolid(leaves[len(leaves)-1]), "innermost back leaf is solid")

	// The first face is the splitter at the root and every branch has an
	// empty front leaf.
	assert.True(t, tree.Splitter(tree.Root()).Coincident(geom.NewPlane(vec{X: -1}, 0)))
	for id := tree.Root(); !tree.IsLeaf(id); id = tree.Right(id) {
		l := tree.Left(id)
		require.True(t, tree.IsLeaf(l))
		assert.False(t, tree.IsSolid(l))
		assert.Equal(t, id, tree.Parent(l))
	}
}

func TestBuildEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Build(nil, DefaultOptions()) })
	assert.Panics(t, func() { BuildRightLinear(nil) })
}

func TestBuildRightLinear(t *testing.T) {
	planes := []geom.Plane{
		geom.NewPlane(vec{X: 1}, 1),
		geom.NewPlane(vec{Y: 1}, 1),
		geom.NewPlane(vec{Z: 1}, 1),
	}
	tree := BuildRightLinear(planes)

	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, 3, tree.Depth())
	assert.Equal(t, NoNode, tree.Parent(tree.Root()))

	id := tree.Root()
	for i, p := range planes {
		require.False(t, tree.IsLeaf(id), "node %d", i)
		assert.Equal(t, p, tree.Splitter(id))
		assert.False(t, tree.IsSolid(tree.Left(id)))
		id = tree.Right(id)
	}
	require.True(t, tree.IsLeaf(id))
	assert.True(t, tree.IsSolid(id))
}

func TestTreeAccessorsPanicOnWrongKind(t *testing.T) {
	tree := BuildRightLinear([]geom.Plane{geom.NewPlane(vec{X: 1}, 0)})
	leaf := tree.Left(tree.Root())

	assert.Panics(t, func() { tree.Splitter(leaf) })
	assert.Panics(t, func() { tree.Left(leaf) })
	assert.Panics(t, func() { tree.Right(leaf) })
	assert.Panics(t, func() { tree.IsSolid(tree.Root()) })
	assert.Panics(t, func() { tree.IsLeaf(NodeID(99)) })
}

func TestClipUniverseToOpenCube(t *testing.T) {
	faces := cubeFaces(vec{X: 20}, vec{X: 23, Y: 3, Z: 3})
	open := append([]geom.Polygon{faces[0]}, faces[2:]...)
	tree := Build(open, DefaultOptions())

	u := geom.UniversePolygon(geom.NewPlane(vec{X: 1}, 23), geom.Surface{Texture: "cap"})
	res := ClipToTree[geom.Polygon](u, NoCoplanarClipper{}, tree, Solid)

	assert.False(t, res.Whole)
	require.Len(t, res.Fragments, 1)
	assertSameVertexSet(t, []vec{
		{X: 23, Y: 0, Z: 3},
		{X: 23, Y: 0, Z: 0},
		{X: 23, Y: 3, Z: 0},
		{X: 23, Y: 3, Z: 3},
	}, res.Fragments[0])
	assert.Equal(t, "cap", res.Fragments[0].Surface.Texture)
}

func TestClipPolygonThroughCube(t *testing.T) {
	tree := Build(cubeFaces(vec{}, vec{X: 1, Y: 1, Z: 1}), DefaultOptions())
	quad := geom.NewPolygon([]vec{
		{X: -1, Y: 0.25, Z: 0.5},
		{X: 2, Y: 0.25, Z: 0.5},
		{X: 2, Y: 0.75, Z: 0.5},
		{X: -1, Y: 0.75, Z: 0.5},
	}, geom.Surface{})
	c := PolygonClipper{Policy: AlwaysBack}

	inside := ClipToTree[geom.Polygon](quad, c, tree, Solid)
	assert.False(t, inside.Whole)
	assert.InDelta(t, 0.5, totalArea(inside.Fragments), 1e-9)

	outside := ClipToTree[geom.Polygon](quad, c, tree, Empty)
	assert.False(t, outside.Whole)
	assert.InDelta(t, 1.0, totalArea(outside.Fragments), 1e-9)

	within := quad.Translate(vec{X: 10})
	res := ClipToTree[geom.Polygon](within, c, tree, Empty)
	assert.True(t, res.Whole)
	require.Len(t, res.Fragments, 1)
	assert.True(t, res.Fragments[0].Equal(within))

	all := ClipAll[geom.Polygon]([]geom.Polygon{quad, within}, c, tree, Empty)
	assert.InDelta(t, 2.5, totalArea(all), 1e-9)
}

func TestCoplanarPolicies(t *testing.T) {
	plane := geom.NewPlane(vec{Z: 1}, 0)
	up := geom.NewPolygon([]vec{{}, {X: 1}, {Y: 1}}, geom.Surface{})
	down := up.FlipWinding()

	tests := []struct {
		policy   CoplanarPolicy
		name     string
		same     bool
		opposite bool
	}{
		{IntersectionVariant1, "intersection-1", true, false},
		{IntersectionVariant2, "intersection-2", false, false},
		{UnionVariant1, "union-1", true, true},
		{UnionVariant2, "union-2", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := PolygonClipper{Policy: tt.policy}
			assert.Equal(t, tt.name, tt.policy.String())
			assert.Equal(t, tt.same, c.PassCoplanarBack(up, plane), "same facing")
			assert.Equal(t, tt.opposite, c.PassCoplanarBack(down, plane), "opposite facing")
		})
	}

	assert.Equal(t, UnionVariant1, AlwaysBack)
	assert.Panics(t, func() { NoCoplanarClipper{}.PassCoplanarBack(up, plane) })
}

func TestCoplanarRoutingThroughTree(t *testing.T) {
	tree := Build(cubeFaces(vec{}, vec{X: 1, Y: 1, Z: 1}), DefaultOptions())
	// The cube's own -X face, coincident with the root splitter.
	face := cubeFaces(vec{}, vec{X: 1, Y: 1, Z: 1})[0]

	back := ClipToTree[geom.Polygon](face, PolygonClipper{Policy: IntersectionVariant1}, tree, Solid)
	assert.True(t, back.Whole, "same facing face routed into the solid")

	front := ClipToTree[geom.Polygon](face, PolygonClipper{Policy: IntersectionVariant2}, tree, Solid)
	assert.Empty(t, front.Fragments)
	assert.False(t, front.Whole)
}

// span is a segment of the X axis, used to exercise the generic clip engine
// independently of polygons.
type span struct{ lo, hi float64 }

type spanClipper struct{}

func (spanClipper) Classify(s span, p geom.Plane) geom.Class {
	return geom.ClassifyPoints([]vec{{X: s.lo}, {X: s.hi}}, p)
}

func (spanClipper) PassCoplanarBack(s span, p geom.Plane) bool {
	panic("span lies in a splitter")
}

func (spanClipper) Split(s span, p geom.Plane) (front, back span) {
	cut := p.D / p.Normal.X
	lower, upper := span{s.lo, cut}, span{cut, s.hi}
	if p.Normal.X > 0 {
		return upper, lower
	}
	return lower, upper
}

var _ Clipper[span] = spanClipper{}

func TestClipFragmentCombination(t *testing.T) {
	// Solid is 0 <= x <= 2.
	tree := BuildRightLinear([]geom.Plane{
		geom.NewPlane(vec{X: 1}, 2),
		geom.NewPlane(vec{X: -1}, 0),
	})

	tests := []struct {
		name      string
		in        span
		keep      FragmentType
		wantFrags []span
		wantWhole bool
	}{
		{"inside kept solid", span{0.5, 1.5}, Solid, []span{{0.5, 1.5}}, true},
		{"inside kept empty", span{0.5, 1.5}, Empty, nil, false},
		{"front half empty", span{1, 3}, Solid, []span{{1, 2}}, false},
		{"back half solid", span{1, 3}, Empty, []span{{2, 3}}, false},
		{"both ends out", span{-1, 3}, Empty, []span{{2, 3}, {-1, 0}}, false},
		{"outside kept empty", span{5, 6}, Empty, []span{{5, 6}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipToTree[span](tt.in, spanClipper{}, tree, tt.keep)
			assert.Equal(t, tt.wantWhole, got.Whole, "Whole")
			assert.Equal(t, tt.wantFrags, got.Fragments, "Fragments")
		})
	}
}

func TestClipBothHalvesWholeReturnsOriginal(t *testing.T) {
	// root x=1 with both subtrees reaching a solid leaf for 0 <= x <= 2.
	tree := &Tree{}
	tree.root = tree.addBranch(NoNode, geom.NewPlane(vec{X: 1}, 1))
	inner := tree.addBranch(tree.root, geom.NewPlane(vec{X: 1}, 5))
	tree.nodes[tree.root].left = inner
	tree.nodes[tree.root].right = tree.addLeaf(tree.root)
	tree.nodes[inner].left = tree.addLeaf(inner)
	tree.nodes[inner].right = tree.addLeaf(inner)

	got := ClipToTree[span](span{0, 2}, spanClipper{}, tree, Solid)
	assert.True(t, got.Whole)
	assert.Equal(t, []span{{0, 2}}, got.Fragments)
}

func TestClipInvalidKeepPanics(t *testing.T) {
	tree := BuildRightLinear([]geom.Plane{geom.NewPlane(vec{X: 1}, 0)})
	assert.Panics(t, func() { ClipToTree[span](span{0, 1}, spanClipper{}, tree, FragmentType(7)) })
	assert.Equal(t, "FragmentType(7)", FragmentType(7).String())
}

func TestClipDeepChain(t *testing.T) {
	const depth = 10000
	planes := make([]geom.Plane, depth)
	for i := range planes {
		planes[i] = geom.NewPlane(vec{X: 1}, float64(depth+i))
	}
	tree := BuildRightLinear(planes)
	assert.Equal(t, depth, tree.Depth())

	got := ClipToTree[span](span{0, 1}, spanClipper{}, tree, Solid)
	assert.True(t, got.Whole)

	got = ClipToTree[span](span{0, 1e6}, spanClipper{}, tree, Solid)
	assert.Equal(t, []span{{0, depth}}, got.Fragments)
}

func TestDump(t *testing.T) {
	tree := BuildRightLinear([]geom.Plane{
		geom.NewPlane(vec{X: 1}, 2),
		geom.NewPlane(vec{X: -1}, 0),
	})
	want := strings.Join([]string{
		"splitter (1 0 0) 2",
		"  empty",
		"  splitter (-1 0 0) 0",
		"    empty",
		"    solid",
		"",
	}, "\n")
	assert.Equal(t, want, tree.String())
}
