package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadZ returns the rectangle [x0,x1]x[y0,y1] at height z facing +Z.
func quadZ(x0, x1, y0, y1, z float64) Polygon {
	return NewPolygon([]Vec{
		{X: x0, Y: y0, Z: z},
		{X: x1, Y: y0, Z: z},
		{X: x1, Y: y1, Z: z},
		{X: x0, Y: y1, Z: z},
	}, Surface{Texture: "base"})
}

func assertVec(t *testing.T, want, got Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "X")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "Y")
	assert.InDelta(t, want.Z, got.Z, 1e-9, "Z")
}

func TestNewPlaneNormalizes(t *testing.T) {
	p := NewPlane(Vec{X: 0, Y: 0, Z: 2}, 6)
	assertVec(t, Vec{Z: 1}, p.Normal)
	assert.InDelta(t, 3.0, p.D, 1e-12)
	assert.InDelta(t, 1.0, p.Distance(Vec{Z: 4}), 1e-12)
	assert.InDelta(t, -3.0, p.Distance(Vec{}), 1e-12)
}

func TestNewPlaneZeroNormalPanics(t *testing.T) {
	assert.Panics(t, func() { NewPlane(Vec{}, 1) })
}

func TestPlaneNegateAndTranslate(t *testing.T) {
	p := NewPlane(Vec{X: 1}, 5)

	n := p.Negate()
	assertVec(t, Vec{X: -1}, n.Normal)
	assert.InDelta(t, -5.0, n.D, 1e-12)
	assert.InDelta(t, -p.Distance(Vec{X: 7}), n.Distance(Vec{X: 7}), 1e-12)

	in := p.Translate(-2)
	assert.InDelta(t, 3.0, in.D, 1e-12)
	assert.Equal(t, Front, ClassifyPoint(Vec{X: 4}, in))
	assert.Equal(t, Back, ClassifyPoint(Vec{X: 4}, p))

	assert.True(t, p.Coincident(NewPlane(Vec{X: 3}, 15)))
	assert.False(t, p.Coincident(n))
}

func TestClassifyPolygon(t *testing.T) {
	plane := NewPlane(Vec{Z: 1}, 0)
	tests := []struct {
		name string
		poly Polygon
		want Class
	}{
		{"coplanar", quadZ(0, 1, 0, 1, 0), Coplanar},
		{"within epsilon is coplanar", quadZ(0, 1, 0, 1, Epsilon/2), Coplanar},
		{"front", quadZ(0, 1, 0, 1, 2), Front},
		{"back", quadZ(0, 1, 0, 1, -2), Back},
		{"touching from front", NewPolygon([]Vec{{X: 0}, {X: 1}, {X: 1, Z: 1}}, Surface{}), Front},
		{"touching from back", NewPolygon([]Vec{{X: 0}, {X: 1, Z: -1}, {X: 1}}, Surface{}), Back},
		{"straddle", NewPolygon([]Vec{{Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 1}, {Z: 1}}, Surface{}), Straddle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPolygon(tt.poly, plane))
		})
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "straddle", Straddle.String())
	assert.Equal(t, "Class(9)", Class(9).String())
}

func TestPolygonNormalAndPlane(t *testing.T) {
	q := quadZ(0, 2, 0, 2, 3)
	assertVec(t, Vec{Z: 1}, q.Normal())
	assert.InDelta(t, 3.0, q.Plane().D, 1e-12)

	f := q.FlipWinding()
	assertVec(t, Vec{Z: -1}, f.Normal())
	assert.InDelta(t, -3.0, f.Plane().D, 1e-12)
	assert.Equal(t, q.Surface, f.Surface)
	assert.InDelta(t, 4.0, q.Area(), 1e-12)
	assertVec(t, Vec{X: 1, Y: 1, Z: 3}, q.Centroid())
}

func TestNewPolygonTooFewVertices(t *testing.T) {
	assert.Panics(t, func() { NewPolygon([]Vec{{}, {X: 1}}, Surface{}) })
}

func TestSplitPolygon(t *testing.T) {
	q := quadZ(0, 2, 0, 1, 0)
	plane := NewPlane(Vec{X: 1}, 0.5)

	front, back := SplitPolygon(q, plane)
	require.Len(t, front.Vertices, 4)
	require.Len(t, back.Vertices, 4)

	assert.Equal(t, Front, ClassifyPolygon(front, plane))
	assert.Equal(t, Back, ClassifyPolygon(back, plane))
	assert.InDelta(t, q.Area(), front.Area()+back.Area(), 1e-9)
	assert.InDelta(t, 1.5, front.Area(), 1e-9)
	assertVec(t, q.Normal(), front.Normal())
	assertVec(t, q.Normal(), back.Normal())
	assert.Equal(t, q.Surface, front.Surface)
	assert.Equal(t, q.Surface, back.Surface)
}

func TestSplitPolygonThroughVertex(t *testing.T) {
	// The diagonal passes through two corners, leaving two triangles.
	q := quadZ(0, 1, 0, 1, 0)
	plane := NewPlane(Vec{X: 1, Y: -1}, 0)

	front, back := SplitPolygon(q, plane)
	assert.Len(t, front.Vertices, 3)
	assert.Len(t, back.Vertices, 3)
	assert.InDelta(t, 0.5, front.Area(), 1e-9)
	assert.InDelta(t, 0.5, back.Area(), 1e-9)
}

func TestSplitPolygonRequiresStraddle(t *testing.T) {
	assert.Panics(t, func() {
		SplitPolygon(quadZ(0, 1, 0, 1, 0), NewPlane(Vec{X: 1}, 5))
	})
}

func TestUniversePolygon(t *testing.T) {
	planes := []Plane{
		NewPlane(Vec{X: 1}, 23),
		NewPlane(Vec{Y: -1}, 4),
		NewPlane(Vec{Z: 1}, -7),
		NewPlane(Vec{X: 1, Y: 2, Z: -3}, 11),
	}
	for _, p := range planes {
		t.Run(p.String(), func(t *testing.T) {
			u := UniversePolygon(p, Surface{Texture: "sky"})
			require.Len(t, u.Vertices, 4)
			assert.Equal(t, Coplanar, ClassifyPolygon(u, p))
			assertVec(t, p.Normal, u.Normal())
			assert.Equal(t, "sky", u.Surface.Texture)
			side := math.Sqrt(u.Area())
			assert.InDelta(t, 2*float64(UniverseExtent), side, 1e-6)
		})
	}
}

func TestPolygonEqualIgnoresStartVertex(t *testing.T) {
	q := quadZ(0, 1, 0, 1, 0)
	r := NewPolygon([]Vec{q.Vertices[2], q.Vertices[3], q.Vertices[0], q.Vertices[1]}, Surface{})
	assert.True(t, q.Equal(r))
	assert.False(t, q.Equal(q.FlipWinding()))
}

func TestMergeCoplanar(t *testing.T) {
	t.Run("adjacent squares", func(t *testing.T) {
		got := MergeCoplanar([]Polygon{quadZ(0, 1, 0, 1, 0), quadZ(1, 2, 0, 1, 0)})
		require.Len(t, got, 1)
		assert.True(t, got[0].Equal(quadZ(0, 2, 0, 1, 0)), "got %v", got[0])
	})
	t.Run("strip of three", func(t *testing.T) {
		got := MergeCoplanar([]Polygon{quadZ(0, 1, 0, 1, 0), quadZ(2, 3, 0, 1, 0), quadZ(1, 2, 0, 1, 0)})
		require.Len(t, got, 1)
		assert.InDelta(t, 3.0, got[0].Area(), 1e-9)
		assert.Len(t, got[0].Vertices, 4)
	})
	t.Run("disjoint squares stay apart", func(t *testing.T) {
		got := MergeCoplanar([]Polygon{quadZ(0, 1, 0, 1, 0), quadZ(3, 4, 0, 1, 0)})
		assert.Len(t, got, 2)
	})
	t.Run("different surfaces stay apart", func(t *testing.T) {
		b := quadZ(1, 2, 0, 1, 0)
		b.Surface.Texture = "other"
		got := MergeCoplanar([]Polygon{quadZ(0, 1, 0, 1, 0), b})
		assert.Len(t, got, 2)
	})
	t.Run("non convex result is rejected", func(t *testing.T) {
		// An L shape: the shared edge only covers part of the long side.
		a := quadZ(0, 2, 0, 1, 0)
		b := NewPolygon([]Vec{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}, a.Surface)
		got := MergeCoplanar([]Polygon{a, b})
		assert.Len(t, got, 2)
	})
	t.Run("opposite facing stay apart", func(t *testing.T) {
		got := MergeCoplanar([]Polygon{quadZ(0, 1, 0, 1, 0), quadZ(1, 2, 0, 1, 0).FlipWinding()})
		assert.Len(t, got, 2)
	})
}

func TestBoxFaces(t *testing.T) {
	faces := BoxFaces(Vec{X: 1, Y: 2, Z: 3}, Vec{X: 3, Y: 5, Z: 7}, Surface{Texture: "crate"})
	require.Len(t, faces, 6)

	normals := []Vec{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}, {Z: -1}, {Z: 1}}
	areas := []float64{12, 12, 8, 8, 6, 6}
	centre := Vec{X: 2, Y: 3.5, Z: 5}
	for i, f := range faces {
		assertVec(t, normals[i], f.Normal())
		assert.InDelta(t, areas[i], f.Area(), 1e-12)
		assert.Equal(t, Back, ClassifyPoint(centre, f.Plane()), "face %d", i)
		assert.Equal(t, "crate", f.Surface.Texture)
	}

	assert.Panics(t, func() { BoxFaces(Vec{}, Vec{X: 1, Y: 1}, Surface{}) })
}
