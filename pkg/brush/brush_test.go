package brush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brushwork/pkg/bsp"
	"github.com/chazu/brushwork/pkg/geom"
)

type vec = geom.Vec

func assertVec(t *testing.T, want, got vec, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-9, msgAndArgs...)
}

func TestBox(t *testing.T) {
	b := Box(vec{X: 1, Y: 2, Z: 3}, vec{X: 3, Y: 6, Z: 4}, geom.Surface{Texture: "stone"})
	require.Len(t, b.Faces, 6)
	assert.NotEqual(t, [16]byte{}, [16]byte(b.ID))

	lo, hi := b.Bounds()
	assertVec(t, vec{X: 1, Y: 2, Z: 3}, lo)
	assertVec(t, vec{X: 3, Y: 6, Z: 4}, hi)
	assertVec(t, vec{X: 2, Y: 4, Z: 3.5}, b.Centroid())
	assert.InDelta(t, 8.0, b.Volume(), 1e-9)

	planes := b.Planes()
	require.Len(t, planes, 6)
	for _, p := range planes {
		assert.Equal(t, geom.Back, geom.ClassifyPoint(b.Centroid(), p))
	}
}

func TestPolygonsCopies(t *testing.T) {
	b := Box(vec{}, vec{X: 1, Y: 1, Z: 1}, geom.Surface{})
	polys := b.Polygons()
	polys[0] = polys[1]
	assert.False(t, b.Faces[0].Equal(b.Faces[1]))

	assert.Nil(t, New(nil).Polygons())
}

func TestCloneAndTranslate(t *testing.T) {
	b := Box(vec{}, vec{X: 1, Y: 1, Z: 1}, geom.Surface{Texture: "a"})

	c := b.Clone()
	assert.NotEqual(t, b.ID, c.ID)
	c.Faces[0].Vertices[0] = vec{X: 99}
	assert.NotEqual(t, vec{X: 99}, b.Faces[0].Vertices[0])

	m := b.Translate(vec{X: 10})
	assert.Equal(t, b.ID, m.ID)
	lo, hi := m.Bounds()
	assertVec(t, vec{X: 10}, lo)
	assertVec(t, vec{X: 11, Y: 1, Z: 1}, hi)
	assert.Equal(t, "a", m.Faces[3].Surface.Texture)
}

func TestFromPlanes(t *testing.T) {
	b := FromPlanes([]geom.Plane{
		geom.NewPlane(vec{X: -1}, 0),
		geom.NewPlane(vec{Y: -1}, 0),
		geom.NewPlane(vec{Z: -1}, 0),
		geom.NewPlane(vec{X: 1, Y: 1, Z: 1}, 1),
	})
	require.Len(t, b.Faces, 4)
	assert.InDelta(t, 1.0/6, b.Volume(), 1e-9)
}

func TestFromPolygonsKeepsSurfaces(t *testing.T) {
	src := Box(vec{}, vec{X: 2, Y: 2, Z: 2}, geom.Surface{Texture: "brick"})
	b := FromPolygons(src.Faces)
	require.Len(t, b.Faces, 6)
	for _, f := range b.Faces {
		assert.Equal(t, "brick", f.Surface.Texture)
	}
	assert.InDelta(t, 8.0, b.Volume(), 1e-9)
}

func TestClipperClassify(t *testing.T) {
	b := Box(vec{}, vec{X: 2, Y: 2, Z: 2}, geom.Surface{})
	c := Clipper{}
	tests := []struct {
		name  string
		plane geom.Plane
		want  geom.Class
	}{
		{"behind", geom.NewPlane(vec{X: 1}, 5), geom.Back},
		{"in front", geom.NewPlane(vec{X: 1}, -1), geom.Front},
		{"touching face", geom.NewPlane(vec{X: 1}, 2), geom.Back},
		{"through middle", geom.NewPlane(vec{X: 1}, 1), geom.Straddle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(b, tt.plane); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
	assert.False(t, c.PassCoplanarBack(b, geom.NewPlane(vec{X: 1}, 0)))
}

func TestClipperSplit(t *testing.T) {
	b := Box(vec{}, vec{X: 2, Y: 2, Z: 2}, geom.Surface{Texture: "wall"})
	plane := geom.NewPlane(vec{X: 1}, 0.5)

	t.Run("default cap surface", func(t *testing.T) {
		front, back := Clipper{Default: geom.Surface{Texture: "cut"}}.Split(b, plane)

		require.Len(t, front.Faces, 6)
		require.Len(t, back.Faces, 6)
		assert.NotEqual(t, b.ID, front.ID)
		assert.NotEqual(t, front.ID, back.ID)
		assert.InDelta(t, 6.0, front.Volume(), 1e-9)
		assert.InDelta(t, 2.0, back.Volume(), 1e-9)

		lo, hi := front.Bounds()
		assertVec(t, vec{X: 0.5}, lo)
		assertVec(t, vec{X: 2, Y: 2, Z: 2}, hi)
		lo, hi = back.Bounds()
		assertVec(t, vec{}, lo)
		assertVec(t, vec{X: 0.5, Y: 2, Z: 2}, hi)

		frontCap := front.Faces[len(front.Faces)-1]
		backCap := back.Faces[len(back.Faces)-1]
		assertVec(t, vec{X: -1}, frontCap.Normal())
		assertVec(t, vec{X: 1}, backCap.Normal())
		assert.Equal(t, "cut", frontCap.Surface.Texture)
		assert.Equal(t, "cut", backCap.Surface.Texture)
		assert.InDelta(t, 4.0, frontCap.Area(), 1e-9)
	})

	t.Run("donor cap surface", func(t *testing.T) {
		donor := geom.NewPolygon([]vec{
			{X: 0.5, Y: 5, Z: 5}, {X: 0.5, Y: 6, Z: 5}, {X: 0.5, Y: 6, Z: 6},
		}, geom.Surface{Texture: "donor"})
		other := geom.NewPolygon([]vec{{Z: 9}, {X: 1, Z: 9}, {Y: 1, Z: 9}}, geom.Surface{Texture: "other"})
		c := Clipper{Donor: []geom.Polygon{other, donor}, Default: geom.Surface{Texture: "cut"}}

		front, back := c.Split(b, plane)
		assert.Equal(t, "donor", front.Faces[len(front.Faces)-1].Surface.Texture)
		assert.Equal(t, "donor", back.Faces[len(back.Faces)-1].Surface.Texture)
	})
}

func TestClipBrushAgainstTree(t *testing.T) {
	cutter := Box(vec{X: 1, Y: -1, Z: -1}, vec{X: 3, Y: 3, Z: 3}, geom.Surface{Texture: "cutter"})
	tree := bsp.Build(cutter.Faces, bsp.DefaultOptions())
	b := Box(vec{}, vec{X: 2, Y: 2, Z: 2}, geom.Surface{Texture: "wall"})

	res := bsp.ClipToTree[*Brush](b, Clipper{Donor: cutter.Faces}, tree, bsp.Empty)
	assert.False(t, res.Whole)
	require.Len(t, res.Fragments, 1)

	kept := res.Fragments[0]
	assert.InDelta(t, 4.0, kept.Volume(), 1e-9)
	lo, hi := kept.Bounds()
	assertVec(t, vec{}, lo)
	assertVec(t, vec{X: 1, Y: 2, Z: 2}, hi)

	textures := map[string]int{}
	for _, f := range kept.Faces {
		textures[f.Surface.Texture]++
	}
	assert.Equal(t, map[string]int{"wall": 5, "cutter": 1}, textures)

	untouched := b.Translate(vec{X: -10})
	res = bsp.ClipToTree[*Brush](untouched, Clipper{}, tree, bsp.Empty)
	assert.True(t, res.Whole)
	assert.Same(t, untouched, res.Fragments[0])
}
