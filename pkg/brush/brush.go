// Package brush defines the convex polyhedral brush that CSG operates on.
package brush

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/chazu/brushwork/pkg/geom"
	"github.com/chazu/brushwork/pkg/volume"
)

// Brush is a closed convex polyhedron given by its outward-facing faces.
type Brush struct {
	ID    uuid.UUID
	Faces []geom.Polygon
}

// New returns a brush with a fresh ID owning faces.
func New(faces []geom.Polygon) *Brush {
	return &Brush{ID: uuid.New(), Faces: faces}
}

// Box returns the axis-aligned box brush spanning lo to hi.
func Box(lo, hi geom.Vec, surf geom.Surface) *Brush {
	return New(geom.BoxFaces(lo, hi, surf))
}

// FromPlanes returns the brush bounded by planes. Planes that do not touch
// the enclosed region are dropped.
func FromPlanes(planes []geom.Plane) *Brush {
	return New(volume.FromPlanes(planes))
}

// FromPolygons returns the brush bounded by the planes of polys, keeping
// their surfaces.
func FromPolygons(polys []geom.Polygon) *Brush {
	return New(volume.FromPolygons(polys))
}

// Polygons returns a copy of the faces, or nil for a brush without faces.
func (b *Brush) Polygons() []geom.Polygon {
	if len(b.Faces) == 0 {
		return nil
	}
	out := make([]geom.Polygon, len(b.Faces))
	copy(out, b.Faces)
	return out
}

// Planes returns the plane of every face.
func (b *Brush) Planes() []geom.Plane {
	planes := make([]geom.Plane, len(b.Faces))
	for i, f := range b.Faces {
		planes[i] = f.Plane()
	}
	return planes
}

// Centroid is the average of the face centroids, always inside a
// non-degenerate brush.
func (b *Brush) Centroid() geom.Vec {
	var c geom.Vec
	for _, f := range b.Faces {
		c = c.Add(f.Centroid())
	}
	return c.MulScalar(1 / float64(len(b.Faces)))
}

// Bounds returns the axis-aligned bounding box of every vertex.
func (b *Brush) Bounds() (lo, hi geom.Vec) {
	lo = geom.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = geom.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, f := range b.Faces {
		for _, v := range f.Vertices {
			lo = geom.Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
			hi = geom.Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
		}
	}
	return lo, hi
}

// Volume returns the enclosed volume by the divergence theorem.
func (b *Brush) Volume() float64 {
	var v float64
	for _, f := range b.Faces {
		v += f.Centroid().Dot(f.Normal()) * f.Area()
	}
	return v / 3
}

// Translate returns a moved copy keeping b's ID.
func (b *Brush) Translate(d geom.Vec) *Brush {
	faces := make([]geom.Polygon, len(b.Faces))
	for i, f := range b.Faces {
		faces[i] = f.Translate(d)
	}
	return &Brush{ID: b.ID, Faces: faces}
}

// Clone returns a deep copy with a fresh ID.
func (b *Brush) Clone() *Brush {
	faces := make([]geom.Polygon, len(b.Faces))
	for i, f := range b.Faces {
		faces[i] = geom.NewPolygon(f.Vertices, f.Surface)
	}
	return New(faces)
}

// Vertices returns every face vertex, repeated once per face that uses it.
func (b *Brush) Vertices() []geom.Vec {
	var vs []geom.Vec
	for _, f := range b.Faces {
		vs = append(vs, f.Vertices...)
	}
	return vs
}

func (b *Brush) String() string {
	lo, hi := b.Bounds()
	return fmt.Sprintf("brush %s (%d faces, %v..%v)", b.ID.String()[:8], len(b.Faces), lo, hi)
}
