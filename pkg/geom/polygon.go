package geom

import (
	"fmt"
	"strings"
)

// TexturePlane positions a texture on a face. brushwork never interprets it;
// it travels with polygons through splits and CSG.
type TexturePlane struct {
	ShiftS, ShiftT float64
	Rotation       float64
	ScaleS, ScaleT float64
}

// Surface is the pass-through appearance of a polygon.
type Surface struct {
	Texture  string
	TexPlane TexturePlane
}

// Polygon is a planar convex polygon. Its normal is derived from the first
// three vertices using the right-hand rule.
type Polygon struct {
	Vertices []Vec
	Surface  Surface
}

// NewPolygon copies verts into a new polygon. It panics when fewer than three
// vertices are given.
func NewPolygon(verts []Vec, surf Surface) Polygon {
	if len(verts) < 3 {
		panic(fmt.Sprintf("geom: polygon needs at least 3 vertices, got %d", len(verts)))
	}
	vs := make([]Vec, len(verts))
	copy(vs, verts)
	return Polygon{Vertices: vs, Surface: surf}
}

// Normal returns the unit normal derived from the first three vertices.
func (p Polygon) Normal() Vec {
	v := p.Vertices
	n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
	l := n.Length()
	if l < 1e-12 {
		panic("geom: degenerate polygon, first three vertices are collinear")
	}
	return n.MulScalar(1 / l)
}

// Plane returns the plane the polygon lies in.
func (p Polygon) Plane() Plane {
	return PlaneThrough(p.Normal(), p.Vertices[0])
}

// FlipWinding returns the polygon with reversed vertex order, so its normal
// points the other way.
func (p Polygon) FlipWinding() Polygon {
	n := len(p.Vertices)
	vs := make([]Vec, n)
	for i, v := range p.Vertices {
		vs[n-1-i] = v
	}
	return Polygon{Vertices: vs, Surface: p.Surface}
}

// Translate returns the polygon moved by d.
func (p Polygon) Translate(d Vec) Polygon {
	vs := make([]Vec, len(p.Vertices))
	for i, v := range p.Vertices {
		vs[i] = v.Add(d)
	}
	return Polygon{Vertices: vs, Surface: p.Surface}
}

// Centroid is the average of the vertices.
func (p Polygon) Centroid() Vec {
	var c Vec
	for _, v := range p.Vertices {
		c = c.Add(v)
	}
	return c.MulScalar(1 / float64(len(p.Vertices)))
}

// Area returns the polygon area.
func (p Polygon) Area() float64 {
	var sum Vec
	v0 := p.Vertices[0]
	for i := 1; i+1 < len(p.Vertices); i++ {
		sum = sum.Add(p.Vertices[i].Sub(v0).Cross(p.Vertices[i+1].Sub(v0)))
	}
	return sum.Length() / 2
}

// Equal reports whether q has the same vertices in the same cyclic order as
// p, within Epsilon. The starting vertex may differ.
func (p Polygon) Equal(q Polygon) bool {
	n := len(p.Vertices)
	if n != len(q.Vertices) {
		return false
	}
	for off := 0; off < n; off++ {
		match := true
		for i := 0; i < n; i++ {
			if !SameVertex(p.Vertices[i], q.Vertices[(i+off)%n]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (p Polygon) String() string {
	parts := make([]string, len(p.Vertices))
	for i, v := range p.Vertices {
		parts[i] = fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
	}
	return strings.Join(parts, "-")
}

// SameVertex reports whether a and b are within Epsilon of each other.
func SameVertex(a, b Vec) bool {
	return a.Sub(b).Length() < Epsilon
}
