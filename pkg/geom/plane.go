package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec is the 3D vector type used throughout brushwork.
type Vec = v3.Vec

// Epsilon is the tolerance separating coplanar from front/back. It is the
// only classification tolerance in the module; changing it changes tree
// topology.
const Epsilon = 1e-4

// Plane is the set of points x with Normal·x = D. Normal always has unit
// length.
type Plane struct {
	Normal Vec
	D      float64
}

// NewPlane builds a plane from any non-zero normal, normalizing both the
// normal and d. It panics on a zero-length normal.
func NewPlane(normal Vec, d float64) Plane {
	l := normal.Length()
	if l < 1e-12 {
		panic(fmt.Sprintf("geom: plane normal %v has zero length", normal))
	}
	return Plane{Normal: normal.MulScalar(1 / l), D: d / l}
}

// PlaneThrough returns the plane with the given normal passing through point.
func PlaneThrough(normal, point Vec) Plane {
	p := NewPlane(normal, 0)
	p.D = p.Normal.Dot(point)
	return p
}

// Distance is the signed displacement from the plane to point, positive in
// front.
func (p Plane) Distance(point Vec) float64 {
	return p.Normal.Dot(point) - p.D
}

// Negate flips the plane so front and back swap.
func (p Plane) Negate() Plane {
	return Plane{Normal: p.Normal.MulScalar(-1), D: -p.D}
}

// Translate moves the plane disp units along its normal.
func (p Plane) Translate(disp float64) Plane {
	return Plane{Normal: p.Normal, D: p.D + disp}
}

// Coincident reports whether q is the same oriented plane as p within
// Epsilon.
func (p Plane) Coincident(q Plane) bool {
	return p.Normal.Sub(q.Normal).Length() < Epsilon && math.Abs(p.D-q.D) < Epsilon
}

func (p Plane) String() string {
	return fmt.Sprintf("(%.4g %.4g %.4g) %.4g", p.Normal.X, p.Normal.Y, p.Normal.Z, p.D)
}
