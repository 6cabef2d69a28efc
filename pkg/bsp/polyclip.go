package bsp

import (
	"fmt"

	"github.com/chazu/brushwork/pkg/geom"
)

// CoplanarPolicy routes a polygon lying in a splitter plane. A polygon is
// opposite facing when the angle between its normal and the splitter normal
// exceeds 90 degrees.
type CoplanarPolicy struct {
	SameFacingBack     bool
	OppositeFacingBack bool
}

// The four routings used by union and intersection.
var (
	IntersectionVariant1 = CoplanarPolicy{SameFacingBack: true, OppositeFacingBack: false}
	IntersectionVariant2 = CoplanarPolicy{SameFacingBack: false, OppositeFacingBack: false}
	UnionVariant1        = CoplanarPolicy{SameFacingBack: true, OppositeFacingBack: true}
	UnionVariant2        = CoplanarPolicy{SameFacingBack: false, OppositeFacingBack: true}
)

// AlwaysBack sends every coplanar polygon to the solid side.
var AlwaysBack = UnionVariant1

func (p CoplanarPolicy) String() string {
	switch p {
	case IntersectionVariant1:
		return "intersection-1"
	case IntersectionVariant2:
		return "intersection-2"
	case UnionVariant1:
		return "union-1"
	case UnionVariant2:
		return "union-2"
	}
	return fmt.Sprintf("CoplanarPolicy%+v", struct{ SameFacingBack, OppositeFacingBack bool }(p))
}

// PolygonClipper clips polygons with a fixed coplanar routing.
type PolygonClipper struct {
	Policy CoplanarPolicy
}

var _ Clipper[geom.Polygon] = PolygonClipper{}

func (PolygonClipper) Classify(p geom.Polygon, plane geom.Plane) geom.Class {
	return geom.ClassifyPolygon(p, plane)
}

func (c PolygonClipper) PassCoplanarBack(p geom.Polygon, plane geom.Plane) bool {
	if p.Normal().Dot(plane.Normal) < 0 {
		return c.Policy.OppositeFacingBack
	}
	return c.Policy.SameFacingBack
}

func (PolygonClipper) Split(p geom.Polygon, plane geom.Plane) (front, back geom.Polygon) {
	return geom.SplitPolygon(p, plane)
}

// NoCoplanarClipper clips polygons in contexts that can never meet a
// coplanar splitter. Routing a coplanar polygon panics.
type NoCoplanarClipper struct{}

var _ Clipper[geom.Polygon] = NoCoplanarClipper{}

func (NoCoplanarClipper) Classify(p geom.Polygon, plane geom.Plane) geom.Class {
	return geom.ClassifyPolygon(p, plane)
}

func (NoCoplanarClipper) PassCoplanarBack(p geom.Polygon, plane geom.Plane) bool {
	panic(fmt.Sprintf("bsp: coplanar polygon %v met splitter %v with no coplanar policy", p, plane))
}

func (NoCoplanarClipper) Split(p geom.Polygon, plane geom.Plane) (front, back geom.Polygon) {
	return geom.SplitPolygon(p, plane)
}
