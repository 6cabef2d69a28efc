package geom

import "fmt"

// Class is the relation of a point, polygon or brush to a plane.
type Class int

const (
	Back Class = iota
	Front
	Coplanar
	Straddle
)

func (c Class) String() string {
	switch c {
	case Back:
		return "back"
	case Front:
		return "front"
	case Coplanar:
		return "coplanar"
	case Straddle:
		return "straddle"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ClassifyDistance classifies a signed plane distance.
func ClassifyDistance(d float64) Class {
	switch {
	case d > Epsilon:
		return Front
	case d < -Epsilon:
		return Back
	default:
		return Coplanar
	}
}

// ClassifyPoint returns Front, Back or Coplanar for point against plane.
func ClassifyPoint(point Vec, plane Plane) Class {
	return ClassifyDistance(plane.Distance(point))
}

// ClassifyPoints folds the classification of every point. Points within
// Epsilon of the plane do not vote.
func ClassifyPoints(points []Vec, plane Plane) Class {
	front, back := false, false
	for _, v := range points {
		switch ClassifyPoint(v, plane) {
		case Front:
			front = true
		case Back:
			back = true
		}
	}
	switch {
	case front && back:
		return Straddle
	case front:
		return Front
	case back:
		return Back
	default:
		return Coplanar
	}
}

// ClassifyPolygon classifies every vertex of poly against plane.
func ClassifyPolygon(poly Polygon, plane Plane) Class {
	return ClassifyPoints(poly.Vertices, plane)
}
