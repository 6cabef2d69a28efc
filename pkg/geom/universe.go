package geom

import "math"

// UniverseExtent is the half size of a universe polygon. It must exceed the
// extent of any geometry handed to the CSG layer.
const UniverseExtent = 131072

// UniversePolygon returns a square of half size UniverseExtent lying in plane,
// centred on the point of the plane closest to the origin and wound so its
// normal equals plane.Normal.
func UniversePolygon(plane Plane, surf Surface) Polygon {
	n := plane.Normal

	// Cross with the axis least aligned with n for a stable in-plane basis.
	up := Vec{X: 1}
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ay <= ax && ay <= az:
		up = Vec{Y: 1}
	case az <= ax && az <= ay:
		up = Vec{Z: 1}
	}
	u := up.Cross(n)
	u = u.MulScalar(1 / u.Length())
	v := n.Cross(u)

	c := n.MulScalar(plane.D)
	s := float64(UniverseExtent)
	us, vs := u.MulScalar(s), v.MulScalar(s)
	return Polygon{
		Vertices: []Vec{
			c.Sub(us).Sub(vs),
			c.Add(us).Sub(vs),
			c.Add(us).Add(vs),
			c.Sub(us).Add(vs),
		},
		Surface: surf,
	}
}
