package geom

import "fmt"

// BoxFaces returns the six outward-facing faces of the axis-aligned box
// [lo,hi] in the order -X, +X, -Y, +Y, -Z, +Z. It panics unless hi exceeds
// lo on every axis.
func BoxFaces(lo, hi Vec, surf Surface) []Polygon {
	if hi.X-lo.X < Epsilon || hi.Y-lo.Y < Epsilon || hi.Z-lo.Z < Epsilon {
		panic(fmt.Sprintf("geom: empty box %v..%v", lo, hi))
	}
	x0, y0, z0 := lo.X, lo.Y, lo.Z
	x1, y1, z1 := hi.X, hi.Y, hi.Z
	quad := func(a, b, c, d Vec) Polygon {
		return Polygon{Vertices: []Vec{a, b, c, d}, Surface: surf}
	}
	return []Polygon{
		quad(Vec{X: x0, Y: y0, Z: z0}, Vec{X: x0, Y: y0, Z: z1}, Vec{X: x0, Y: y1, Z: z1}, Vec{X: x0, Y: y1, Z: z0}),
		quad(Vec{X: x1, Y: y0, Z: z0}, Vec{X: x1, Y: y1, Z: z0}, Vec{X: x1, Y: y1, Z: z1}, Vec{X: x1, Y: y0, Z: z1}),
		quad(Vec{X: x0, Y: y0, Z: z0}, Vec{X: x1, Y: y0, Z: z0}, Vec{X: x1, Y: y0, Z: z1}, Vec{X: x0, Y: y0, Z: z1}),
		quad(Vec{X: x0, Y: y1, Z: z0}, Vec{X: x0, Y: y1, Z: z1}, Vec{X: x1, Y: y1, Z: z1}, Vec{X: x1, Y: y1, Z: z0}),
		quad(Vec{X: x0, Y: y0, Z: z0}, Vec{X: x0, Y: y1, Z: z0}, Vec{X: x1, Y: y1, Z: z0}, Vec{X: x1, Y: y0, Z: z0}),
		quad(Vec{X: x0, Y: y0, Z: z1}, Vec{X: x1, Y: y0, Z: z1}, Vec{X: x1, Y: y1, Z: z1}, Vec{X: x0, Y: y1, Z: z1}),
	}
}
