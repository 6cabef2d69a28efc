package geom

import "fmt"

// SplitPolygon cuts a straddling polygon in two along plane. Both halves keep
// the winding and surface of poly. It panics if poly does not straddle plane.
func SplitPolygon(poly Polygon, plane Plane) (front, back Polygon) {
	if c := ClassifyPolygon(poly, plane); c != Straddle {
		panic(fmt.Sprintf("geom: SplitPolygon on a %s polygon", c))
	}

	n := len(poly.Vertices)
	dist := make([]float64, n)
	class := make([]Class, n)
	for i, v := range poly.Vertices {
		dist[i] = plane.Distance(v)
		class[i] = ClassifyDistance(dist[i])
	}

	fv := make([]Vec, 0, n+1)
	bv := make([]Vec, 0, n+1)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a := poly.Vertices[i]

		switch class[i] {
		case Front:
			fv = append(fv, a)
		case Back:
			bv = append(bv, a)
		default:
			fv = append(fv, a)
			bv = append(bv, a)
		}

		if (class[i] == Front && class[j] == Back) || (class[i] == Back && class[j] == Front) {
			t := dist[i] / (dist[i] - dist[j])
			b := poly.Vertices[j]
			x := a.Add(b.Sub(a).MulScalar(t))
			fv = append(fv, x)
			bv = append(bv, x)
		}
	}

	return Polygon{Vertices: fv, Surface: poly.Surface}, Polygon{Vertices: bv, Surface: poly.Surface}
}
