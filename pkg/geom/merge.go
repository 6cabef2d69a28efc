package geom

// MergeCoplanar repeatedly joins pairs of polygons that lie in the same
// oriented plane, share a surface and share an edge, as long as the joined
// polygon is still convex. Input order is kept for polygons that are not
// merged.
func MergeCoplanar(polys []Polygon) []Polygon {
	out := make([]Polygon, len(polys))
	copy(out, polys)

	for merged := true; merged; {
		merged = false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				m, ok := mergePair(out[i], out[j])
				if !ok {
					continue
				}
				out[i] = m
				out = append(out[:j], out[j+1:]...)
				merged = true
				j = i
			}
		}
	}
	return out
}

func mergePair(p, q Polygon) (Polygon, bool) {
	if p.Surface != q.Surface || !p.Plane().Coincident(q.Plane()) {
		return Polygon{}, false
	}
	n, m := len(p.Vertices), len(q.Vertices)
	for i := 0; i < n; i++ {
		a, b := p.Vertices[i], p.Vertices[(i+1)%n]
		for j := 0; j < m; j++ {
			if !SameVertex(q.Vertices[j], b) || !SameVertex(q.Vertices[(j+1)%m], a) {
				continue
			}
			vs := make([]Vec, 0, n+m-2)
			for k := 1; k <= n; k++ {
				vs = append(vs, p.Vertices[(i+k)%n])
			}
			for k := 2; k < m; k++ {
				vs = append(vs, q.Vertices[(j+k)%m])
			}
			vs = dropCollinear(vs)
			if len(vs) < 3 || !convex(vs, p.Normal()) {
				return Polygon{}, false
			}
			return Polygon{Vertices: vs, Surface: p.Surface}, true
		}
	}
	return Polygon{}, false
}

// dropCollinear removes duplicate vertices and vertices lying on the segment
// between their neighbours.
func dropCollinear(vs []Vec) []Vec {
	for changed := true; changed && len(vs) >= 3; {
		changed = false
		for i := 0; i < len(vs); i++ {
			prev := vs[(i+len(vs)-1)%len(vs)]
			cur := vs[i]
			next := vs[(i+1)%len(vs)]
			e := next.Sub(prev)
			el := e.Length()
			if el < Epsilon || SameVertex(prev, cur) || cur.Sub(prev).Cross(e).Length()/el < Epsilon {
				vs = append(vs[:i], vs[i+1:]...)
				changed = true
				break
			}
		}
	}
	return vs
}

func convex(vs []Vec, normal Vec) bool {
	n := len(vs)
	for i := 0; i < n; i++ {
		prev, cur, next := vs[(i+n-1)%n], vs[i], vs[(i+1)%n]
		if cur.Sub(prev).Cross(next.Sub(cur)).Dot(normal) < -Epsilon {
			return false
		}
	}
	return true
}
