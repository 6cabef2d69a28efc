// Package volume reconstructs the convex boundary of BSP solid regions.
//
// A solid leaf is the intersection of the half-spaces on its root path. Each
// half-space plane contributes one facet: a universe polygon in that plane
// clipped to the other half-spaces.
package volume

import (
	"github.com/chazu/brushwork/pkg/bsp"
	"github.com/chazu/brushwork/pkg/geom"
)

// LeafPlanes returns the bounding planes of leaf, nearest first. Descending
// right keeps the splitter, descending left keeps its negation.
func LeafPlanes(t *bsp.Tree, leaf bsp.NodeID) []geom.Plane {
	var planes []geom.Plane
	child := leaf
	for parent := t.Parent(child); parent != bsp.NoNode; child, parent = parent, t.Parent(parent) {
		if t.Right(parent) == child {
			planes = append(planes, t.Splitter(parent))
		} else {
			planes = append(planes, t.Splitter(parent).Negate())
		}
	}
	return planes
}

// FromPlanes returns the facets of the convex region behind every plane.
// Planes that do not touch the region produce no facet. Coincident planes
// are kept once. It panics on an empty plane list.
func FromPlanes(planes []geom.Plane) []geom.Polygon {
	faces := make([]geom.Polygon, 0, len(planes))
	for _, p := range planes {
		faces = append(faces, geom.UniversePolygon(p, geom.Surface{}))
	}
	return clipFaces(faces)
}

// FromPolygons is FromPlanes over the planes of polys, with each facet
// carrying the surface of the polygon that defined its plane.
func FromPolygons(polys []geom.Polygon) []geom.Polygon {
	faces := make([]geom.Polygon, 0, len(polys))
	for _, p := range polys {
		faces = append(faces, geom.UniversePolygon(p.Plane(), p.Surface))
	}
	return clipFaces(faces)
}

// FromTree returns one facet list per solid leaf of t, in left-to-right leaf
// order.
func FromTree(t *bsp.Tree) [][]geom.Polygon {
	var volumes [][]geom.Polygon
	for _, leaf := range t.Leaves() {
		if !t.IsSolid(leaf) {
			continue
		}
		if facets := FromPlanes(LeafPlanes(t, leaf)); len(facets) > 0 {
			volumes = append(volumes, facets)
		}
	}
	return volumes
}

func clipFaces(faces []geom.Polygon) []geom.Polygon {
	faces = uniquePlanes(faces)
	planes := make([]geom.Plane, len(faces))
	for i, f := range faces {
		planes[i] = f.Plane()
	}
	tree := bsp.BuildRightLinear(planes)
	return bsp.ClipAll[geom.Polygon](faces, bsp.PolygonClipper{Policy: bsp.AlwaysBack}, tree, bsp.Solid)
}

func uniquePlanes(faces []geom.Polygon) []geom.Polygon {
	out := faces[:0:0]
	for _, f := range faces {
		dup := false
		for _, o := range out {
			if o.Plane().Coincident(f.Plane()) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, f)
		}
	}
	return out
}
