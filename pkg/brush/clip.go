package brush

import (
	"github.com/chazu/brushwork/pkg/bsp"
	"github.com/chazu/brushwork/pkg/geom"
)

// Clipper clips brushes against BSP trees. Split halves are closed with a
// cap in the splitter plane whose surface comes from the first Donor polygon
// lying in that plane, or Default when none does.
type Clipper struct {
	Donor   []geom.Polygon
	Default geom.Surface
}

var _ bsp.Clipper[*Brush] = Clipper{}

func (Clipper) Classify(b *Brush, plane geom.Plane) geom.Class {
	return geom.ClassifyPoints(b.Vertices(), plane)
}

// PassCoplanarBack only sees degenerate brushes, which go to the front.
func (Clipper) PassCoplanarBack(b *Brush, plane geom.Plane) bool {
	return false
}

func (c Clipper) Split(b *Brush, plane geom.Plane) (front, back *Brush) {
	var ff, bf []geom.Polygon
	for _, f := range b.Faces {
		switch geom.ClassifyPolygon(f, plane) {
		case geom.Front:
			ff = append(ff, f)
		case geom.Back:
			bf = append(bf, f)
		case geom.Coplanar:
			if f.Normal().Dot(plane.Normal) > 0 {
				bf = append(bf, f)
			} else {
				ff = append(ff, f)
			}
		case geom.Straddle:
			fp, bp := geom.SplitPolygon(f, plane)
			ff = append(ff, fp)
			bf = append(bf, bp)
		}
	}

	// The front half is capped by a face looking back along the splitter.
	caps := bsp.ClipToTree[geom.Polygon](
		geom.UniversePolygon(plane.Negate(), c.surfaceFor(plane)),
		bsp.PolygonClipper{Policy: bsp.AlwaysBack},
		bsp.BuildRightLinear(b.Planes()),
		bsp.Solid,
	).Fragments
	for _, cp := range caps {
		ff = append(ff, cp)
		bf = append(bf, cp.FlipWinding())
	}
	return New(ff), New(bf)
}

func (c Clipper) surfaceFor(plane geom.Plane) geom.Surface {
	flipped := plane.Negate()
	for _, d := range c.Donor {
		if dp := d.Plane(); dp.Coincident(plane) || dp.Coincident(flipped) {
			return d.Surface
		}
	}
	return c.Default
}
