package csg

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/bsp"
	"github.com/chazu/brushwork/pkg/geom"
)

// ErrHollowInfeasible is returned when a brush cannot be hollowed with the
// requested wall thickness.
var ErrHollowInfeasible = errors.New("hollow infeasible")

// Hollow replaces b by walls of the given thickness. A positive thickness
// keeps the outer surface and carves the interior; a negative thickness
// keeps b as the cavity and grows walls outward. Inner faces keep the
// surface of the face they were offset from.
func Hollow(b *brush.Brush, thickness float64, opts bsp.Options) ([]*brush.Brush, error) {
	if math.Abs(thickness) < geom.Epsilon {
		return nil, fmt.Errorf("%w: thickness %g is too small", ErrHollowInfeasible, thickness)
	}

	offset := make([]geom.Polygon, len(b.Faces))
	planes := make([]geom.Plane, len(b.Faces))
	centroid := b.Centroid()
	for i, f := range b.Faces {
		offset[i] = f.Translate(f.Normal().MulScalar(-thickness))
		planes[i] = f.Plane().Translate(-thickness)
		if geom.ClassifyPoint(centroid, planes[i]) != geom.Back {
			log.WithField("brush", b.ID).Debugf("csg: hollow rejected, thickness %g", thickness)
			return nil, fmt.Errorf("%w: thickness %g leaves no interior", ErrHollowInfeasible, thickness)
		}
	}

	var r DifferenceResult
	if thickness > 0 {
		inner := bsp.BuildRightLinear(planes)
		r = DifferenceTree(b, inner, brush.Clipper{Donor: offset})
	} else {
		outer := brush.FromPolygons(offset)
		r = DifferenceTree(outer, bsp.Build(b.Faces, opts), brush.Clipper{Donor: b.Faces})
	}
	if r.Outcome != Replaced {
		return nil, fmt.Errorf("%w: carving the interior left the brush %s", ErrHollowInfeasible, r.Outcome)
	}
	return r.Fragments, nil
}
