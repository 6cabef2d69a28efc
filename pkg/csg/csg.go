// Package csg implements union, intersection, difference, carve and hollow
// on convex brushes using BSP trees.
//
// Union and intersection operate on polygon groups, each the closed boundary
// of a solid. Difference, carve and hollow operate on brushes and produce
// brushes.
package csg

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/bsp"
	"github.com/chazu/brushwork/pkg/geom"
	"github.com/chazu/brushwork/pkg/volume"
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package logger. Operations log at debug level.
func SetLogger(l logrus.FieldLogger) {
	log = l
}

// SymmetricOp folds groups into one boundary. Each step clips the new group
// against the accumulated boundary's tree and the accumulated boundary
// against the new group's tree, keeping fragments that land in leaves of the
// keep type. The result lists accumulated survivors before new ones.
//
// Empty groups are skipped for union. For intersection an empty group, or an
// accumulation that becomes empty, yields an empty result.
func SymmetricOp(groups [][]geom.Polygon, keep bsp.FragmentType, opts bsp.Options) []geom.Polygon {
	union := keep == bsp.Empty
	newClipper := bsp.PolygonClipper{Policy: bsp.CoplanarPolicy{SameFacingBack: true, OppositeFacingBack: union}}
	accClipper := bsp.PolygonClipper{Policy: bsp.CoplanarPolicy{SameFacingBack: false, OppositeFacingBack: union}}

	var acc []geom.Polygon
	started := false
	for i, g := range groups {
		if len(g) == 0 {
			if !union {
				return nil
			}
			continue
		}
		if !started {
			acc = append([]geom.Polygon(nil), g...)
			started = true
			continue
		}

		accTree := bsp.Build(acc, opts)
		groupTree := bsp.Build(g, opts)
		newSurvivors := bsp.ClipAll[geom.Polygon](g, newClipper, accTree, keep)
		accSurvivors := bsp.ClipAll[geom.Polygon](acc, accClipper, groupTree, keep)
		acc = append(accSurvivors, newSurvivors...)

		log.WithFields(logrus.Fields{
			"group": i, "keep": keep, "acc_nodes": accTree.Len(), "group_nodes": groupTree.Len(),
			"acc_kept": len(accSurvivors), "new_kept": len(newSurvivors),
		}).Debug("csg: symmetric step")

		if len(acc) == 0 {
			return nil
		}
	}
	return acc
}

// Union returns the boundary of the union of every group.
func Union(groups [][]geom.Polygon, opts bsp.Options) []geom.Polygon {
	return SymmetricOp(groups, bsp.Empty, opts)
}

// Intersection returns the boundary of the common volume of every group.
func Intersection(groups [][]geom.Polygon, opts bsp.Options) []geom.Polygon {
	return SymmetricOp(groups, bsp.Solid, opts)
}

// BrushGroups returns the faces of each brush as one group.
func BrushGroups(brushes []*brush.Brush) [][]geom.Polygon {
	return lo.Map(brushes, func(b *brush.Brush, _ int) []geom.Polygon {
		return b.Polygons()
	})
}

// Decompose turns a closed boundary into convex brushes, one per solid leaf
// of its tree. Each facet takes the surface of a source polygon in the same
// plane; coplanar facets of one brush are merged.
func Decompose(polys []geom.Polygon, opts bsp.Options) []*brush.Brush {
	if len(polys) == 0 {
		return nil
	}
	tree := bsp.Build(polys, opts)
	var out []*brush.Brush
	for _, facets := range volume.FromTree(tree) {
		for i := range facets {
			facets[i].Surface = surfaceOf(facets[i], polys)
		}
		out = append(out, brush.New(geom.MergeCoplanar(facets)))
	}
	log.WithFields(logrus.Fields{"polygons": len(polys), "nodes": tree.Len(), "brushes": len(out)}).
		Debug("csg: decompose")
	return out
}

func surfaceOf(facet geom.Polygon, polys []geom.Polygon) geom.Surface {
	plane := facet.Plane()
	p, ok := lo.Find(polys, func(p geom.Polygon) bool {
		return p.Plane().Coincident(plane)
	})
	if !ok {
		return geom.Surface{}
	}
	return p.Surface
}
