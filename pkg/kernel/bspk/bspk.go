// Package bspk implements kernel.Kernel over convex brushes. Booleans are
// exact: they run through BSP trees in package csg, so the resulting meshes
// have flat faces and sharp edges.
package bspk

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/bsp"
	"github.com/chazu/brushwork/pkg/csg"
	"github.com/chazu/brushwork/pkg/geom"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/chazu/brushwork/pkg/kernel/sdfx"
)

var (
	_ kernel.Kernel   = (*Kernel)(nil)
	_ kernel.Hollower = (*Kernel)(nil)
	_ kernel.Texturer = (*Kernel)(nil)
)

// DefaultTexture is the surface of freshly created boxes.
const DefaultTexture = "default"

// Solid is a set of convex brushes. Brushes of one solid may overlap only
// after Translate or Rotate of pieces built separately; every boolean
// returns non-overlapping brushes.
type Solid struct {
	Brushes []*brush.Brush
}

// BoundingBox returns the bounds of every brush. An empty solid returns
// +Inf mins and -Inf maxes.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, b := range s.Brushes {
		lo, hi := b.Bounds()
		min = [3]float64{math.Min(min[0], lo.X), math.Min(min[1], lo.Y), math.Min(min[2], lo.Z)}
		max = [3]float64{math.Max(max[0], hi.X), math.Max(max[1], hi.Y), math.Max(max[2], hi.Z)}
	}
	return min, max
}

// IsEmpty reports whether the solid has no brushes.
func (s *Solid) IsEmpty() bool { return len(s.Brushes) == 0 }

// Polygons returns the faces of every brush.
func (s *Solid) Polygons() []geom.Polygon {
	var out []geom.Polygon
	for _, b := range s.Brushes {
		out = append(out, b.Faces...)
	}
	return out
}

// Tree builds the BSP tree of every face of the solid.
func (s *Solid) Tree(opts bsp.Options) (*bsp.Tree, error) {
	polys := s.Polygons()
	if len(polys) == 0 {
		return nil, fmt.Errorf("bspk: tree of empty solid")
	}
	return bsp.Build(polys, opts), nil
}

// Kernel is the BSP brush kernel.
type Kernel struct {
	opts bsp.Options
}

// New returns a kernel building trees with opts.
func New(opts bsp.Options) *Kernel {
	return &Kernel{opts: opts}
}

func unwrap(s kernel.Solid) *Solid {
	return s.(*Solid)
}

// Box creates a box brush with its minimum corner at the origin.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	b := brush.Box(geom.Vec{}, geom.Vec{X: x, Y: y, Z: z}, geom.Surface{Texture: DefaultTexture})
	return &Solid{Brushes: []*brush.Brush{b}}
}

// Union merges the boundaries of both solids and cuts the result back into
// convex brushes.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	brushes := append(append([]*brush.Brush(nil), unwrap(a).Brushes...), unwrap(b).Brushes...)
	polys := csg.Union(csg.BrushGroups(brushes), k.opts)
	return &Solid{Brushes: csg.Decompose(polys, k.opts)}
}

// Intersection intersects every brush of a with every brush of b. The
// intersection of two convex brushes is convex, so each pair yields at most
// one brush.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	out := &Solid{}
	for _, x := range unwrap(a).Brushes {
		for _, y := range unwrap(b).Brushes {
			polys := csg.Intersection([][]geom.Polygon{x.Faces, y.Faces}, k.opts)
			if len(polys) == 0 {
				continue
			}
			if r := brush.FromPolygons(polys); len(r.Faces) >= 4 {
				out.Brushes = append(out.Brushes, r)
			}
		}
	}
	return out
}

// Difference subtracts every brush of b from every brush of a.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	pieces := unwrap(a).Brushes
	for _, y := range unwrap(b).Brushes {
		tree := bsp.Build(y.Faces, k.opts)
		clipper := brush.Clipper{Donor: y.Faces}
		var next []*brush.Brush
		for _, x := range pieces {
			next = append(next, csg.DifferenceTree(x, tree, clipper).Fragments...)
		}
		pieces = next
	}
	return &Solid{Brushes: pieces}
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := geom.Vec{X: x, Y: y, Z: z}
	out := &Solid{}
	for _, b := range unwrap(s).Brushes {
		out.Brushes = append(out.Brushes, b.Translate(d))
	}
	return out
}

// Rotate rotates every vertex about the origin, using the same matrix as
// the sdfx kernel.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdfx.RotationMatrix(x, y, z)
	out := &Solid{}
	for _, b := range unwrap(s).Brushes {
		out.Brushes = append(out.Brushes, transform(b, m))
	}
	return out
}

func transform(b *brush.Brush, m sdf.M44) *brush.Brush {
	faces := make([]geom.Polygon, len(b.Faces))
	for i, f := range b.Faces {
		vs := make([]geom.Vec, len(f.Vertices))
		for j, v := range f.Vertices {
			vs[j] = m.MulPosition(v)
		}
		faces[i] = geom.Polygon{Vertices: vs, Surface: f.Surface}
	}
	return &brush.Brush{ID: b.ID, Faces: faces}
}

// Hollow hollows every brush of s.
func (k *Kernel) Hollow(s kernel.Solid, thickness float64) (kernel.Solid, error) {
	out := &Solid{}
	for _, b := range unwrap(s).Brushes {
		walls, err := csg.Hollow(b, thickness, k.opts)
		if err != nil {
			return nil, fmt.Errorf("bspk: hollow %s: %w", b, err)
		}
		out.Brushes = append(out.Brushes, walls...)
	}
	return out, nil
}

// Texture returns s with every face textured name.
func (k *Kernel) Texture(s kernel.Solid, name string) kernel.Solid {
	out := &Solid{}
	for _, b := range unwrap(s).Brushes {
		c := b.Clone()
		c.ID = b.ID
		for i := range c.Faces {
			c.Faces[i].Surface.Texture = name
		}
		out.Brushes = append(out.Brushes, c)
	}
	return out
}

// ToMesh triangulates every face as a fan around its first vertex. Faces are
// convex, so the fan covers each face exactly.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	m := &kernel.Mesh{}
	for _, b := range unwrap(s).Brushes {
		for _, f := range b.Faces {
			base := uint32(m.VertexCount())
			n := f.Normal()
			for _, v := range f.Vertices {
				m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
				m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			}
			for i := 1; i+1 < len(f.Vertices); i++ {
				m.Indices = append(m.Indices, base, base+uint32(i), base+uint32(i+1))
			}
		}
	}
	return m, nil
}
