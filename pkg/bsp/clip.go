package bsp

import (
	"fmt"

	"github.com/chazu/brushwork/pkg/geom"
)

// Clipper supplies the only entity-specific operations the clip engine needs.
type Clipper[T any] interface {
	// Classify relates the whole entity to plane.
	Classify(e T, plane geom.Plane) geom.Class
	// PassCoplanarBack routes an entity lying in plane: true sends it to the
	// back (solid) child, false to the front.
	PassCoplanarBack(e T, plane geom.Plane) bool
	// Split cuts a straddling entity into its front and back parts.
	Split(e T, plane geom.Plane) (front, back T)
}

// FragmentType selects which leaves keep fragments.
type FragmentType int

const (
	Empty FragmentType = iota
	Solid
)

func (f FragmentType) String() string {
	switch f {
	case Empty:
		return "empty"
	case Solid:
		return "solid"
	default:
		return fmt.Sprintf("FragmentType(%d)", int(f))
	}
}

// Result is the outcome of clipping one entity. Whole is true when the entity
// survived without being fragmented, in which case Fragments holds exactly
// the original entity.
type Result[T any] struct {
	Fragments []T
	Whole     bool
}

// ClipToTree clips e against t and returns the parts that end in leaves of
// the keep type.
//
// Recursion depth equals the depth of t. Goroutine stacks grow on demand, so
// deep trees cost memory rather than crashing.
func ClipToTree[T any](e T, c Clipper[T], t *Tree, keep FragmentType) Result[T] {
	if keep != Empty && keep != Solid {
		panic(fmt.Sprintf("bsp: invalid fragment type %d", int(keep)))
	}
	return clipSubtree(e, c, t, t.root, keep)
}

func clipSubtree[T any](e T, c Clipper[T], t *Tree, id NodeID, keep FragmentType) Result[T] {
	n := t.at(id)
	if n.leaf {
		if t.IsSolid(id) == (keep == Solid) {
			return Result[T]{Fragments: []T{e}, Whole: true}
		}
		return Result[T]{}
	}

	switch class := c.Classify(e, n.splitter); class {
	case geom.Back:
		return clipSubtree(e, c, t, n.right, keep)
	case geom.Front:
		return clipSubtree(e, c, t, n.left, keep)
	case geom.Coplanar:
		if c.PassCoplanarBack(e, n.splitter) {
			return clipSubtree(e, c, t, n.right, keep)
		}
		return clipSubtree(e, c, t, n.left, keep)
	case geom.Straddle:
		frontPart, backPart := c.Split(e, n.splitter)
		fr := clipSubtree(frontPart, c, t, n.left, keep)
		br := clipSubtree(backPart, c, t, n.right, keep)
		switch {
		case fr.Whole && br.Whole:
			return Result[T]{Fragments: []T{e}, Whole: true}
		case fr.Whole:
			frags := make([]T, 0, 1+len(br.Fragments))
			frags = append(frags, frontPart)
			return Result[T]{Fragments: append(frags, br.Fragments...)}
		case br.Whole:
			frags := make([]T, 0, len(fr.Fragments)+1)
			frags = append(frags, fr.Fragments...)
			return Result[T]{Fragments: append(frags, backPart)}
		default:
			frags := make([]T, 0, len(fr.Fragments)+len(br.Fragments))
			frags = append(frags, fr.Fragments...)
			return Result[T]{Fragments: append(frags, br.Fragments...)}
		}
	default:
		panic(fmt.Sprintf("bsp: unreachable classification %s", class))
	}
}

// ClipAll clips every entity and concatenates the surviving fragments.
func ClipAll[T any](es []T, c Clipper[T], t *Tree, keep FragmentType) []T {
	var out []T
	for _, e := range es {
		out = append(out, ClipToTree(e, c, t, keep).Fragments...)
	}
	return out
}
