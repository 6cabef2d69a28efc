package csg

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/bsp"
)

// Outcome classifies what a difference did to its subject.
type Outcome int

const (
	// Unaffected means the subject lies entirely outside the subtrahend.
	Unaffected Outcome = iota
	// Replaced means the subject was cut into the returned fragments.
	Replaced
	// Eliminated means nothing of the subject survives.
	Eliminated
)

func (o Outcome) String() string {
	switch o {
	case Unaffected:
		return "unaffected"
	case Replaced:
		return "replaced"
	case Eliminated:
		return "eliminated"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// DifferenceResult is the subject minus a solid. Fragments holds the subject
// itself when Unaffected and is empty when Eliminated.
type DifferenceResult struct {
	Outcome   Outcome
	Fragments []*brush.Brush
}

// Difference returns a minus b. Caps exposed by the cut take b's surfaces.
func Difference(a, b *brush.Brush, opts bsp.Options) DifferenceResult {
	tree := bsp.Build(b.Faces, opts)
	return DifferenceTree(a, tree, brush.Clipper{Donor: b.Faces})
}

// DifferenceTree returns a minus the solid space of tree. Building the tree
// once lets a caller subtract the same solid from many brushes.
func DifferenceTree(a *brush.Brush, tree *bsp.Tree, c brush.Clipper) DifferenceResult {
	res := bsp.ClipToTree[*brush.Brush](a, c, tree, bsp.Empty)
	var r DifferenceResult
	switch {
	case res.Whole:
		r = DifferenceResult{Outcome: Unaffected, Fragments: res.Fragments}
	case len(res.Fragments) == 0:
		r = DifferenceResult{Outcome: Eliminated}
	default:
		r = DifferenceResult{Outcome: Replaced, Fragments: res.Fragments}
	}
	log.WithFields(logrus.Fields{"brush": a.ID, "outcome": r.Outcome, "fragments": len(r.Fragments)}).
		Debug("csg: difference")
	return r
}
