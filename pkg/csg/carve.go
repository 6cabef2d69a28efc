package csg

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/bsp"
)

// Container holds the brushes of a map.
type Container interface {
	Brushes() []*brush.Brush
	Add(brushes ...*brush.Brush)
	Delete(ids ...uuid.UUID)
	Select(ids ...uuid.UUID)
}

// Committer applies a batch as one undoable step.
type Committer interface {
	Commit(b Batch) error
}

// Batch is an atomic set of brush deletions and additions.
type Batch struct {
	Name    string
	Deleted []*brush.Brush
	Added   []*brush.Brush
}

// Empty reports whether the batch changes nothing.
func (b Batch) Empty() bool {
	return len(b.Deleted) == 0 && len(b.Added) == 0
}

// Apply deletes then adds.
func (b Batch) Apply(c Container) {
	c.Delete(ids(b.Deleted)...)
	c.Add(b.Added...)
}

// Revert undoes Apply.
func (b Batch) Revert(c Container) {
	c.Delete(ids(b.Added)...)
	c.Add(b.Deleted...)
}

func ids(bs []*brush.Brush) []uuid.UUID {
	return lo.Map(bs, func(b *brush.Brush, _ int) uuid.UUID { return b.ID })
}

// Carve subtracts carver from every other brush in c and commits the result
// as one batch. Brushes the carver does not touch stay as they are; the
// fragments that replace touched brushes end up selected. Caps exposed by
// the carve take the carver's surfaces.
func Carve(carver *brush.Brush, c Container, committer Committer, opts bsp.Options) (Batch, error) {
	tree := bsp.Build(carver.Faces, opts)
	clipper := brush.Clipper{Donor: carver.Faces}

	batch := Batch{Name: "carve"}
	for _, b := range c.Brushes() {
		if b.ID == carver.ID {
			continue
		}
		r := DifferenceTree(b, tree, clipper)
		if r.Outcome == Unaffected {
			continue
		}
		batch.Deleted = append(batch.Deleted, b)
		batch.Added = append(batch.Added, r.Fragments...)
	}

	log.WithFields(logrus.Fields{"deleted": len(batch.Deleted), "added": len(batch.Added)}).Debug("csg: carve")
	if batch.Empty() {
		return batch, nil
	}
	if err := committer.Commit(batch); err != nil {
		return Batch{}, err
	}
	c.Select(ids(batch.Added)...)
	return batch, nil
}
