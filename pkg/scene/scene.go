// Package scene is an in-memory brush container with batch undo and redo.
package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chazu/brushwork/pkg/brush"
	"github.com/chazu/brushwork/pkg/csg"
)

// Scene holds brushes in insertion order plus a selection.
type Scene struct {
	order    []uuid.UUID
	brushes  map[uuid.UUID]*brush.Brush
	selected map[uuid.UUID]bool
	history  History
}

var (
	_ csg.Container = (*Scene)(nil)
	_ csg.Committer = (*Scene)(nil)
)

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		brushes:  make(map[uuid.UUID]*brush.Brush),
		selected: make(map[uuid.UUID]bool),
		history:  History{Idx: -1},
	}
}

// Brushes returns every brush in insertion order.
func (s *Scene) Brushes() []*brush.Brush {
	return lo.Map(s.order, func(id uuid.UUID, _ int) *brush.Brush { return s.brushes[id] })
}

// Len returns the number of brushes.
func (s *Scene) Len() int { return len(s.order) }

// Add appends brushes. Adding an ID that is already present replaces that
// brush in place.
func (s *Scene) Add(brushes ...*brush.Brush) {
	for _, b := range brushes {
		if _, ok := s.brushes[b.ID]; !ok {
			s.order = append(s.order, b.ID)
		}
		s.brushes[b.ID] = b
	}
}

// Delete removes brushes and drops them from the selection. Unknown IDs are
// ignored.
func (s *Scene) Delete(ids ...uuid.UUID) {
	gone := lo.SliceToMap(ids, func(id uuid.UUID) (uuid.UUID, bool) { return id, true })
	s.order = lo.Reject(s.order, func(id uuid.UUID, _ int) bool { return gone[id] })
	for _, id := range ids {
		delete(s.brushes, id)
		delete(s.selected, id)
	}
}

// Select replaces the selection. IDs not in the scene are ignored.
func (s *Scene) Select(ids ...uuid.UUID) {
	s.selected = make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.brushes[id]; ok {
			s.selected[id] = true
		}
	}
}

// Selected returns the selected brushes in insertion order.
func (s *Scene) Selected() []*brush.Brush {
	return lo.FilterMap(s.order, func(id uuid.UUID, _ int) (*brush.Brush, bool) {
		return s.brushes[id], s.selected[id]
	})
}

// Find returns the brush with the given ID.
func (s *Scene) Find(id uuid.UUID) (*brush.Brush, bool) {
	b, ok := s.brushes[id]
	return b, ok
}

// Commit applies b and records it as one undo step. Committing an empty
// batch is an error.
func (s *Scene) Commit(b csg.Batch) error {
	if b.Empty() {
		return fmt.Errorf("scene: commit %q: empty batch", b.Name)
	}
	for _, d := range b.Deleted {
		if _, ok := s.brushes[d.ID]; !ok {
			return fmt.Errorf("scene: commit %q: brush %s not in scene", b.Name, d.ID)
		}
	}
	b.Apply(s)
	s.history.Save(b)
	return nil
}

// Undo reverts the most recent batch and returns its name, or "" when there
// is nothing to undo.
func (s *Scene) Undo() string {
	b, ok := s.history.Undo()
	if !ok {
		return ""
	}
	b.Revert(s)
	s.Select()
	return b.Name
}

// Redo re-applies the most recently undone batch and returns its name, or ""
// when there is nothing to redo.
func (s *Scene) Redo() string {
	b, ok := s.history.Redo()
	if !ok {
		return ""
	}
	b.Apply(s)
	s.Select()
	return b.Name
}

// CanUndo reports whether Undo would do anything.
func (s *Scene) CanUndo() bool { return s.history.IsUndoAvail() }

// CanRedo reports whether Redo would do anything.
func (s *Scene) CanRedo() bool { return s.history.IsRedoAvail() }
