package scene

import (
	"sync"

	"github.com/chazu/brushwork/pkg/csg"
)

// History is a linear undo stack of committed batches.
type History struct {
	// Idx is the record that Undo reverts next, -1 when nothing is left.
	Idx  int
	Recs []csg.Batch
	Mu   sync.Mutex
}

// Save records b as the next step to undo, discarding any redo records.
func (h *History) Save(b csg.Batch) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	h.Idx++
	h.Recs = append(h.Recs[:h.Idx], b)
}

// Undo returns the record at Idx and steps back.
func (h *History) Undo() (csg.Batch, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	if h.Idx < 0 {
		return csg.Batch{}, false
	}
	b := h.Recs[h.Idx]
	h.Idx--
	return b, true
}

// Redo steps forward and returns that record.
func (h *History) Redo() (csg.Batch, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	if h.Idx >= len(h.Recs)-1 {
		return csg.Batch{}, false
	}
	h.Idx++
	return h.Recs[h.Idx], true
}

// IsUndoAvail reports whether a record is available to undo.
func (h *History) IsUndoAvail() bool {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.Idx >= 0
}

// IsRedoAvail reports whether a record is available to redo.
func (h *History) IsRedoAvail() bool {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.Idx < len(h.Recs)-1
}
