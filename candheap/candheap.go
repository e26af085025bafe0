// Package candheap implements the indexed min-heap of candidate games: an
// array-backed binary heap with the invariant that at most one entry exists
// per anchor player ID, and an auxiliary anchor-id -> index map kept
// consistent on every swap so updates and removals run in O(log n).
package candheap

import "github.com/LukeAtkinz/matchcore/game"

// Heap is a min-heap of *game.CandidateGame ordered by game.Less, unique on
// anchor player ID.
type Heap struct {
	items []*game.CandidateGame
	index map[int]int // anchor player ID -> index in items
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{index: make(map[int]int)}
}

// Len returns the number of games currently held. O(1).
func (h *Heap) Len() int {
	return len(h.items)
}

// Peek returns the root game without removing it, or nil if empty. O(1).
func (h *Heap) Peek() *game.CandidateGame {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// Contains reports whether a game anchored at anchorID is present. O(1).
func (h *Heap) Contains(anchorID int) bool {
	_, ok := h.index[anchorID]
	return ok
}

// IndexOf returns the array index of the game anchored at anchorID, or -1
// if absent. O(1).
func (h *Heap) IndexOf(anchorID int) int {
	if idx, ok := h.index[anchorID]; ok {
		return idx
	}
	return -1
}

// At returns the game at a specific array index, for observer snapshots
// that want heap array order.
func (h *Heap) At(index int) *game.CandidateGame {
	return h.items[index]
}

// Push inserts g, or replaces the existing entry for g.Anchor.ID and
// re-seats it, enforcing the at-most-one-per-anchor invariant. O(log n).
func (h *Heap) Push(g *game.CandidateGame) {
	anchorID := g.Anchor.ID
	if idx, ok := h.index[anchorID]; ok {
		h.items[idx] = g
		h.fixPosition(idx)
		return
	}

	h.items = append(h.items, g)
	idx := len(h.items) - 1
	h.index[anchorID] = idx
	h.siftUp(idx)
}

// Remove deletes the game anchored at anchorID, if present. A missing ID is
// a silent no-op. O(log n).
func (h *Heap) Remove(anchorID int) {
	idx, ok := h.index[anchorID]
	if !ok {
		return
	}
	h.removeAt(idx)
}

func (h *Heap) removeAt(idx int) {
	lastIdx := len(h.items) - 1

	if idx == lastIdx {
		removed := h.items[lastIdx]
		h.items = h.items[:lastIdx]
		delete(h.index, removed.Anchor.ID)
		return
	}

	h.swap(idx, lastIdx)
	removed := h.items[lastIdx]
	h.items = h.items[:lastIdx]
	delete(h.index, removed.Anchor.ID)

	h.fixPosition(idx)
}

// fixPosition restores the heap invariant at idx after its value changed,
// choosing exactly one direction to sift based on the parent comparison.
func (h *Heap) fixPosition(idx int) {
	if idx == 0 {
		h.siftDown(idx)
		return
	}

	parent := (idx - 1) / 2
	if h.items[idx].Less(h.items[parent]) {
		h.siftUp(idx)
	} else {
		h.siftDown(idx)
	}
}

func (h *Heap) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if h.items[idx].Less(h.items[parent]) {
			h.swap(idx, parent)
			idx = parent
		} else {
			break
		}
	}
}

func (h *Heap) siftDown(idx int) {
	size := len(h.items)
	for {
		smallest := idx
		left := 2*idx + 1
		right := 2*idx + 2

		if left < size && h.items[left].Less(h.items[smallest]) {
			smallest = left
		}
		if right < size && h.items[right].Less(h.items[smallest]) {
			smallest = right
		}

		if smallest == idx {
			break
		}
		h.swap(idx, smallest)
		idx = smallest
	}
}

func (h *Heap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.index[h.items[i].Anchor.ID] = i
	h.index[h.items[j].Anchor.ID] = j
}
