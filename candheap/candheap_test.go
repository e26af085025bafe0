package candheap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeAtkinz/matchcore/clock"
	"github.com/LukeAtkinz/matchcore/game"
	"github.com/LukeAtkinz/matchcore/player"
)

func gameWith(anchorID int, imbalance float64, clk clock.Clock) *game.CandidateGame {
	return &game.CandidateGame{
		Anchor:    player.New(anchorID, 1000, clk),
		Imbalance: imbalance,
	}
}

func assertHeapInvariant(t *testing.T, h *Heap) {
	t.Helper()
	for i := 0; i < len(h.items); i++ {
		left, right := 2*i+1, 2*i+2
		if left < len(h.items) {
			assert.False(t, h.items[left].Less(h.items[i]), "left child beats parent at %d", i)
		}
		if right < len(h.items) {
			assert.False(t, h.items[right].Less(h.items[i]), "right child beats parent at %d", i)
		}
		assert.Equal(t, i, h.index[h.items[i].Anchor.ID])
	}
	assert.Len(t, h.index, len(h.items))
}

func TestPushMaintainsHeapOrder(t *testing.T) {
	clk := clock.NewFake()
	h := New()
	values := []float64{5, 3, 8, 1, 9, 2, 7}
	for i, v := range values {
		h.Push(gameWith(i, v, clk))
	}
	assertHeapInvariant(t, h)
	assert.Equal(t, 1.0, h.Peek().Imbalance)
}

func TestPushOnExistingAnchorReplaces(t *testing.T) {
	clk := clock.NewFake()
	h := New()
	h.Push(gameWith(1, 10, clk))
	h.Push(gameWith(2, 20, clk))
	h.Push(gameWith(1, 1, clk)) // replace anchor 1's game with a better one

	assert.Equal(t, 2, h.Len(), "no duplicate entry for anchor 1")
	assert.Equal(t, 1.0, h.Peek().Imbalance)
}

func TestRemoveMissingAnchorIsNoOp(t *testing.T) {
	h := New()
	h.Push(gameWith(1, 10, clock.NewFake()))
	h.Remove(999)
	assert.Equal(t, 1, h.Len())
}

func TestRemoveRestoresInvariant(t *testing.T) {
	clk := clock.NewFake()
	h := New()
	for i, v := range []float64{5, 3, 8, 1, 9, 2, 7, 4, 6} {
		h.Push(gameWith(i, v, clk))
	}

	h.Remove(3) // imbalance 1, currently the root
	assertHeapInvariant(t, h)
	assert.Equal(t, 2.0, h.Peek().Imbalance)
	assert.False(t, h.Contains(3))
}

func TestIndexMapStaysBijectiveUnderRandomOps(t *testing.T) {
	clk := clock.NewFake()
	h := New()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		anchor := rng.Intn(30)
		if rng.Intn(3) == 0 && h.Contains(anchor) {
			h.Remove(anchor)
		} else {
			h.Push(gameWith(anchor, rng.Float64()*100, clk))
		}
		assertHeapInvariant(t, h)
	}
}

func TestNoTwoEntriesShareAnAnchor(t *testing.T) {
	clk := clock.NewFake()
	h := New()
	for i := 0; i < 10; i++ {
		h.Push(gameWith(i%4, float64(i), clk))
	}
	assert.LessOrEqual(t, h.Len(), 4)

	seen := map[int]bool{}
	for _, g := range h.items {
		require.False(t, seen[g.Anchor.ID])
		seen[g.Anchor.ID] = true
	}
}
