package pool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeAtkinz/matchcore/clock"
	"github.com/LukeAtkinz/matchcore/player"
)

func newPlayers(n int, clk clock.Clock) []*player.Player {
	players := make([]*player.Player, n)
	for i := 0; i < n; i++ {
		players[i] = player.New(i, 1000+i, clk)
	}
	return players
}

func TestAddAndInOrderTraversalIsAscending(t *testing.T) {
	clk := clock.NewFake()
	p := New()
	players := newPlayers(10, clk)
	perm := rand.Perm(10)
	for _, i := range perm {
		p.Add(players[i])
	}

	all := p.All()
	require.Len(t, all, 10)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Less(all[i]))
	}
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	clk := clock.NewFake()
	p := New()
	pl := player.New(1, 1000, clk)
	p.Add(pl)
	p.Add(pl)
	assert.Equal(t, 1, p.Len())
}

func TestRemoveUnknownPlayerFails(t *testing.T) {
	clk := clock.NewFake()
	p := New()
	pl := player.New(1, 1000, clk)
	err := p.Remove(pl)
	require.Error(t, err)
}

func TestRankAndAtRoundTrip(t *testing.T) {
	clk := clock.NewFake()
	p := New()
	players := newPlayers(5, clk)
	for _, pl := range players {
		p.Add(pl)
	}

	for i, pl := range players {
		rank, err := p.Rank(pl)
		require.NoError(t, err)
		assert.Equal(t, i, rank)

		at, err := p.At(i)
		require.NoError(t, err)
		assert.True(t, at.Equal(pl))
	}
}

func TestAtOutOfRangeFails(t *testing.T) {
	p := New()
	_, err := p.At(0)
	require.Error(t, err)
}

func TestSliceReturnsRankRange(t *testing.T) {
	clk := clock.NewFake()
	p := New()
	players := newPlayers(6, clk)
	for _, pl := range players {
		p.Add(pl)
	}

	got, err := p.Slice(2, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, players[2].ID, got[0].ID)
	assert.Equal(t, players[4].ID, got[2].ID)
}

func TestSliceOutOfRangeFails(t *testing.T) {
	p := New()
	p.Add(player.New(1, 1000, clock.NewFake()))
	_, err := p.Slice(0, 5)
	require.Error(t, err)
}

func TestInsertThenRemoveAllLeavesEmptyPool(t *testing.T) {
	clk := clock.NewFake()
	p := New()
	players := newPlayers(20, clk)
	for _, pl := range players {
		p.Add(pl)
	}
	for _, pl := range players {
		require.NoError(t, p.Remove(pl))
	}
	assert.Equal(t, 0, p.Len())
}

func TestBulkInsertOrderIndependence(t *testing.T) {
	clk := clock.NewFake()
	players := newPlayers(30, clk)

	orderA := New()
	for _, pl := range players {
		orderA.Add(pl)
	}

	shuffled := append([]*player.Player(nil), players...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	orderB := New()
	for _, pl := range shuffled {
		orderB.Add(pl)
	}

	assert.Equal(t, orderA.All(), orderB.All())
}
