package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeAtkinz/matchcore/clock"
	"github.com/LukeAtkinz/matchcore/player"
)

func makePlayers(skills []int, clk clock.Clock) []*player.Player {
	players := make([]*player.Player, len(skills))
	for i, s := range skills {
		players[i] = player.New(i, s, clk)
	}
	return players
}

func TestExactReturnsScoreOfBestGame(t *testing.T) {
	clk := clock.NewFake()
	// team size 2: anchor plus 3 others, p=q=2, alpha=1.
	players := makePlayers([]int{1000, 1000, 1000, 1010}, clk)
	anchor := players[0]
	others := players[1:]

	s := New(2, 2, 2, 1, nil, Exact)
	g, score, enumerated := s.Solve(anchor, others)

	require.NotNil(t, g)
	assert.Greater(t, enumerated, 0)
	assert.InDelta(t, score, g.Imbalance, 1e-9)
}

func TestExactStopsEarlyOnPerfectGame(t *testing.T) {
	clk := clock.NewFake()
	players := makePlayers([]int{1000, 1000, 1000, 1000}, clk)
	anchor := players[0]
	others := players[1:]

	s := New(2, 2, 2, 1, nil, Exact)
	_, score, enumerated := s.Solve(anchor, others)

	assert.Equal(t, 0.0, score)
	assert.Less(t, enumerated, 3) // should not enumerate all 3 combinations
}

func TestExactNeverBeatenByGreedy(t *testing.T) {
	clk := clock.NewFake()
	skills := []int{980, 1205, 990, 1100, 1300, 950, 1020, 1075}
	players := makePlayers(skills, clk)
	anchor := players[0]
	others := players[1:]

	exact := New(4, 2, 2, 1, nil, Exact)
	greedy := New(4, 2, 2, 1, nil, Greedy)

	_, exactScore, _ := exact.Solve(anchor, others)
	_, greedyScore, greedyEnumerated := greedy.Solve(anchor, others)

	assert.LessOrEqual(t, exactScore, greedyScore+1e-9)
	assert.Equal(t, 1, greedyEnumerated)
}

func TestGreedyProducesBalancedTeamSizes(t *testing.T) {
	clk := clock.NewFake()
	players := makePlayers([]int{1000, 1100, 900, 1200, 800, 1050, 950, 1025}, clk)
	anchor := players[0]
	others := players[1:]

	s := New(4, 2, 2, 1, nil, Greedy)
	g, _, _ := s.Solve(anchor, others)

	assert.Len(t, g.TeamX, 4)
	assert.Len(t, g.TeamY, 4)
}

func TestCombinationsEnumeratesAllSubsets(t *testing.T) {
	var got [][]int
	combinations(5, 2, func(idx []int) bool {
		got = append(got, append([]int(nil), idx...))
		return true
	})
	assert.Len(t, got, 10) // C(5,2)
	assert.Equal(t, []int{0, 1}, got[0])
	assert.Equal(t, []int{3, 4}, got[len(got)-1])
}

func TestCombinationsWithZeroChoose(t *testing.T) {
	calls := 0
	combinations(5, 0, func(idx []int) bool {
		calls++
		assert.Empty(t, idx)
		return true
	})
	assert.Equal(t, 1, calls)
}
