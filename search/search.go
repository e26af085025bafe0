// Package search implements anchor search: given a newly-ranked player,
// look at the skill window directly above it in the pool and find the best
// candidate game that includes it.
package search

import (
	"time"

	"go.uber.org/zap"

	"github.com/LukeAtkinz/matchcore/game"
	"github.com/LukeAtkinz/matchcore/partition"
	"github.com/LukeAtkinz/matchcore/player"
	"github.com/LukeAtkinz/matchcore/pool"
)

// DefaultTimeout is the soft wall-clock budget for a single anchor search.
const DefaultTimeout = 5 * time.Second

// Searcher finds the best candidate game anchored at a given player.
type Searcher struct {
	teamSize    int
	skillWindow int
	solver      *partition.Solver
	timeout     time.Duration
	log         *zap.Logger
}

// New builds a Searcher. log may be nil.
func New(teamSize, skillWindow int, solver *partition.Solver, timeout time.Duration, log *zap.Logger) *Searcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Searcher{
		teamSize:    teamSize,
		skillWindow: skillWindow,
		solver:      solver,
		timeout:     timeout,
		log:         log,
	}
}

// Result is the outcome of a single anchor search.
type Result struct {
	Game *game.CandidateGame
	// Enumerated is the total number of partitions evaluated across every
	// windowed subset tried.
	Enumerated int
	// TimedOut reports whether the soft wall-clock budget cut the search
	// short before every windowed subset was tried.
	TimedOut bool
	// Window is the [start, end) rank range that was visible to the search,
	// for observer snapshots.
	Window [2]int
}

// Find looks at the players ranked directly above anchor in p, within the
// configured skill window, and returns the best game it can build with
// anchor as the low player. A nil Result.Game means no game was built: the
// window held fewer than 2*teamSize-1 visible players, or the time budget
// ran out before the first subset was tried.
func (s *Searcher) Find(anchor *player.Player, p *pool.Pool) (Result, error) {
	rank, err := p.Rank(anchor)
	if err != nil {
		return Result{}, err
	}

	windowStart := rank + 1
	windowEnd := min(p.Len(), windowStart+s.skillWindow)
	visible, err := p.Slice(windowStart, windowEnd)
	if err != nil {
		return Result{}, err
	}

	result := Result{Window: [2]int{windowStart, windowEnd}}

	required := 2*s.teamSize - 1
	if len(visible) < required {
		return result, nil
	}

	start := time.Now()
	var best *game.CandidateGame
	minVal := 0.0
	hasBest := false

	combinations(len(visible), required, func(idx []int) bool {
		if time.Since(start) > s.timeout {
			result.TimedOut = true
			if s.log != nil {
				s.log.Warn("anchor search timed out", zap.Int("anchor_player_id", anchor.ID))
			}
			return false
		}
		if hasBest && minVal == 0 {
			return false
		}

		subset := make([]*player.Player, required)
		for i, vi := range idx {
			subset[i] = visible[vi]
		}

		g, val, enumerated := s.solver.Solve(anchor, subset)
		result.Enumerated += enumerated

		if !hasBest || val < minVal {
			hasBest = true
			minVal = val
			best = g
		}
		return true
	})

	result.Game = best
	return result, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// combinations calls visit with the index-combination of size r chosen
// from [0, n), in lexicographic order, stopping early if visit returns
// false.
func combinations(n, r int, visit func([]int) bool) {
	if r > n {
		return
	}

	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}

	for {
		if !visit(indices) {
			return
		}

		i := r - 1
		for i >= 0 && indices[i] == i+n-r {
			i--
		}
		if i < 0 {
			return
		}
		indices[i]++
		for j := i + 1; j < r; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}
