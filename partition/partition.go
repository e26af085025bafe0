// Package partition implements the partition solver: given an anchor and
// exactly 2k-1 other players, choose the best split into two teams of size
// k, anchor included in team X.
package partition

import (
	"sort"

	"github.com/LukeAtkinz/matchcore/game"
	"github.com/LukeAtkinz/matchcore/player"
	"github.com/LukeAtkinz/matchcore/scoring"
)

// Strategy selects the partition algorithm.
type Strategy int

const (
	// Exact enumerates every (2k-1 choose k-1) split and keeps the best.
	Exact Strategy = iota
	// Greedy produces one split by taking players in skill-descending order
	// and adding each to the team that keeps the p-skill difference smaller.
	Greedy
)

// Solver partitions an anchor plus 2k-1 teammates/opponents into the best
// (or, in Greedy mode, a good) candidate game.
type Solver struct {
	teamSize       int
	pNorm          float64
	qNorm          float64
	fairnessWeight float64
	queueWeight    *float64
	strategy       Strategy
}

// New builds a Solver. The strategy is fixed at construction and never
// changes thereafter.
func New(teamSize int, pNorm, qNorm, fairnessWeight float64, queueWeight *float64, strategy Strategy) *Solver {
	return &Solver{
		teamSize:       teamSize,
		pNorm:          pNorm,
		qNorm:          qNorm,
		fairnessWeight: fairnessWeight,
		queueWeight:    queueWeight,
		strategy:       strategy,
	}
}

// Solve returns the best candidate game it can build from anchor plus
// others (which must have exactly 2*teamSize-1 elements), that game's
// score (imbalance or priority, whichever the game is ordered by), and the
// number of partitions enumerated (always 1 for Greedy).
func (s *Solver) Solve(anchor *player.Player, others []*player.Player) (*game.CandidateGame, float64, int) {
	if s.strategy == Greedy {
		return s.greedy(anchor, others)
	}
	return s.exact(anchor, others)
}

// exact enumerates every way to pick the anchor's k-1 teammates from
// others, forming Y from the remainder. Cost O(C(2k-1, k-1) * k).
func (s *Solver) exact(anchor *player.Player, others []*player.Player) (*game.CandidateGame, float64, int) {
	var best *game.CandidateGame
	bestScore := float64(0)
	hasBest := false
	enumerated := 0

	teammateCount := s.teamSize - 1
	combinations(len(others), teammateCount, func(teammateIdx []int) bool {
		enumerated++

		teammates := make([]*player.Player, teammateCount)
		inTeamX := make(map[int]bool, teammateCount)
		for i, idx := range teammateIdx {
			teammates[i] = others[idx]
			inTeamX[idx] = true
		}

		teamX := append([]*player.Player{anchor}, teammates...)
		teamY := make([]*player.Player, 0, len(others)-teammateCount)
		for idx, p := range others {
			if !inTeamX[idx] {
				teamY = append(teamY, p)
			}
		}

		candidate := game.New(anchor, teamX, teamY, s.pNorm, s.qNorm, s.fairnessWeight, s.queueWeight)
		score := candidate.Score()

		if !hasBest || score < bestScore {
			hasBest = true
			bestScore = score
			best = candidate
		}

		// Early-terminate: a perfect game cannot be improved on.
		return bestScore != 0
	})

	return best, bestScore, enumerated
}

// greedy sorts the 2k players by skill descending and assigns each to
// whichever team has the smaller p-skill after hypothetical inclusion,
// routing overflow to whichever team still has room. Cost O(k log k).
func (s *Solver) greedy(anchor *player.Player, others []*player.Player) (*game.CandidateGame, float64, int) {
	all := append([]*player.Player{anchor}, others...)
	sorted := make([]*player.Player, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[j].Less(sorted[i]) })

	teamX := make([]*player.Player, 0, s.teamSize)
	teamY := make([]*player.Player, 0, s.teamSize)

	for _, p := range sorted {
		switch {
		case len(teamX) < s.teamSize && len(teamY) < s.teamSize:
			xSkills := append(skillsOf(teamX), p.Skill)
			if scoring.PFairness(xSkills, skillsOf(teamY), s.pNorm) <= scoring.PFairness(skillsOf(teamX), append(skillsOf(teamY), p.Skill), s.pNorm) {
				teamX = append(teamX, p)
			} else {
				teamY = append(teamY, p)
			}
		case len(teamX) < s.teamSize:
			teamX = append(teamX, p)
		default:
			teamY = append(teamY, p)
		}
	}

	// Keep the anchor in team X; swapping whole teams leaves the score unchanged.
	for _, p := range teamY {
		if p.Equal(anchor) {
			teamX, teamY = teamY, teamX
			break
		}
	}

	candidate := game.New(anchor, teamX, teamY, s.pNorm, s.qNorm, s.fairnessWeight, s.queueWeight)
	return candidate, candidate.Score(), 1
}

func skillsOf(team []*player.Player) []int {
	skills := make([]int, len(team))
	for i, p := range team {
		skills[i] = p.Skill
	}
	return skills
}

// combinations calls visit with the index-combination of size r chosen
// from [0, n), in lexicographic order, stopping early if visit returns
// false.
func combinations(n, r int, visit func([]int) bool) {
	if r == 0 {
		visit(nil)
		return
	}
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
