// Package scoring implements the matchmaking core's scalar scoring
// functions: team p-skill, p-fairness, mean skill, q-uniformity, imbalance,
// and time-sensitive priority.
package scoring

import "math"

// TeamPSkill returns the p-norm skill of a team: max(skill) when pNorm is
// +Inf, otherwise (Σ skill^p)^(1/p).
func TeamPSkill(skills []int, pNorm float64) float64 {
	if math.IsInf(pNorm, 1) {
		max := skills[0]
		for _, s := range skills[1:] {
			if s > max {
				max = s
			}
		}
		return float64(max)
	}

	sum := 0.0
	for _, s := range skills {
		sum += math.Pow(float64(s), pNorm)
	}
	return math.Pow(sum, 1/pNorm)
}

// PFairness returns the absolute difference between two teams' p-skills.
func PFairness(teamX, teamY []int, pNorm float64) float64 {
	return math.Abs(TeamPSkill(teamX, pNorm) - TeamPSkill(teamY, pNorm))
}

// MeanSkill returns the arithmetic mean skill across a set of players.
func MeanSkill(skills []int) float64 {
	sum := 0
	for _, s := range skills {
		sum += s
	}
	return float64(sum) / float64(len(skills))
}

// QUniformity returns the q-norm spread of skills around their mean: the
// farthest single deviation when qNorm is +Inf, otherwise the q-th power
// mean of absolute deviations.
func QUniformity(skills []int, qNorm float64) float64 {
	mean := MeanSkill(skills)

	if math.IsInf(qNorm, 1) {
		max := 0.0
		for _, s := range skills {
			if d := math.Abs(float64(s) - mean); d > max {
				max = d
			}
		}
		return max
	}

	sum := 0.0
	for _, s := range skills {
		sum += math.Pow(math.Abs(float64(s)-mean), qNorm)
	}
	return math.Pow(sum/float64(len(skills)), 1/qNorm)
}

// Imbalance computes f(X,Y) = α·d_p(X,Y) + v_q(X∪Y).
func Imbalance(teamXSkills, teamYSkills []int, pNorm, qNorm, fairnessWeight float64) float64 {
	all := make([]int, 0, len(teamXSkills)+len(teamYSkills))
	all = append(all, teamXSkills...)
	all = append(all, teamYSkills...)
	return fairnessWeight*PFairness(teamXSkills, teamYSkills, pNorm) + QUniformity(all, qNorm)
}

// Priority computes g(X,Y) = f(X,Y) + β·min(enqueue_time) across both teams.
// A lower value is more urgent: an older player drags the minimum down.
func Priority(imbalance, queueWeight float64, enqueueTimes []float64) float64 {
	min := enqueueTimes[0]
	for _, t := range enqueueTimes[1:] {
		if t < min {
			min = t
		}
	}
	return imbalance + queueWeight*min
}
