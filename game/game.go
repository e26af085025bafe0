// Package game implements the candidate game record: an anchor player, two
// disjoint teams, and the frozen scores computed at construction time.
package game

import (
	"github.com/LukeAtkinz/matchcore/player"
	"github.com/LukeAtkinz/matchcore/scoring"
)

// CandidateGame is a value-like record: once built, Imbalance and Priority
// never change.
type CandidateGame struct {
	Anchor *player.Player
	TeamX  []*player.Player
	TeamY  []*player.Player

	Imbalance float64

	// HasPriority is false for unrestricted (non-time-sensitive) games; when
	// true, Priority holds the time-weighted score.
	HasPriority bool
	Priority    float64
}

// New builds a CandidateGame, precomputing its imbalance and (if
// queueWeight is non-nil) its priority. anchor must be a member of teamX.
func New(anchor *player.Player, teamX, teamY []*player.Player, pNorm, qNorm, fairnessWeight float64, queueWeight *float64) *CandidateGame {
	xSkills := skillsOf(teamX)
	ySkills := skillsOf(teamY)

	g := &CandidateGame{
		Anchor: anchor,
		TeamX:  teamX,
		TeamY:  teamY,
	}
	g.Imbalance = scoring.Imbalance(xSkills, ySkills, pNorm, qNorm, fairnessWeight)

	if queueWeight != nil {
		g.HasPriority = true
		g.Priority = scoring.Priority(g.Imbalance, *queueWeight, enqueueTimesOf(teamX, teamY))
	}

	return g
}

func skillsOf(team []*player.Player) []int {
	skills := make([]int, len(team))
	for i, p := range team {
		skills[i] = p.Skill
	}
	return skills
}

func enqueueTimesOf(teamX, teamY []*player.Player) []float64 {
	times := make([]float64, 0, len(teamX)+len(teamY))
	for _, p := range teamX {
		times = append(times, p.EnqueueTime)
	}
	for _, p := range teamY {
		times = append(times, p.EnqueueTime)
	}
	return times
}

// Score returns Priority when this game has one, else Imbalance. Less
// compares by Imbalance instead when only one of the two games has a
// priority.
func (g *CandidateGame) Score() float64 {
	if g.HasPriority {
		return g.Priority
	}
	return g.Imbalance
}

// Less implements the candidate-game total order: priority ascending when
// both games carry one, else imbalance ascending.
func (g *CandidateGame) Less(other *CandidateGame) bool {
	if g.HasPriority && other.HasPriority {
		return g.Priority < other.Priority
	}
	return g.Imbalance < other.Imbalance
}

// Players returns the union of both teams.
func (g *CandidateGame) Players() []*player.Player {
	all := make([]*player.Player, 0, len(g.TeamX)+len(g.TeamY))
	all = append(all, g.TeamX...)
	all = append(all, g.TeamY...)
	return all
}

// Record is the flattened, serialization-friendly view used by observer
// snapshots and the finalized match list.
type Record struct {
	AnchorPlayerID int             `json:"anchor_player_id"`
	TeamX          []player.Record `json:"team_x"`
	TeamY          []player.Record `json:"team_y"`
	Imbalance      float64         `json:"imbalance"`
	Priority       *float64        `json:"priority,omitempty"`
}

// ToRecord converts the game to its Record form.
func (g *CandidateGame) ToRecord() Record {
	r := Record{
		AnchorPlayerID: g.Anchor.ID,
		TeamX:          recordsOf(g.TeamX),
		TeamY:          recordsOf(g.TeamY),
		Imbalance:      g.Imbalance,
	}
	if g.HasPriority {
		p := g.Priority
		r.Priority = &p
	}
	return r
}

func recordsOf(team []*player.Player) []player.Record {
	records := make([]player.Record, len(team))
	for i, p := range team {
		records[i] = p.ToRecord()
	}
	return records
}
