// Package player implements the matchmaking queue's player record: identity,
// skill, enqueue/dequeue timing, and the total order the rest of the core
// relies on.
package player

import "github.com/LukeAtkinz/matchcore/clock"

// Player is a participant waiting in (or having left) the matchmaking pool.
// Equality and hashing are by ID alone; ordering is (Skill, ID) ascending so
// ties break deterministically.
type Player struct {
	ID          int
	Skill       int
	EnqueueTime float64
	dequeueTime *float64

	clk clock.Clock
}

// New mints a player with the given id and skill, capturing the enqueue
// time from clk.
func New(id, skill int, clk clock.Clock) *Player {
	return &Player{
		ID:          id,
		Skill:       skill,
		EnqueueTime: clk.Now(),
		clk:         clk,
	}
}

// WaitTime returns DequeueTime - EnqueueTime if the player has exited,
// otherwise Now - EnqueueTime.
func (p *Player) WaitTime() float64 {
	if p.dequeueTime != nil {
		return *p.dequeueTime - p.EnqueueTime
	}
	return p.clk.Now() - p.EnqueueTime
}

// Dequeued reports whether MarkExited has been called.
func (p *Player) Dequeued() bool {
	return p.dequeueTime != nil
}

// DequeueTime returns the time the player exited, and whether it has
// happened yet.
func (p *Player) DequeueTime() (float64, bool) {
	if p.dequeueTime == nil {
		return 0, false
	}
	return *p.dequeueTime, true
}

// MarkExited records the current time as the player's departure from the
// pool. Calling it exactly once is the caller's responsibility; calling it
// twice silently overwrites the earlier time.
func (p *Player) MarkExited() {
	now := p.clk.Now()
	p.dequeueTime = &now
}

// Less implements the (Skill, ID) total order used by the pool and by
// tie-breaking within a candidate game.
func (p *Player) Less(other *Player) bool {
	if p.Skill != other.Skill {
		return p.Skill < other.Skill
	}
	return p.ID < other.ID
}

// Equal compares players by ID alone.
func (p *Player) Equal(other *Player) bool {
	if other == nil {
		return false
	}
	return p.ID == other.ID
}

// Record is the flattened, serialization-friendly view of a Player used by
// observer snapshots (C10).
type Record struct {
	ID          int     `json:"id"`
	Skill       int     `json:"skill"`
	EnqueueTime float64 `json:"enqueue_time"`
	WaitTime    float64 `json:"wait_time"`
}

// ToRecord converts the player to its Record form.
func (p *Player) ToRecord() Record {
	return Record{
		ID:          p.ID,
		Skill:       p.Skill,
		EnqueueTime: p.EnqueueTime,
		WaitTime:    p.WaitTime(),
	}
}
