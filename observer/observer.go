// Package observer implements the matchmaking core's step-event interface:
// a hook that receives a snapshot after every queue or heap mutation, for
// diagnostics, testing, and metrics.
package observer

import (
	"github.com/LukeAtkinz/matchcore/game"
	"github.com/LukeAtkinz/matchcore/player"
)

// QueueAction tags what happened to the ordered pool during a step.
type QueueAction string

const (
	QueueIdle         QueueAction = "idle"
	QueueInsert       QueueAction = "insert"
	QueueRemove       QueueAction = "remove"
	QueueAnchor       QueueAction = "anchor"
	QueueGameFound    QueueAction = "game_found"
	QueueGameNotFound QueueAction = "game_not_found"
)

// HeapAction tags what happened to the candidate-game heap during a step.
type HeapAction string

const (
	HeapIdle   HeapAction = "idle"
	HeapInsert HeapAction = "insert"
	HeapRemove HeapAction = "remove"
	HeapCreate HeapAction = "create"
)

// Event is a point-in-time snapshot handed to every Observer after a
// manager operation. Fields outside the action being reported are left at
// their zero value.
type Event struct {
	Timestamp float64

	Pool  []player.Record
	Heap  []game.Record
	Match []game.Record

	QueueAction QueueAction
	HeapAction  HeapAction

	// TargetPlayerRank is the pool rank of the player this step concerns,
	// when applicable.
	TargetPlayerRank *int

	// Window is the [start, end) rank range an anchor search looked at.
	Window *[2]int

	// TeamXRanks and TeamYRanks are the pool ranks of the players placed in
	// each team of a just-found game.
	TeamXRanks []int
	TeamYRanks []int

	// TargetGameHeapIndex is the array index of the game a heap action
	// touched.
	TargetGameHeapIndex *int
}

// Observer receives a step Event. Implementations must not block; a slow
// observer stalls the manager operation that produced the event.
type Observer interface {
	RecordEvent(e Event)
}

// Func adapts a plain function to the Observer interface.
type Func func(e Event)

// RecordEvent implements Observer.
func (f Func) RecordEvent(e Event) { f(e) }

// Multi fans an event out to several observers in order.
type Multi []Observer

// RecordEvent implements Observer.
func (m Multi) RecordEvent(e Event) {
	for _, o := range m {
		o.RecordEvent(e)
	}
}
