/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import "math/rand/v2"

// MinPlayers is the smallest room in which a round can start.
const MinPlayers = 4

// Engine decides round transitions for a room. A room is Idle while
// Round is nil and Active otherwise; Start only fires from Idle and End
// only fires from Active.
type Engine struct {
	intn func(n int) int
}

// NewEngine returns an engine drawing from intn, which must return a value
// in [0, n). A nil intn uses math/rand/v2.
func NewEngine(intn func(n int) int) *Engine {
	if intn == nil {
		intn = rand.IntN
	}
	return &Engine{intn: intn}
}

// Start begins a round if the room is Idle, has at least MinPlayers
// members, and every member is ready. Ready and play-again flags are left
// as they are until the round ends.
func (e *Engine) Start(room *Room) bool {
	if room.Active() || room.Len() < MinPlayers {
		return false
	}
	for _, m := range room.members {
		if !m.Ready {
			return false
		}
	}

	pool := room.Words
	if len(pool) == 0 {
		pool = fallbackWords
	}

	ids := room.order
	room.Round = &Round{
		Word:       pool[e.intn(len(pool))],
		ImpostorID: ids[e.intn(len(ids))],
	}

	return true
}

// End closes an Active round once every current member has voted to play
// again, clearing every member's ready and play-again flags.
func (e *Engine) End(room *Room) bool {
	if !room.Active() || room.Len() == 0 {
		return false
	}
	for _, m := range room.members {
		if !m.PlayAgain {
			return false
		}
	}

	for _, m := range room.members {
		m.Ready = false
		m.PlayAgain = false
	}
	room.Round = nil

	return true
}
