package search

import (
	"time"

	"goshawk/board"
	"goshawk/util"
)

// Budget bounds one search. Zero values mean unbounded for that dimension;
// an entirely zero Budget searches forever and must be stopped explicitly,
// same as Infinite.
type Budget struct {
	// Depth caps the deepening loop.
	Depth int
	// MoveTime fixes the thinking time exactly, no allocation.
	MoveTime time.Duration
	// Nodes caps the node count.
	Nodes uint64
	// Infinite ignores every other bound until a stop arrives.
	Infinite bool

	// Game clock state for allocated time.
	WhiteTime, BlackTime time.Duration
	WhiteInc, BlackInc   time.Duration
	MovesToGo            int
}

// Time allocation tuning.
const (
	// moveOverhead covers protocol and scheduling latency per move.
	moveOverhead = 30 * time.Millisecond
	// defaultMovesLeft spreads the clock when the opponent or GUI gives no
	// movestogo.
	defaultMovesLeft = 30
	// maxClockShare caps any single move at this share of the remaining
	// clock, so a long think cannot flag the game.
	maxClockShare = 0.7
)

// hasClock reports whether the budget carries game clock information.
func (b Budget) hasClock() bool {
	return b.WhiteTime > 0 || b.BlackTime > 0
}

// allocate converts the budget into a hard time limit for the side to
// move. Zero means no time limit.
func (b Budget) allocate(stm board.Side) time.Duration {
	if b.Infinite {
		return 0
	}
	if b.MoveTime > 0 {
		return b.MoveTime
	}
	if !b.hasClock() {
		return 0
	}

	remaining, inc := b.WhiteTime, b.WhiteInc
	if stm == board.Black {
		remaining, inc = b.BlackTime, b.BlackInc
	}
	movesLeft := b.MovesToGo
	if movesLeft <= 0 {
		movesLeft = defaultMovesLeft
	}

	alloc := remaining/time.Duration(movesLeft) + inc - moveOverhead
	alloc = util.Min(alloc, time.Duration(float64(remaining)*maxClockShare))
	return util.Max(alloc, time.Millisecond)
}
