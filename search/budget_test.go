package search

import (
	"testing"
	"time"

	"goshawk/board"
)

func TestAllocateMoveTimePassesThrough(t *testing.T) {
	b := Budget{MoveTime: 750 * time.Millisecond}
	if got := b.allocate(board.White); got != 750*time.Millisecond {
		t.Errorf("allocate = %v", got)
	}
}

func TestAllocateInfiniteAndUnboundedAreUntimed(t *testing.T) {
	if got := (Budget{Infinite: true, MoveTime: time.Second}).allocate(board.White); got != 0 {
		t.Errorf("infinite budget allocated %v", got)
	}
	if got := (Budget{Depth: 9}).allocate(board.White); got != 0 {
		t.Errorf("depth-only budget allocated %v", got)
	}
}

func TestAllocateSplitsClock(t *testing.T) {
	b := Budget{
		WhiteTime: 60 * time.Second,
		BlackTime: 30 * time.Second,
		WhiteInc:  time.Second,
		MovesToGo: 20,
	}
	// 60s/20 + 1s - overhead.
	want := 3*time.Second + time.Second - moveOverhead
	if got := b.allocate(board.White); got != want {
		t.Errorf("white allocation = %v, want %v", got, want)
	}
	// Black shares the movestogo horizon but has no increment.
	wantBlack := 30*time.Second/20 - moveOverhead
	if got := b.allocate(board.Black); got != wantBlack {
		t.Errorf("black allocation = %v, want %v", got, wantBlack)
	}
}

func TestAllocateCapsAtClockShare(t *testing.T) {
	// Huge increment against a nearly empty clock must not flag.
	b := Budget{WhiteTime: time.Second, WhiteInc: 30 * time.Second, MovesToGo: 1}
	got := b.allocate(board.White)
	if limit := time.Duration(float64(time.Second) * maxClockShare); got > limit {
		t.Errorf("allocation %v exceeds %v", got, limit)
	}
	if got < time.Millisecond {
		t.Errorf("allocation %v under the floor", got)
	}
}

func TestAllocateNeverNegative(t *testing.T) {
	b := Budget{WhiteTime: 10 * time.Millisecond}
	if got := b.allocate(board.White); got < time.Millisecond {
		t.Errorf("allocation %v under the floor", got)
	}
}
