package search

import (
	"time"

	"goshawk/board"
)

// Control messages travel from the coordinator to the search goroutine.
type controlKind uint8

const (
	ctrlStart controlKind = iota
	ctrlStop
	ctrlNewGame
	ctrlQuit
)

type control struct {
	kind   controlKind
	budget Budget
}

// Report is a message from the search goroutine to the coordinator. The
// concrete types below are the only implementations.
type Report interface {
	searchReport()
}

// SummaryReport is sent after each fully completed iteration of the
// deepening loop.
type SummaryReport struct {
	Depth    int
	Score    int
	Nodes    uint64
	Elapsed  time.Duration
	NPS      uint64
	Hashfull int
	PV       []board.Move
}

// CurrentMoveReport names the root move being searched once an iteration
// runs long enough for that to be interesting.
type CurrentMoveReport struct {
	Move   board.Move
	Number int
	Total  int
}

// StatsReport is a periodic node and speed update during long searches.
type StatsReport struct {
	Nodes    uint64
	NPS      uint64
	Elapsed  time.Duration
	Hashfull int
}

// FinishedReport closes a search: the best move from the last fully
// completed depth. Exactly one is sent per started search, whether the
// search ran its budget out or was stopped.
type FinishedReport struct {
	Best board.Move
}

func (SummaryReport) searchReport()     {}
func (CurrentMoveReport) searchReport() {}
func (StatsReport) searchReport()       {}
func (FinishedReport) searchReport()    {}
