package search

import (
	"strings"

	"goshawk/board"
)

// PVLine collects the principal variation as the tree unwinds: each node
// prepends its best move to the child's line.
type PVLine struct {
	moves []board.Move
}

func (pv *PVLine) clear() {
	pv.moves = pv.moves[:0]
}

func (pv *PVLine) update(m board.Move, child *PVLine) {
	pv.moves = append(pv.moves[:0], m)
	pv.moves = append(pv.moves, child.moves...)
}

// Best returns the first move of the line, NullMove when empty.
func (pv *PVLine) Best() board.Move {
	if len(pv.moves) == 0 {
		return board.NullMove
	}
	return pv.moves[0]
}

// Moves returns the line in play order. The slice aliases internal state
// and is only valid until the next search step.
func (pv *PVLine) Moves() []board.Move { return pv.moves }

func (pv *PVLine) String() string {
	parts := make([]string, len(pv.moves))
	for i, m := range pv.moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
