package search

import "goshawk/board"

// Move ordering scores. The hash move goes first, then captures by
// MVV-LVA, then the killers, then everything else.
const (
	scoreHashMove = 1 << 20
	scoreCapture  = 1 << 16
	scoreKiller1  = 1<<16 - 1
	scoreKiller2  = 1<<16 - 2
)

// mvvLva[victim][attacker]: prefer valuable victims, cheap attackers.
var mvvLva [7][7]int

func init() {
	victimWeight := [7]int{0, 100, 200, 300, 400, 500, 600}
	for victim := board.Pawn; victim <= board.King; victim++ {
		for attacker := board.Pawn; attacker <= board.King; attacker++ {
			mvvLva[victim][attacker] = victimWeight[victim] + int(board.King) - int(attacker)
		}
	}
}

// killerTable holds two quiet refutation moves per ply.
type killerTable [maxPly][2]board.Move

func (k *killerTable) insert(ply int, m board.Move) {
	if m.IsCapture() || k[ply][0] == m {
		return
	}
	k[ply][1] = k[ply][0]
	k[ply][0] = m
}

func (k *killerTable) clear() {
	*k = killerTable{}
}

// scoreMoves assigns an ordering score to each generated move.
func scoreMoves(ml *board.MoveList, scores *[board.MaxMoves]int, hashMove board.Move, killers *killerTable, ply int) {
	for i := 0; i < ml.Count; i++ {
		m := ml.Moves[i]
		switch {
		case m == hashMove:
			scores[i] = scoreHashMove
		case m.IsCapture():
			scores[i] = scoreCapture + mvvLva[m.Captured()][m.Piece()]
		case m == killers[ply][0]:
			scores[i] = scoreKiller1
		case m == killers[ply][1]:
			scores[i] = scoreKiller2
		default:
			scores[i] = 0
		}
	}
}

// pickMove selection-sorts the highest scored remaining move into position
// idx and returns it. Sorting lazily wins when a cutoff ends the loop
// early.
func pickMove(ml *board.MoveList, scores *[board.MaxMoves]int, idx int) board.Move {
	best := idx
	for i := idx + 1; i < ml.Count; i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	ml.Moves[idx], ml.Moves[best] = ml.Moves[best], ml.Moves[idx]
	scores[idx], scores[best] = scores[best], scores[idx]
	return ml.Moves[idx]
}
