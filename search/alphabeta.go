package search

import (
	"time"

	"goshawk/board"
	"goshawk/transposition"
)

// alphabeta is a fail-soft negamax search. The returned score may fall
// outside [alpha, beta]; callers treat out-of-window values as bounds.
// After an abort the return value is meaningless and nothing is committed
// to the table.
func (s *Search) alphabeta(depth, ply, alpha, beta int, pv *PVLine) int {
	s.visit()
	if s.aborted {
		return 0
	}
	pv.clear()

	pos := s.pos
	if ply > 0 {
		if pos.FiftyMoveDraw() || pos.Repetitions() >= 3 {
			return 0
		}
		if ply >= maxPly-1 {
			return s.ev.Evaluate(pos)
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta, 0)
	}

	// The hash move orders first even when the entry's draft is too
	// shallow for a cutoff. Cutoffs never apply at the root, which must
	// produce a move.
	hashMove := board.NullMove
	if e, ok := s.tt.Probe(pos.Hash()); ok {
		hashMove = e.Move()
		if ply > 0 && e.Depth() >= depth {
			score := e.Score(ply)
			switch e.Bound() {
			case transposition.BoundExact:
				return score
			case transposition.BoundLower:
				if score >= beta {
					return score
				}
			case transposition.BoundUpper:
				if score <= alpha {
					return score
				}
			}
		}
	}

	var ml board.MoveList
	var scores [board.MaxMoves]int
	pos.PseudoLegal(&ml)
	scoreMoves(&ml, &scores, hashMove, &s.killers, ply)

	reportRoot := ply == 0 && time.Since(s.started) >= currMoveAfter

	bestScore := -Infinity
	bestMove := board.NullMove
	bound := transposition.BoundUpper
	played := 0
	var childPV PVLine

	for i := 0; i < ml.Count; i++ {
		m := pickMove(&ml, &scores, i)
		if !pos.Make(m) {
			pos.Unmake()
			continue
		}
		played++
		if reportRoot {
			s.reports <- CurrentMoveReport{Move: m, Number: played, Total: ml.Count}
		}

		score := -s.alphabeta(depth-1, ply+1, -beta, -alpha, &childPV)
		pos.Unmake()
		if s.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				bestMove = m
				if score >= beta {
					s.killers.insert(ply, m)
					s.tt.Store(pos.Hash(), m, int(transposition.ScoreTo(score, ply)), depth, transposition.BoundLower)
					return score
				}
				alpha = score
				bound = transposition.BoundExact
				pv.update(m, &childPV)
			}
		}
	}

	if played == 0 {
		if pos.InCheck(pos.SideToMove()) {
			return MatedIn(ply)
		}
		return 0
	}

	s.tt.Store(pos.Hash(), bestMove, int(transposition.ScoreTo(bestScore, ply)), depth, bound)
	return bestScore
}

// quiescence settles tactical noise before the static evaluation is
// trusted: captures and queen promotions only, unless in check, where all
// evasions are searched. qply bounds the extension independently of the
// main ply counter.
func (s *Search) quiescence(ply, alpha, beta, qply int) int {
	s.visit()
	if s.aborted {
		return 0
	}

	pos := s.pos
	standPat := s.ev.Evaluate(pos)
	if ply >= maxPly-1 || qply >= maxQuiescenceDepth {
		return standPat
	}

	inCheck := pos.InCheck(pos.SideToMove())
	bestScore := standPat
	if inCheck {
		// Stand pat is not available while in check; evasion is forced.
		bestScore = MatedIn(ply)
	} else {
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var ml board.MoveList
	var scores [board.MaxMoves]int
	if inCheck {
		pos.PseudoLegal(&ml)
	} else {
		pos.Captures(&ml)
	}
	scoreMoves(&ml, &scores, board.NullMove, &s.killers, ply)

	played := 0
	for i := 0; i < ml.Count; i++ {
		m := pickMove(&ml, &scores, i)
		if !pos.Make(m) {
			pos.Unmake()
			continue
		}
		played++

		score := -s.quiescence(ply+1, -beta, -alpha, qply+1)
		pos.Unmake()
		if s.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				if score >= beta {
					return score
				}
				alpha = score
			}
		}
	}

	if inCheck && played == 0 {
		return MatedIn(ply)
	}
	return bestScore
}

// maxQuiescenceDepth caps the capture extension; deep exchange chains
// beyond this are settled by the static evaluation.
const maxQuiescenceDepth = 32
