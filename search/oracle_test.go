package search

import (
	"testing"
	"time"

	"goshawk/board"
	"goshawk/eval"
)

// oracleQuiescence is an exhaustive mirror of the quiescence search: same
// move selection, same stand pat rule, no pruning.
func oracleQuiescence(p *board.Position, ev eval.Evaluator, ply, qply int) int {
	standPat := ev.Evaluate(p)
	if ply >= maxPly-1 || qply >= maxQuiescenceDepth {
		return standPat
	}
	inCheck := p.InCheck(p.SideToMove())
	best := standPat
	if inCheck {
		best = MatedIn(ply)
	}

	var ml board.MoveList
	if inCheck {
		p.PseudoLegal(&ml)
	} else {
		p.Captures(&ml)
	}
	for _, m := range ml.Moves[:ml.Count] {
		if p.Make(m) {
			if sc := -oracleQuiescence(p, ev, ply+1, qply+1); sc > best {
				best = sc
			}
		}
		p.Unmake()
	}
	return best
}

// oracleSearch is plain negamax, no window and no cache, over the same
// tree the engine searches.
func oracleSearch(p *board.Position, ev eval.Evaluator, depth, ply int) int {
	if ply > 0 && (p.FiftyMoveDraw() || p.Repetitions() >= 3) {
		return 0
	}
	if depth <= 0 {
		return oracleQuiescence(p, ev, ply, 0)
	}

	var ml board.MoveList
	p.PseudoLegal(&ml)
	best := -Infinity
	played := 0
	for _, m := range ml.Moves[:ml.Count] {
		if p.Make(m) {
			played++
			if sc := -oracleSearch(p, ev, depth-1, ply+1); sc > best {
				best = sc
			}
		}
		p.Unmake()
	}
	if played == 0 {
		if p.InCheck(p.SideToMove()) {
			return MatedIn(ply)
		}
		return 0
	}
	return best
}

// TestSearchMatchesExhaustiveMinimax pins the pruned, cached, ordered
// search to the value an exhaustive minimax computes for the same tree,
// and requires the chosen move to be minimax optimal.
func TestSearchMatchesExhaustiveMinimax(t *testing.T) {
	const depth = 2
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 4",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
	}
	ev := eval.NewMaterial()
	for _, fen := range fens {
		s, _, reports := fixture(t, fen)
		s.Start(Budget{Depth: depth})
		best, summaries := collect(t, reports, 60*time.Second)

		oracle, err := board.FromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		want := oracleSearch(oracle, ev, depth, 0)

		final := summaries[len(summaries)-1]
		if final.Score != want {
			t.Errorf("%q: search score %d, minimax says %d", fen, final.Score, want)
		}

		// Collect every minimax-optimal root move; tie order between them
		// is the engine's own business.
		optimal := map[board.Move]bool{}
		for _, m := range oracle.LegalMoves() {
			oracle.Make(m)
			if sc := -oracleSearch(oracle, ev, depth-1, 1); sc == want {
				optimal[m] = true
			}
			oracle.Unmake()
		}
		if !optimal[best] {
			t.Errorf("%q: best move %s is not minimax optimal", fen, best)
		}
	}
}
