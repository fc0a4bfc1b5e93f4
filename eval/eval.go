// Package eval scores positions. The engine depends only on the Evaluator
// interface, so the scoring model can be swapped without touching the
// search.
package eval

import (
	"math/bits"

	"goshawk/board"
)

// Evaluator scores a position in centipawns from the side to move's
// perspective. Implementations must be symmetric: mirroring the position
// and swapping colors negates nothing, it yields the same score for the
// other side.
type Evaluator interface {
	Evaluate(p *board.Position) int
}

// PieceValue holds the material value of each piece type in centipawns.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 0}

// Piece-square tables from white's perspective, a1 at index 0. Black reads
// them through the vertical mirror.
var pst = [7][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

// Material is a material-and-placement evaluator.
type Material struct{}

// NewMaterial returns the default evaluator.
func NewMaterial() Material { return Material{} }

// Evaluate sums piece values and placement bonuses for both sides and
// returns the difference from the side to move's view.
func (Material) Evaluate(p *board.Position) int {
	score := sideScore(p, board.White) - sideScore(p, board.Black)
	if p.SideToMove() == board.Black {
		return -score
	}
	return score
}

func sideScore(p *board.Position, s board.Side) int {
	var score int
	for pc := board.Pawn; pc <= board.King; pc++ {
		for bb := p.Bitboard(s, pc); bb != 0; bb &= bb - 1 {
			sq := bits.TrailingZeros64(bb)
			if s == board.Black {
				sq ^= 56 // mirror ranks
			}
			score += PieceValue[pc] + pst[pc][sq]
		}
	}
	return score
}
