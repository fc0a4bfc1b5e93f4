package board

import "math/bits"

// Zobrist keys. The tables are filled from a fixed-seed xorshift64* stream so
// hashes are stable across runs and builds, which keeps stored transposition
// data and test expectations valid.

var (
	zPiece     [2][7][64]uint64
	zCastle    [16]uint64
	zEnPassant [8]uint64
	zSide      uint64
)

const zobristSeed = 0x9E3779B97F4A7C15

type xorshiftState uint64

func (s *xorshiftState) next() uint64 {
	x := uint64(*s)
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	*s = xorshiftState(x)
	return x * 0x2545F4914F6CDD1D
}

func init() {
	rng := xorshiftState(zobristSeed)
	for side := 0; side < 2; side++ {
		for pc := Pawn; pc <= King; pc++ {
			for sq := 0; sq < 64; sq++ {
				zPiece[side][pc][sq] = rng.next()
			}
		}
	}
	for i := range zCastle {
		zCastle[i] = rng.next()
	}
	for i := range zEnPassant {
		zEnPassant[i] = rng.next()
	}
	zSide = rng.next()
}

// RecomputeHash derives the Zobrist hash from scratch. Make and Unmake keep
// the hash incrementally; this exists for FEN loading and for tests that
// verify the incremental updates.
func (p *Position) RecomputeHash() uint64 {
	var h uint64
	for side := 0; side < 2; side++ {
		for pc := Pawn; pc <= King; pc++ {
			for bb := p.pieces[side][pc]; bb != 0; bb &= bb - 1 {
				h ^= zPiece[side][pc][bits.TrailingZeros64(bb)]
			}
		}
	}
	h ^= zCastle[p.castle]
	if p.ep != NoSquare {
		h ^= zEnPassant[p.ep.File()]
	}
	if p.stm == Black {
		h ^= zSide
	}
	return h
}
