package board

import "math/bits"

// Precomputed attack tables. Leaper attacks are plain lookups; slider
// attacks walk precomputed rays and truncate at the first blocker, which is
// plenty fast for a search that spends most of its time in evaluation and
// hashing.

var (
	knightAttackTable [64]uint64
	kingAttackTable   [64]uint64
	pawnAttackTable   [2][64]uint64 // attacks made BY a pawn of [side] on sq

	// Rays from each square, excluding the square itself. Indices 0 and 2
	// must point toward higher square numbers, 1 and 3 toward lower ones;
	// slideAttacks relies on that to pick the nearest blocker.
	// Rooks: 0 north, 1 south, 2 east, 3 west.
	// Bishops: 0 northeast, 1 southwest, 2 northwest, 3 southeast.
	rookRayTable   [64][4]uint64
	bishopRayTable [64][4]uint64
)

func init() {
	for sq := Square(0); sq < 64; sq++ {
		f, r := sq.File(), sq.Rank()

		for _, d := range [...][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
			if tf, tr := f+d[0], r+d[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				knightAttackTable[sq] |= 1 << uint(tr*8+tf)
			}
		}
		for _, d := range [...][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}} {
			if tf, tr := f+d[0], r+d[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				kingAttackTable[sq] |= 1 << uint(tr*8+tf)
			}
		}
		for _, df := range [...]int{-1, 1} {
			if tf := f + df; tf >= 0 && tf < 8 {
				if r+1 < 8 {
					pawnAttackTable[White][sq] |= 1 << uint((r+1)*8+tf)
				}
				if r-1 >= 0 {
					pawnAttackTable[Black][sq] |= 1 << uint((r-1)*8+tf)
				}
			}
		}

		fillRay := func(df, dr int) uint64 {
			var ray uint64
			for tf, tr := f+df, r+dr; tf >= 0 && tf < 8 && tr >= 0 && tr < 8; tf, tr = tf+df, tr+dr {
				ray |= 1 << uint(tr*8+tf)
			}
			return ray
		}
		rookRayTable[sq] = [4]uint64{fillRay(0, 1), fillRay(0, -1), fillRay(1, 0), fillRay(-1, 0)}
		bishopRayTable[sq] = [4]uint64{fillRay(1, 1), fillRay(-1, -1), fillRay(-1, 1), fillRay(1, -1)}
	}
}

// slideAttacks truncates each of four rays at its first blocker. Rays 0 and
// 2 point toward higher square indices, 1 and 3 toward lower ones, so the
// nearest blocker is the lowest respectively highest set bit.
func slideAttacks(rays *[4]uint64, occ uint64) uint64 {
	attacks := rays[0] | rays[1] | rays[2] | rays[3]
	if b := rays[0] & occ; b != 0 {
		attacks &^= rayBeyondLow(rays[0], b)
	}
	if b := rays[2] & occ; b != 0 {
		attacks &^= rayBeyondLow(rays[2], b)
	}
	if b := rays[1] & occ; b != 0 {
		attacks &^= rayBeyondHigh(rays[1], b)
	}
	if b := rays[3] & occ; b != 0 {
		attacks &^= rayBeyondHigh(rays[3], b)
	}
	return attacks
}

// rayBeyondLow masks the part of an ascending ray past its first blocker.
func rayBeyondLow(ray, blockers uint64) uint64 {
	first := uint(bits.TrailingZeros64(blockers))
	return ray &^ (1<<(first+1) - 1)
}

// rayBeyondHigh masks the part of a descending ray past its first blocker.
func rayBeyondHigh(ray, blockers uint64) uint64 {
	first := uint(63 - bits.LeadingZeros64(blockers))
	return ray & (1<<first - 1)
}

// RookAttacks returns rook attacks from sq over the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	return slideAttacks(&rookRayTable[sq], occ)
}

// BishopAttacks returns bishop attacks from sq over the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return slideAttacks(&bishopRayTable[sq], occ)
}

// QueenAttacks returns queen attacks from sq over the given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) uint64 { return knightAttackTable[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) uint64 { return kingAttackTable[sq] }

// PawnAttacks returns the squares a pawn of s on sq attacks.
func PawnAttacks(s Side, sq Square) uint64 { return pawnAttackTable[s][sq] }

// IsSquareAttacked reports whether sq is attacked by any piece of by, given
// the full occupancy. Pawn attacks are probed in reverse: a pawn of by
// attacks sq exactly when a pawn of the other side standing on sq would
// attack the pawn's square.
func (p *Position) IsSquareAttacked(sq Square, by Side) bool {
	occ := p.AllOccupancy()
	if pawnAttackTable[by.Opposite()][sq]&p.pieces[by][Pawn] != 0 {
		return true
	}
	if knightAttackTable[sq]&p.pieces[by][Knight] != 0 {
		return true
	}
	if kingAttackTable[sq]&p.pieces[by][King] != 0 {
		return true
	}
	diag := BishopAttacks(sq, occ)
	if diag&(p.pieces[by][Bishop]|p.pieces[by][Queen]) != 0 {
		return true
	}
	line := RookAttacks(sq, occ)
	return line&(p.pieces[by][Rook]|p.pieces[by][Queen]) != 0
}

// InCheck reports whether s's king is attacked.
func (p *Position) InCheck(s Side) bool {
	return p.IsSquareAttacked(p.KingSquare(s), s.Opposite())
}
