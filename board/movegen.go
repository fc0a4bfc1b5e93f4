package board

import "math/bits"

// MaxMoves bounds the number of pseudo-legal moves in any reachable
// position; 218 is the known record, 256 leaves slack.
const MaxMoves = 256

// MoveList is a fixed-capacity move buffer that generation appends into,
// avoiding per-node allocation in the search.
type MoveList struct {
	Moves [MaxMoves]Move
	Count int
}

func (ml *MoveList) add(m Move) {
	ml.Moves[ml.Count] = m
	ml.Count++
}

// PseudoLegal generates all pseudo-legal moves for the side to move into ml.
// King safety is not checked here except for castling transit squares;
// callers establish legality by making the move and testing Make's report.
func (p *Position) PseudoLegal(ml *MoveList) {
	ml.Count = 0
	p.genPawnMoves(ml, false)
	p.genPieceMoves(ml, false)
	p.genCastles(ml)
}

// Captures generates pseudo-legal captures and queen promotions only, for
// the quiescence search.
func (p *Position) Captures(ml *MoveList) {
	ml.Count = 0
	p.genPawnMoves(ml, true)
	p.genPieceMoves(ml, true)
}

func (p *Position) genPawnMoves(ml *MoveList, capturesOnly bool) {
	us := p.stm
	them := us.Opposite()
	occ := p.AllOccupancy()

	var up Square = 8
	var startRank, promoRank int = 1, 7
	if us == Black {
		up = -8
		startRank, promoRank = 6, 0
	}

	addPawn := func(from, to Square, captured Piece) {
		if to.Rank() == promoRank {
			ml.add(NewMove(from, to, Pawn, captured, Queen))
			if !capturesOnly {
				ml.add(NewMove(from, to, Pawn, captured, Rook))
				ml.add(NewMove(from, to, Pawn, captured, Bishop))
				ml.add(NewMove(from, to, Pawn, captured, Knight))
			}
			return
		}
		ml.add(NewMove(from, to, Pawn, captured, NoPiece))
	}

	for bb := p.pieces[us][Pawn]; bb != 0; bb &= bb - 1 {
		from := Square(bits.TrailingZeros64(bb))

		to := from + up
		if !capturesOnly || to.Rank() == promoRank {
			if occ>>uint(to)&1 == 0 {
				addPawn(from, to, NoPiece)
				if !capturesOnly && from.Rank() == startRank {
					if dbl := to + up; occ>>uint(dbl)&1 == 0 {
						ml.add(NewMove(from, dbl, Pawn, NoPiece, NoPiece))
					}
				}
			}
		}

		for atk := pawnAttackTable[us][from] & p.occ[them]; atk != 0; atk &= atk - 1 {
			capSq := Square(bits.TrailingZeros64(atk))
			addPawn(from, capSq, p.mailbox[capSq])
		}
		if p.ep != NoSquare && pawnAttackTable[us][from]>>uint(p.ep)&1 == 1 {
			ml.add(NewEnPassantMove(from, p.ep))
		}
	}
}

func (p *Position) genPieceMoves(ml *MoveList, capturesOnly bool) {
	us := p.stm
	occ := p.AllOccupancy()
	targets := ^p.occ[us]
	if capturesOnly {
		targets = p.occ[us.Opposite()]
	}

	for pc := Knight; pc <= King; pc++ {
		for bb := p.pieces[us][pc]; bb != 0; bb &= bb - 1 {
			from := Square(bits.TrailingZeros64(bb))
			var atk uint64
			switch pc {
			case Knight:
				atk = knightAttackTable[from]
			case Bishop:
				atk = BishopAttacks(from, occ)
			case Rook:
				atk = RookAttacks(from, occ)
			case Queen:
				atk = QueenAttacks(from, occ)
			case King:
				atk = kingAttackTable[from]
			}
			for atk &= targets; atk != 0; atk &= atk - 1 {
				to := Square(bits.TrailingZeros64(atk))
				ml.add(NewMove(from, to, pc, p.mailbox[to], NoPiece))
			}
		}
	}
}

// genCastles emits castling moves whose path is empty, whose rook is in
// place and whose king does not start in, pass through or land on an
// attacked square.
func (p *Position) genCastles(ml *MoveList) {
	occ := p.AllOccupancy()
	them := p.stm.Opposite()

	type castle struct {
		right      CastleRights
		kingFrom   Square
		kingTo     Square
		rookFrom   Square
		emptyMask  uint64
		transitSqs [2]Square
	}
	var candidates [2]castle
	if p.stm == White {
		candidates = [2]castle{
			{CastleWhiteKing, 4, 6, 7, 1<<5 | 1<<6, [2]Square{4, 5}},
			{CastleWhiteQueen, 4, 2, 0, 1<<1 | 1<<2 | 1<<3, [2]Square{4, 3}},
		}
	} else {
		candidates = [2]castle{
			{CastleBlackKing, 60, 62, 63, 1<<61 | 1<<62, [2]Square{60, 61}},
			{CastleBlackQueen, 60, 58, 56, 1<<57 | 1<<58 | 1<<59, [2]Square{60, 59}},
		}
	}

	for _, c := range candidates {
		if p.castle&c.right == 0 || occ&c.emptyMask != 0 {
			continue
		}
		if p.pieces[p.stm][Rook]>>uint(c.rookFrom)&1 == 0 {
			continue
		}
		if p.IsSquareAttacked(c.transitSqs[0], them) ||
			p.IsSquareAttacked(c.transitSqs[1], them) ||
			p.IsSquareAttacked(c.kingTo, them) {
			continue
		}
		ml.add(NewCastleMove(c.kingFrom, c.kingTo))
	}
}

// LegalMoves returns the fully legal moves in the position. It is meant for
// protocol handling and tests; the search filters legality inline.
func (p *Position) LegalMoves() []Move {
	var ml MoveList
	p.PseudoLegal(&ml)
	legal := make([]Move, 0, ml.Count)
	for _, m := range ml.Moves[:ml.Count] {
		if p.Make(m) {
			legal = append(legal, m)
		}
		p.Unmake()
	}
	return legal
}

// FindMove resolves a long-algebraic move string like "e2e4" or "e7e8q"
// against the position's legal moves. It returns NullMove when no legal
// move matches.
func (p *Position) FindMove(uci string) Move {
	for _, m := range p.LegalMoves() {
		if m.String() == uci {
			return m
		}
	}
	return NullMove
}
