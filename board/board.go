package board

import "math/bits"

// Side identifies one of the two players.
type Side uint8

const (
	White Side = 0
	Black Side = 1
)

// Opposite returns the other side.
func (s Side) Opposite() Side { return 1 - s }

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Piece is a colorless piece type. The owning side is tracked separately,
// so tables indexed by piece stay small.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Square is a board square in little-endian rank-file order (a1=0, h8=63).
type Square int8

const NoSquare Square = -1

// File and Rank are 0-based coordinates of a square.
func (sq Square) File() int { return int(sq) & 7 }
func (sq Square) Rank() int { return int(sq) >> 3 }

// String returns the algebraic coordinate, e.g. "e4".
func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// CastleRights is the KQkq bitmask of castling permissions.
type CastleRights uint8

const (
	CastleWhiteKing CastleRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// castleRightsMask[sq] holds the rights that survive a move touching sq.
// Moving or capturing on a king/rook home square clears the matching bits.
var castleRightsMask [64]CastleRights

func init() {
	for sq := range castleRightsMask {
		castleRightsMask[sq] = CastleWhiteKing | CastleWhiteQueen | CastleBlackKing | CastleBlackQueen
	}
	castleRightsMask[0] &^= CastleWhiteQueen  // a1
	castleRightsMask[4] &^= CastleWhiteKing | CastleWhiteQueen
	castleRightsMask[7] &^= CastleWhiteKing   // h1
	castleRightsMask[56] &^= CastleBlackQueen // a8
	castleRightsMask[60] &^= CastleBlackKing | CastleBlackQueen
	castleRightsMask[63] &^= CastleBlackKing  // h8
}

// MaxGameLength bounds the undo history in half-moves. The history is a
// fixed array sized at construction; exceeding it is a programming error,
// not a runtime condition, and panics.
const MaxGameLength = 1024

// Undo holds everything needed to reverse exactly one applied move.
type Undo struct {
	move     Move
	captured Piece
	castle   CastleRights
	ep       Square
	halfmove int
	fullmove int
	hash     uint64
}

// Position is the mutable game state: bitboards per side and piece type, a
// mailbox for square lookups, the irreversible fields, an incrementally
// maintained Zobrist hash, and the bounded undo history.
//
// The incremental hash always equals RecomputeHash(); every mutation updates
// it exactly once, reversibly.
type Position struct {
	pieces  [2][7]uint64 // [side][piece], index 0 unused
	occ     [2]uint64
	mailbox [64]Piece

	stm      Side
	castle   CastleRights
	ep       Square
	halfmove int
	fullmove int
	hash     uint64

	history    [MaxGameLength]Undo
	historyLen int
}

// Accessors. Read-only; the coordinator inspects positions through these
// while holding the shared lock.

func (p *Position) SideToMove() Side          { return p.stm }
func (p *Position) Hash() uint64              { return p.hash }
func (p *Position) CastleRights() CastleRights { return p.castle }
func (p *Position) EnPassant() Square         { return p.ep }
func (p *Position) HalfmoveClock() int        { return p.halfmove }
func (p *Position) FullmoveNumber() int       { return p.fullmove }
func (p *Position) Ply() int                  { return p.historyLen }

// PieceOn returns the piece on sq and its owner. NoPiece pairs with White.
func (p *Position) PieceOn(sq Square) (Piece, Side) {
	pc := p.mailbox[sq]
	if pc != NoPiece && p.occ[Black]>>uint(sq)&1 == 1 {
		return pc, Black
	}
	return pc, White
}

// Bitboard returns the bitboard for one side's piece type.
func (p *Position) Bitboard(s Side, pc Piece) uint64 { return p.pieces[s][pc] }

// Occupancy returns the occupancy bitboard of one side.
func (p *Position) Occupancy(s Side) uint64 { return p.occ[s] }

// AllOccupancy returns the union of both sides' occupancy.
func (p *Position) AllOccupancy() uint64 { return p.occ[White] | p.occ[Black] }

// KingSquare returns the square of s's king.
func (p *Position) KingSquare(s Side) Square {
	return Square(bits.TrailingZeros64(p.pieces[s][King]))
}

// put places a piece and folds it into the incremental hash.
func (p *Position) put(s Side, pc Piece, sq Square) {
	b := uint64(1) << uint(sq)
	p.pieces[s][pc] |= b
	p.occ[s] |= b
	p.mailbox[sq] = pc
	p.hash ^= zPiece[s][pc][sq]
}

// lift removes a piece and folds it out of the incremental hash.
func (p *Position) lift(s Side, pc Piece, sq Square) {
	b := uint64(1) << uint(sq)
	p.pieces[s][pc] &^= b
	p.occ[s] &^= b
	p.mailbox[sq] = NoPiece
	p.hash ^= zPiece[s][pc][sq]
}

// Make applies m to the position: board placement, castling rights,
// en-passant target, the half/fullmove clocks and the incremental hash are
// all updated, and the pre-move irreversible state is pushed onto the undo
// history. It reports whether the resulting position is legal for the side
// that moved (its king is not left attacked). On false the move is still
// applied; the caller must Unmake immediately.
func (p *Position) Make(m Move) bool {
	if p.historyLen >= MaxGameLength {
		panic("board: undo history overflow")
	}
	u := &p.history[p.historyLen]
	p.historyLen++
	u.move = m
	u.captured = m.Captured()
	u.castle = p.castle
	u.ep = p.ep
	u.halfmove = p.halfmove
	u.fullmove = p.fullmove
	u.hash = p.hash

	us := p.stm
	them := us.Opposite()
	from, to := m.From(), m.To()
	piece := m.Piece()
	captured := m.Captured()
	promo := m.Promotion()

	// The previous en-passant file leaves the hash whether or not the
	// square is used.
	if p.ep != NoSquare {
		p.hash ^= zEnPassant[p.ep.File()]
	}
	p.ep = NoSquare

	switch {
	case m.IsEnPassant():
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		p.lift(them, Pawn, capSq)
	case captured != NoPiece:
		p.lift(them, captured, to)
	}

	p.lift(us, piece, from)
	if promo != NoPiece {
		p.put(us, promo, to)
	} else {
		p.put(us, piece, to)
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookHop(to)
		p.lift(us, Rook, rookFrom)
		p.put(us, Rook, rookTo)
	}

	if next := p.castle & castleRightsMask[from] & castleRightsMask[to]; next != p.castle {
		p.hash ^= zCastle[p.castle]
		p.hash ^= zCastle[next]
		p.castle = next
	}

	// Double pawn push sets the en-passant target behind the pawn.
	if piece == Pawn && (to-from == 16 || from-to == 16) {
		p.ep = (from + to) / 2
		p.hash ^= zEnPassant[p.ep.File()]
	}

	if piece == Pawn || captured != NoPiece {
		p.halfmove = 0
	} else {
		p.halfmove++
	}
	if us == Black {
		p.fullmove++
	}

	p.stm = them
	p.hash ^= zSide

	return !p.InCheck(us)
}

// Unmake reverses the most recently applied move, restoring the board and
// every irreversible field, including the hash, to their pre-move values.
// Popping an empty history panics.
func (p *Position) Unmake() {
	if p.historyLen == 0 {
		panic("board: undo history underflow")
	}
	p.historyLen--
	u := &p.history[p.historyLen]

	m := u.move
	from, to := m.From(), m.To()
	piece := m.Piece()
	promo := m.Promotion()

	us := p.stm.Opposite() // the side that made the move
	them := p.stm
	p.stm = us

	if promo != NoPiece {
		p.lift(us, promo, to)
	} else {
		p.lift(us, piece, to)
	}
	p.put(us, piece, from)

	switch {
	case m.IsEnPassant():
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		p.put(them, Pawn, capSq)
	case u.captured != NoPiece:
		p.put(them, u.captured, to)
	}

	if m.IsCastle() {
		rookFrom, rookTo := castleRookHop(to)
		p.lift(us, Rook, rookTo)
		p.put(us, Rook, rookFrom)
	}

	p.castle = u.castle
	p.ep = u.ep
	p.halfmove = u.halfmove
	p.fullmove = u.fullmove
	// Exact restoration; the incremental updates above already cancel, the
	// assignment makes the bit-for-bit contract explicit.
	p.hash = u.hash
}

// MakeNull toggles the side to move as a reversible non-move. It clears the
// en-passant target and advances the clocks like a quiet half-move.
func (p *Position) MakeNull() {
	if p.historyLen >= MaxGameLength {
		panic("board: undo history overflow")
	}
	u := &p.history[p.historyLen]
	p.historyLen++
	u.move = NullMove
	u.captured = NoPiece
	u.castle = p.castle
	u.ep = p.ep
	u.halfmove = p.halfmove
	u.fullmove = p.fullmove
	u.hash = p.hash

	if p.ep != NoSquare {
		p.hash ^= zEnPassant[p.ep.File()]
	}
	p.ep = NoSquare
	p.halfmove++
	if p.stm == Black {
		p.fullmove++
	}
	p.stm = p.stm.Opposite()
	p.hash ^= zSide
}

// UnmakeNull reverses a MakeNull.
func (p *Position) UnmakeNull() {
	if p.historyLen == 0 {
		panic("board: undo history underflow")
	}
	p.historyLen--
	u := &p.history[p.historyLen]
	p.stm = p.stm.Opposite()
	p.ep = u.ep
	p.halfmove = u.halfmove
	p.fullmove = u.fullmove
	p.hash = u.hash
}

// castleRookHop maps a castling king destination to its rook's hop.
func castleRookHop(kingTo Square) (from, to Square) {
	switch kingTo {
	case 6: // g1
		return 7, 5
	case 2: // c1
		return 0, 3
	case 62: // g8
		return 63, 61
	case 58: // c8
		return 56, 59
	default:
		panic("board: bad castle destination")
	}
}

// Copy returns a deep copy sharing nothing with p. The undo history is not
// carried over; the copy starts with an empty stack.
func (p *Position) Copy() *Position {
	c := &Position{
		pieces:   p.pieces,
		occ:      p.occ,
		mailbox:  p.mailbox,
		stm:      p.stm,
		castle:   p.castle,
		ep:       p.ep,
		halfmove: p.halfmove,
		fullmove: p.fullmove,
		hash:     p.hash,
	}
	return c
}

// Repetitions reports how many times the current position has occurred,
// counting the present occurrence, by scanning the undo history's stored
// hashes. The Zobrist key already encodes side, castling and en-passant, so
// equal keys mean equal positions for repetition purposes.
func (p *Position) Repetitions() int {
	count := 1
	// Only positions since the last irreversible move are candidates, and
	// the halfmove clock counts exactly those plies.
	n := p.halfmove
	for i := p.historyLen - 1; i >= 0 && n > 0; i, n = i-1, n-1 {
		if p.history[i].hash == p.hash {
			count++
		}
	}
	return count
}

// FiftyMoveDraw reports whether the halfmove clock has reached the 50-move
// rule limit.
func (p *Position) FiftyMoveDraw() bool { return p.halfmove >= 100 }
