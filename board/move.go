package board

// Move packs a chess move into 32 bits:
//
//	bits 0-5   from square
//	bits 6-11  to square
//	bits 12-14 moved piece
//	bits 15-17 captured piece (NoPiece if none)
//	bits 18-20 promotion piece (NoPiece if none)
//	bits 21-22 flags
//
// Moves are opaque, copyable and comparable values. They are produced only
// by the move generator; the engine core orders and applies them.
type Move uint32

// NullMove is the zero Move and never a real move (a1->a1 moving nothing).
const NullMove Move = 0

const (
	moveToShift      = 6
	movePieceShift   = 12
	moveCaptureShift = 15
	movePromoShift   = 18
	moveFlagShift    = 21
)

// Move flags.
const (
	flagNone      = 0
	flagCastle    = 1
	flagEnPassant = 2
)

// NewMove assembles a regular or promoting move.
func NewMove(from, to Square, piece, captured, promo Piece) Move {
	return Move(uint32(from)&0x3F |
		uint32(to)&0x3F<<moveToShift |
		uint32(piece)&0x7<<movePieceShift |
		uint32(captured)&0x7<<moveCaptureShift |
		uint32(promo)&0x7<<movePromoShift)
}

// NewCastleMove assembles a castling king move.
func NewCastleMove(from, to Square) Move {
	return NewMove(from, to, King, NoPiece, NoPiece) | flagCastle<<moveFlagShift
}

// NewEnPassantMove assembles an en-passant capture.
func NewEnPassantMove(from, to Square) Move {
	return NewMove(from, to, Pawn, Pawn, NoPiece) | flagEnPassant<<moveFlagShift
}

func (m Move) From() Square      { return Square(m & 0x3F) }
func (m Move) To() Square        { return Square(m >> moveToShift & 0x3F) }
func (m Move) Piece() Piece      { return Piece(m >> movePieceShift & 0x7) }
func (m Move) Captured() Piece   { return Piece(m >> moveCaptureShift & 0x7) }
func (m Move) Promotion() Piece  { return Piece(m >> movePromoShift & 0x7) }
func (m Move) IsCastle() bool    { return m>>moveFlagShift&0x3 == flagCastle }
func (m Move) IsEnPassant() bool { return m>>moveFlagShift&0x3 == flagEnPassant }
func (m Move) IsCapture() bool   { return m.Captured() != NoPiece }

// String returns the long-algebraic wire form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	switch m.Promotion() {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}
