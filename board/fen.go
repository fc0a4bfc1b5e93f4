package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by all FromFEN failures.
var ErrInvalidFEN = errors.New("invalid FEN")

var fenPieces = map[byte]struct {
	piece Piece
	side  Side
}{
	'P': {Pawn, White}, 'N': {Knight, White}, 'B': {Bishop, White},
	'R': {Rook, White}, 'Q': {Queen, White}, 'K': {King, White},
	'p': {Pawn, Black}, 'n': {Knight, Black}, 'b': {Bishop, Black},
	'r': {Rook, Black}, 'q': {Queen, Black}, 'k': {King, Black},
}

// FromFEN parses a FEN record into a fresh position. The halfmove and
// fullmove fields may be omitted and default to 0 and 1.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: %d fields, want at least 4", ErrInvalidFEN, len(fields))
	}

	p := &Position{ep: NoSquare, fullmove: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: %d ranks", ErrInvalidFEN, len(ranks))
	}
	for r, rank := range ranks {
		file := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc, ok := fenPieces[c]
			if !ok || file > 7 {
				return nil, fmt.Errorf("%w: bad rank %q", ErrInvalidFEN, rank)
			}
			p.put(pc.side, pc.piece, Square((7-r)*8+file))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: bad rank %q", ErrInvalidFEN, rank)
		}
	}

	switch fields[1] {
	case "w":
		p.stm = White
	case "b":
		p.stm = Black
	default:
		return nil, fmt.Errorf("%w: side %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castle |= CastleWhiteKing
			case 'Q':
				p.castle |= CastleWhiteQueen
			case 'k':
				p.castle |= CastleBlackKing
			case 'q':
				p.castle |= CastleBlackQueen
			default:
				return nil, fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant %q", ErrInvalidFEN, fields[3])
		}
		p.ep = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: halfmove %q", ErrInvalidFEN, fields[4])
		}
		p.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: fullmove %q", ErrInvalidFEN, fields[5])
		}
		p.fullmove = n
	}

	if p.pieces[White][King] == 0 || p.pieces[Black][King] == 0 {
		return nil, fmt.Errorf("%w: missing king", ErrInvalidFEN)
	}

	p.hash = p.RecomputeHash()
	return p, nil
}

// StartPosition returns the standard initial position.
func StartPosition() *Position {
	p, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseSquare parses an algebraic coordinate like "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}

var pieceChars = [2][7]byte{
	{0, 'P', 'N', 'B', 'R', 'Q', 'K'},
	{0, 'p', 'n', 'b', 'r', 'q', 'k'},
}

// FEN renders the position as a FEN record.
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			sq := Square(r*8 + f)
			pc, side := p.PieceOn(sq)
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pieceChars[side][pc])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.stm == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if p.castle == 0 {
		sb.WriteByte('-')
	} else {
		if p.castle&CastleWhiteKing != 0 {
			sb.WriteByte('K')
		}
		if p.castle&CastleWhiteQueen != 0 {
			sb.WriteByte('Q')
		}
		if p.castle&CastleBlackKing != 0 {
			sb.WriteByte('k')
		}
		if p.castle&CastleBlackQueen != 0 {
			sb.WriteByte('q')
		}
	}

	fmt.Fprintf(&sb, " %s %d %d", p.ep, p.halfmove, p.fullmove)
	return sb.String()
}
