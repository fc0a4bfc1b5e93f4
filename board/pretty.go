package board

import (
	"strings"

	"github.com/fatih/color"
)

var (
	prettyWhite = color.New(color.FgHiWhite, color.Bold)
	prettyBlack = color.New(color.FgHiBlue, color.Bold)
	prettyFrame = color.New(color.FgHiBlack)
)

// Pretty renders the position as a human-readable diagram with rank and
// file labels, white pieces bright and black pieces blue. Used by the
// console "d" command.
func (p *Position) Pretty() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		prettyFrame.Fprintf(&sb, "%d ", r+1)
		for f := 0; f < 8; f++ {
			pc, side := p.PieceOn(Square(r*8 + f))
			switch {
			case pc == NoPiece:
				prettyFrame.Fprint(&sb, ". ")
			case side == White:
				prettyWhite.Fprintf(&sb, "%c ", pieceChars[White][pc])
			default:
				prettyBlack.Fprintf(&sb, "%c ", pieceChars[Black][pc])
			}
		}
		sb.WriteByte('\n')
	}
	prettyFrame.Fprint(&sb, "  a b c d e f g h\n")
	sb.WriteString("fen: " + p.FEN() + "\n")
	return sb.String()
}
