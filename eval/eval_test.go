package eval

import (
	"strings"
	"testing"

	"goshawk/board"
)

// mirrorFEN flips a position vertically and swaps colors, producing the
// same game seen from the other side.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	flipped := make([]string, 8)
	for i, r := range ranks {
		var sb strings.Builder
		for j := 0; j < len(r); j++ {
			c := r[j]
			switch {
			case c >= 'a' && c <= 'z':
				sb.WriteByte(c - 'a' + 'A')
			case c >= 'A' && c <= 'Z':
				sb.WriteByte(c - 'A' + 'a')
			default:
				sb.WriteByte(c)
			}
		}
		flipped[7-i] = sb.String()
	}
	side := "w"
	if fields[1] == "w" {
		side = "b"
	}
	castle := fields[2]
	if castle != "-" {
		var sb strings.Builder
		for _, order := range []byte{'K', 'Q', 'k', 'q'} {
			swap := order - 'A' + 'a'
			if order >= 'a' {
				swap = order - 'a' + 'A'
			}
			if strings.IndexByte(castle, swap) >= 0 {
				sb.WriteByte(order)
			}
		}
		castle = sb.String()
	}
	return strings.Join(flipped, "/") + " " + side + " " + castle + " - 0 1"
}

func TestEvaluateSymmetry(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/3Q4/8/8/8/4K3 b - - 0 1",
	}
	ev := NewMaterial()
	for _, fen := range fens {
		p, err := board.FromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		m, err := board.FromFEN(mirrorFEN(t, fen))
		if err != nil {
			t.Fatalf("mirror of %q: %v", fen, err)
		}
		if got, want := ev.Evaluate(m), ev.Evaluate(p); got != want {
			t.Errorf("mirror of %q scores %d, original %d", fen, got, want)
		}
	}
}

func TestEvaluateStartPositionBalanced(t *testing.T) {
	p := board.StartPosition()
	ev := NewMaterial()
	if got := ev.Evaluate(p); got != 0 {
		t.Errorf("start position scores %d, want 0", got)
	}
}

func TestEvaluateMaterialEdge(t *testing.T) {
	// White up a queen.
	p, err := board.FromFEN("4k3/8/8/3Q4/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	ev := NewMaterial()
	if got := ev.Evaluate(p); got < 800 {
		t.Errorf("queen-up position scores %d for white", got)
	}
	// Same position with black to move is equally bad for black.
	p.MakeNull()
	if got := ev.Evaluate(p); got > -800 {
		t.Errorf("queen-up position scores %d for black", got)
	}
}
