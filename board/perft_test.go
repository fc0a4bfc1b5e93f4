package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

var perftCases = []struct {
	fen   string
	depth int
	nodes uint64
}{
	{StartFEN, 1, 20},
	{StartFEN, 2, 400},
	{StartFEN, 3, 8902},
	{StartFEN, 4, 197281},
	{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
	{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
	{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
	{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
	{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
	{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
	{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
	{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
	{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 3, 89890},
}

func TestPerftKnownValues(t *testing.T) {
	for _, tc := range perftCases {
		p, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", tc.fen, err)
		}
		if got := Perft(p, tc.depth); got != tc.nodes {
			t.Errorf("perft(%q, %d) = %d, want %d", tc.fen, tc.depth, got, tc.nodes)
		}
	}
}

// referencePerft walks dragontoothmg's legal move tree, giving a count from
// an independently written generator.
func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		undo()
	}
	return nodes
}

func TestPerftAgainstReferenceGenerator(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		p, err := FromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		ref := dragontoothmg.ParseFen(fen)
		for depth := 1; depth <= 3; depth++ {
			got := Perft(p, depth)
			want := referencePerft(&ref, depth)
			if got != want {
				t.Errorf("perft(%q, %d) = %d, reference says %d", fen, depth, got, want)
			}
		}
	}
}

func BenchmarkPerftStartDepth4(b *testing.B) {
	p := StartPosition()
	for i := 0; i < b.N; i++ {
		if got := Perft(p, 4); got != 197281 {
			b.Fatalf("perft = %d", got)
		}
	}
}

func BenchmarkPseudoLegal(b *testing.B) {
	p, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		b.Fatal(err)
	}
	var ml MoveList
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.PseudoLegal(&ml)
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	p := StartPosition()
	var sum uint64
	for _, n := range Divide(p, 3) {
		sum += n
	}
	if want := Perft(p, 3); sum != want {
		t.Errorf("divide sums to %d, want %d", sum, want)
	}
}
