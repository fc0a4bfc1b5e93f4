package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It exercises generation, make and unmake together and exists for
// correctness testing.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var ml MoveList
	p.PseudoLegal(&ml)
	var nodes uint64
	for _, m := range ml.Moves[:ml.Count] {
		if p.Make(m) {
			if depth == 1 {
				nodes++
			} else {
				nodes += Perft(p, depth-1)
			}
		}
		p.Unmake()
	}
	return nodes
}

// Divide returns the perft count below each legal root move, keyed by the
// move's long-algebraic form. Useful when chasing a generation bug.
func Divide(p *Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	var ml MoveList
	p.PseudoLegal(&ml)
	for _, m := range ml.Moves[:ml.Count] {
		if p.Make(m) {
			out[m.String()] = Perft(p, depth-1)
		}
		p.Unmake()
	}
	return out
}
