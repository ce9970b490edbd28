package chess

// LegalMoves returns every (from, to) pair side may play on b, scanning all
// 64x64 combinations in row-major order. Only From, To and Kind are set on the
// returned moves.
func LegalMoves(b *Board, side Side) []Move {
	var moves []Move
	for i, p := range b.cells {
		if p.IsEmpty() || p.Side != side {
			continue
		}
		moves = appendMovesFrom(moves, b, squareAt(i))
	}
	return moves
}

// LegalMovesFrom lists the legal destinations of the piece on from, for move
// hints. It returns nil for an empty square.
func LegalMovesFrom(b *Board, from Square) []Move {
	if b.Get(from).IsEmpty() {
		return nil
	}
	return appendMovesFrom(nil, b, from)
}

func appendMovesFrom(moves []Move, b *Board, from Square) []Move {
	for j := 0; j < 64; j++ {
		to := squareAt(j)
		kind, err := Validate(b, from, to)
		if err != nil {
			continue
		}
		moves = append(moves, Move{From: from, To: to, Kind: kind})
	}
	return moves
}

// HasLegalMoves stops at the first legal move found.
func HasLegalMoves(b *Board, side Side) bool {
	for i, p := range b.cells {
		if p.IsEmpty() || p.Side != side {
			continue
		}
		from := squareAt(i)
		for j := 0; j < 64; j++ {
			if _, err := Validate(b, from, squareAt(j)); err == nil {
				return true
			}
		}
	}
	return false
}
