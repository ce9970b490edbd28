package chess

// pawnDirection is the row delta of a forward pawn step.
func pawnDirection(side Side) int {
	if side == Light {
		return -1
	}
	return 1
}

// attacks reports whether the piece on from attacks to by movement pattern
// alone. It ignores the occupant of to, castling and the mover's own king.
func attacks(b *Board, from, to Square) bool {
	p := b.Get(from)
	if p.IsEmpty() || from == to {
		return false
	}
	dr, dc := to.Row-from.Row, to.Col-from.Col
	adr, adc := abs(dr), abs(dc)

	switch p.Kind {
	case Pawn:
		// Diagonal in the attacking direction whether or not to is occupied.
		return dr == pawnDirection(p.Side) && adc == 1
	case Knight:
		return (adr == 2 && adc == 1) || (adr == 1 && adc == 2)
	case Bishop:
		return adr == adc && pathClear(b, from, to)
	case Rook:
		return (dr == 0) != (dc == 0) && pathClear(b, from, to)
	case Queen:
		return (adr == adc || dr == 0 || dc == 0) && pathClear(b, from, to)
	case King:
		return adr <= 1 && adc <= 1
	}
	return false
}

func pathClear(b *Board, from, to Square) bool {
	for _, sq := range between(from, to) {
		if !b.Get(sq).IsEmpty() {
			return false
		}
	}
	return true
}

// IsSquareAttacked reports whether any piece of side by attacks sq.
func IsSquareAttacked(b *Board, sq Square, by Side) bool {
	if !sq.Valid() {
		return false
	}
	for i, p := range b.cells {
		if p.IsEmpty() || p.Side != by {
			continue
		}
		if attacks(b, squareAt(i), sq) {
			return true
		}
	}
	return false
}

// IsInCheck reports whether side's king is attacked. A side without a king is
// never in check.
func IsInCheck(b *Board, side Side) bool {
	king, ok := b.FindKing(side)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king, side.Opposite())
}
