package chess

// MoveKind describes an accepted move. It is a set of flags; a quiet move has
// none of them.
type MoveKind uint8

const (
	MoveCapture MoveKind = 1 << iota
	MovePawnDoubleStep
	MoveCastle
	MovePromotion
)

const MoveQuiet MoveKind = 0

func (k MoveKind) Has(flag MoveKind) bool { return k&flag != 0 }

func (k MoveKind) String() string {
	if k == MoveQuiet {
		return "quiet"
	}
	s := ""
	add := func(flag MoveKind, name string) {
		if k.Has(flag) {
			if s != "" {
				s += "+"
			}
			s += name
		}
	}
	add(MoveCapture, "capture")
	add(MovePawnDoubleStep, "double_step")
	add(MoveCastle, "castle")
	add(MovePromotion, "promotion")
	return s
}

// Validate decides whether the piece on from may move to to. It returns the
// kind of the move or a *MoveError. b is never modified.
func Validate(b *Board, from, to Square) (MoveKind, error) {
	if !from.Valid() || !to.Valid() {
		return 0, newMoveError(InvalidSquare, "square off the board: %v -> %v", from, to)
	}
	if from == to {
		return 0, newMoveError(SameSquare, "piece must move to a different square")
	}
	mover := b.Get(from)
	if mover.IsEmpty() {
		return 0, newMoveError(NoPieceAtSource, "no piece at %s", from)
	}
	target := b.Get(to)
	if !target.IsEmpty() && target.Side == mover.Side {
		return 0, newMoveError(OwnPieceCapture, "cannot capture your own piece")
	}

	sim := b.Clone()
	sim.move(from, to)
	if IsInCheck(sim, mover.Side) {
		return 0, newMoveError(MoveLeavesKingInCheck, "cannot move into check or leave king in check")
	}

	kind, err := validatePattern(b, mover, from, to)
	if err != nil {
		return 0, err
	}
	if !target.IsEmpty() {
		kind |= MoveCapture
	}
	if mover.Kind == Pawn && to.Row == promotionRow(mover.Side) {
		kind |= MovePromotion
	}
	return kind, nil
}

func promotionRow(side Side) int {
	if side == Light {
		return 0
	}
	return 7
}

func pawnStartRow(side Side) int {
	if side == Light {
		return 6
	}
	return 1
}

func validatePattern(b *Board, mover Piece, from, to Square) (MoveKind, error) {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	adr, adc := abs(dr), abs(dc)

	switch mover.Kind {
	case Pawn:
		return validatePawn(b, mover.Side, from, to)
	case Knight:
		if (adr == 2 && adc == 1) || (adr == 1 && adc == 2) {
			return MoveQuiet, nil
		}
		return 0, patternError(Knight, "knights move in an L-shape (2+1 or 1+2 squares)")
	case Bishop:
		if adr != adc {
			return 0, patternError(Bishop, "bishops can only move diagonally")
		}
	case Rook:
		if dr != 0 && dc != 0 {
			return 0, patternError(Rook, "rooks can only move horizontally or vertically")
		}
	case Queen:
		if !(dr == 0 || dc == 0 || adr == adc) {
			return 0, patternError(Queen, "queens move like rooks and bishops combined")
		}
	case King:
		if adr <= 1 && adc <= 1 {
			return MoveQuiet, nil
		}
		if dr == 0 && adc == 2 {
			if err := validateCastling(b, mover.Side, from, to); err != nil {
				return 0, err
			}
			return MoveCastle, nil
		}
		return 0, patternError(King, "kings move one square in any direction (or castle)")
	default:
		return 0, newMoveError(NoPieceAtSource, "unknown piece at %s", from)
	}

	if !pathClear(b, from, to) {
		return 0, newMoveError(PathBlocked, "path is blocked by another piece")
	}
	return MoveQuiet, nil
}

func validatePawn(b *Board, side Side, from, to Square) (MoveKind, error) {
	dir := pawnDirection(side)
	dr, dc := to.Row-from.Row, to.Col-from.Col
	target := b.Get(to)

	if dc == 0 && target.IsEmpty() {
		switch {
		case dr == dir:
			return MoveQuiet, nil
		case dr == 2*dir && from.Row == pawnStartRow(side):
			if !b.Get(Square{Row: from.Row + dir, Col: from.Col}).IsEmpty() {
				return 0, newMoveError(PathBlocked, "pawn cannot jump over pieces")
			}
			return MovePawnDoubleStep, nil
		}
		return 0, newMoveError(IllegalPawnMovement, "pawns move forward 1 square (or 2 from the starting rank)")
	}
	if abs(dc) == 1 && dr == dir && !target.IsEmpty() {
		return MoveQuiet, nil
	}
	return 0, newMoveError(IllegalPawnMovement, "pawns capture only diagonally forward")
}

// validateCastling checks a two-square king move against the castling
// preconditions, in the order they are reported.
func validateCastling(b *Board, side Side, from, to Square) error {
	home := kingHome(side)
	if from != home || b.Castling.KingMoved(side) {
		return castlingError(CastleKingMoved, "cannot castle after the king has moved")
	}
	if IsInCheck(b, side) {
		return castlingError(CastleInCheck, "cannot castle while in check")
	}

	rookHome := Square{Row: home.Row, Col: 7}
	if to.Col < from.Col {
		rookHome.Col = 0
	}
	rook := b.Get(rookHome)
	if rook.Kind != Rook || rook.Side != side || b.Castling.RookMoved(rookHome) {
		return castlingError(CastleRookMovedOrAbsent, "the rook must be present and unmoved to castle")
	}
	if !pathClear(b, from, rookHome) {
		return castlingError(CastleBlocked, "cannot castle with pieces between king and rook")
	}

	king := b.Get(from)
	path := append([]Square{from}, between(from, to)...)
	path = append(path, to)
	for _, sq := range path {
		sim := b.Clone()
		sim.Set(from, NoPiece)
		sim.Set(sq, king)
		if IsInCheck(sim, side) {
			return castlingError(CastleThroughCheck, "cannot castle through or into check")
		}
	}
	return nil
}
