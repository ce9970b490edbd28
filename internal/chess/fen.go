package chess

import (
	"fmt"
	"strings"

	notnil "github.com/notnil/chess"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// DecodeFEN reads the placement, side to move and castling fields of fen.
// En passant targets and move clocks are accepted but not used.
func DecodeFEN(fen string) (*Board, Side, error) {
	var pos notnil.Position
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return nil, Light, fmt.Errorf("invalid FEN: %w", err)
	}

	b := NewBoard()
	for sq, p := range pos.Board().SquareMap() {
		b.Set(fromNotnilSquare(sq), fromNotnilPiece(p))
	}

	rights := pos.CastleRights()
	lk := rights.CanCastle(notnil.White, notnil.KingSide)
	lq := rights.CanCastle(notnil.White, notnil.QueenSide)
	dk := rights.CanCastle(notnil.Black, notnil.KingSide)
	dq := rights.CanCastle(notnil.Black, notnil.QueenSide)
	b.Castling = CastlingRights{
		LightKingMoved:          !lk && !lq,
		DarkKingMoved:           !dk && !dq,
		LightKingsideRookMoved:  !lk,
		LightQueensideRookMoved: !lq,
		DarkKingsideRookMoved:   !dk,
		DarkQueensideRookMoved:  !dq,
	}

	side := Light
	if pos.Turn() == notnil.Black {
		side = Dark
	}
	return b, side, nil
}

// EncodeFEN writes b as FEN with turn to move. There is no en passant field
// and the halfmove clock is always 0.
func EncodeFEN(b *Board, turn Side, fullmove int) string {
	m := make(map[notnil.Square]notnil.Piece)
	for i, p := range b.cells {
		if p.IsEmpty() {
			continue
		}
		m[toNotnilSquare(squareAt(i))] = toNotnilPiece(p)
	}
	placement := notnil.NewBoard(m).String()

	active := "w"
	if turn == Dark {
		active = "b"
	}
	if fullmove < 1 {
		fullmove = 1
	}
	return fmt.Sprintf("%s %s %s - 0 %d", placement, active, castlingField(b), fullmove)
}

func castlingField(b *Board) string {
	var sb strings.Builder
	for _, side := range []Side{Light, Dark} {
		home := kingHome(side)
		if b.Castling.KingMoved(side) || b.Get(home) != (Piece{Kind: King, Side: side}) {
			continue
		}
		for _, col := range []int{7, 0} {
			rookSq := Square{Row: home.Row, Col: col}
			if b.Castling.RookMoved(rookSq) || b.Get(rookSq) != (Piece{Kind: Rook, Side: side}) {
				continue
			}
			letter := "k"
			if col == 0 {
				letter = "q"
			}
			if side == Light {
				letter = strings.ToUpper(letter)
			}
			sb.WriteString(letter)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func fromNotnilSquare(sq notnil.Square) Square {
	return Square{Row: 7 - int(sq)/8, Col: int(sq) % 8}
}

func toNotnilSquare(sq Square) notnil.Square {
	return notnil.Square((7-sq.Row)*8 + sq.Col)
}

func fromNotnilPiece(p notnil.Piece) Piece {
	var kind PieceKind
	switch p.Type() {
	case notnil.Pawn:
		kind = Pawn
	case notnil.Knight:
		kind = Knight
	case notnil.Bishop:
		kind = Bishop
	case notnil.Rook:
		kind = Rook
	case notnil.Queen:
		kind = Queen
	case notnil.King:
		kind = King
	default:
		return NoPiece
	}
	side := Light
	if p.Color() == notnil.Black {
		side = Dark
	}
	return Piece{Kind: kind, Side: side}
}

var notnilPieces = map[Piece]notnil.Piece{
	{Kind: King, Side: Light}:   notnil.WhiteKing,
	{Kind: Queen, Side: Light}:  notnil.WhiteQueen,
	{Kind: Rook, Side: Light}:   notnil.WhiteRook,
	{Kind: Bishop, Side: Light}: notnil.WhiteBishop,
	{Kind: Knight, Side: Light}: notnil.WhiteKnight,
	{Kind: Pawn, Side: Light}:   notnil.WhitePawn,
	{Kind: King, Side: Dark}:    notnil.BlackKing,
	{Kind: Queen, Side: Dark}:   notnil.BlackQueen,
	{Kind: Rook, Side: Dark}:    notnil.BlackRook,
	{Kind: Bishop, Side: Dark}:  notnil.BlackBishop,
	{Kind: Knight, Side: Dark}:  notnil.BlackKnight,
	{Kind: Pawn, Side: Dark}:    notnil.BlackPawn,
}

func toNotnilPiece(p Piece) notnil.Piece {
	if np, ok := notnilPieces[p]; ok {
		return np
	}
	return notnil.NoPiece
}
