package chess

import (
	"fmt"
	"strings"
)

type GameStatus string

const (
	StatusActive            GameStatus = "active"
	StatusAwaitingPromotion GameStatus = "awaiting_promotion"
	StatusDraw              GameStatus = "draw"
	StatusLightWon          GameStatus = "light_won"
	StatusDarkWon           GameStatus = "dark_won"
)

// Move is one applied or candidate move. Captured and ConvertedTo are filled
// in for applied moves so they can be undone.
type Move struct {
	From        Square    `json:"from"`
	To          Square    `json:"to"`
	Kind        MoveKind  `json:"kind"`
	Promotion   PieceKind `json:"promotion,omitempty"`
	Captured    *Piece    `json:"captured,omitempty"`
	ConvertedTo *Square   `json:"convertedTo,omitempty"`
}

// PendingPromotion is the AwaitingPromotionChoice sub-state: a pawn of Side
// stands on Square waiting for Game.Promote.
type PendingPromotion struct {
	From   Square `json:"from"`
	Square Square `json:"square"`
	Side   Side   `json:"side"`
}

type MoveResult struct {
	From              string  `json:"from"`
	To                string  `json:"to"`
	Kind              string  `json:"kind"`
	Promotion         string  `json:"promotion,omitempty"`
	Captured          string  `json:"captured,omitempty"`
	ConvertedTo       string  `json:"convertedTo,omitempty"`
	FEN               string  `json:"fen"`
	Turn              Side    `json:"turn"`
	Outcome           Outcome `json:"outcome"`
	Check             bool    `json:"check"`
	Checkmate         bool    `json:"checkmate"`
	Stalemate         bool    `json:"stalemate"`
	GameOver          bool    `json:"gameOver"`
	AwaitingPromotion bool    `json:"awaitingPromotion"`
	Result            string  `json:"result"`
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	Light int `json:"light"`
	Dark  int `json:"dark"`
}

func (m MaterialCount) Balance() int { return m.Light - m.Dark }

// StandardPieceValues maps piece kinds to their standard values
var StandardPieceValues = map[PieceKind]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0, // King has no material value
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(text []byte) error {
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (k PieceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PieceKind) UnmarshalText(text []byte) error {
	switch name := string(text); name {
	case "", "none":
		*k = NoKind
	case "pawn", "p":
		*k = Pawn
	case "king", "k":
		*k = King
	default:
		v := ParsePromotion(name)
		if v == NoKind {
			return fmt.Errorf("unknown piece kind %q", name)
		}
		*k = v
	}
	return nil
}

func (sq Square) MarshalText() ([]byte, error) { return []byte(sq.String()), nil }

func (sq *Square) UnmarshalText(text []byte) error {
	v, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*sq = v
	return nil
}

func (p Piece) MarshalText() ([]byte, error) { return []byte(p.Code()), nil }

func (p *Piece) UnmarshalText(text []byte) error {
	v, err := ParsePiece(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (k MoveKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *MoveKind) UnmarshalText(text []byte) error {
	*k = MoveQuiet
	for _, name := range strings.Split(string(text), "+") {
		switch name {
		case "quiet", "":
		case "capture":
			*k |= MoveCapture
		case "double_step":
			*k |= MovePawnDoubleStep
		case "castle":
			*k |= MoveCastle
		case "promotion":
			*k |= MovePromotion
		default:
			return fmt.Errorf("unknown move kind %q", name)
		}
	}
	return nil
}
