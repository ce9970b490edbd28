package chess

import "strings"

var (
	lightKingHome = Square{Row: 7, Col: 4}
	darkKingHome  = Square{Row: 0, Col: 4}
)

func kingHome(side Side) Square {
	if side == Light {
		return lightKingHome
	}
	return darkKingHome
}

func homeRow(side Side) int {
	if side == Light {
		return 7
	}
	return 0
}

// CastlingRights records which castling pieces have left their original
// squares. Rook flags are keyed by the rook's original square.
type CastlingRights struct {
	LightKingMoved          bool `json:"lightKingMoved"`
	DarkKingMoved           bool `json:"darkKingMoved"`
	LightQueensideRookMoved bool `json:"lightQueensideRookMoved"` // a1
	LightKingsideRookMoved  bool `json:"lightKingsideRookMoved"`  // h1
	DarkQueensideRookMoved  bool `json:"darkQueensideRookMoved"`  // a8
	DarkKingsideRookMoved   bool `json:"darkKingsideRookMoved"`   // h8
}

func (c CastlingRights) KingMoved(side Side) bool {
	if side == Light {
		return c.LightKingMoved
	}
	return c.DarkKingMoved
}

// RookMoved reports the flag of the rook whose original square is home.
// Squares that are not rook homes report true.
func (c CastlingRights) RookMoved(home Square) bool {
	if f := c.rookFlag(home); f != nil {
		return *f
	}
	return true
}

func (c *CastlingRights) rookFlag(home Square) *bool {
	switch home {
	case Square{Row: 7, Col: 0}:
		return &c.LightQueensideRookMoved
	case Square{Row: 7, Col: 7}:
		return &c.LightKingsideRookMoved
	case Square{Row: 0, Col: 0}:
		return &c.DarkQueensideRookMoved
	case Square{Row: 0, Col: 7}:
		return &c.DarkKingsideRookMoved
	}
	return nil
}

func (c *CastlingRights) markKingMoved(side Side) {
	if side == Light {
		c.LightKingMoved = true
	} else {
		c.DarkKingMoved = true
	}
}

func (c *CastlingRights) markRookMoved(home Square) {
	if f := c.rookFlag(home); f != nil {
		*f = true
	}
}

// Board is the 8x8 grid plus castling flags. A Board is a plain value: Clone
// copies it completely and simulations never touch the original.
type Board struct {
	cells    [64]Piece
	Castling CastlingRights
}

func NewBoard() *Board { return &Board{} }

func (b *Board) Get(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	return b.cells[sq.index()]
}

// Set places p on sq (NoPiece empties it). No legality checks are made.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	b.cells[sq.index()] = p
}

func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// move relocates whatever stands on from to to, overwriting to.
func (b *Board) move(from, to Square) {
	b.cells[to.index()] = b.cells[from.index()]
	b.cells[from.index()] = NoPiece
}

func (b *Board) FindKing(side Side) (Square, bool) {
	for i, p := range b.cells {
		if p.Kind == King && p.Side == side {
			return squareAt(i), true
		}
	}
	return Square{}, false
}

// EmptySquares lists every empty square in row-major order.
func (b *Board) EmptySquares() []Square {
	var out []Square
	for i, p := range b.cells {
		if p.IsEmpty() {
			out = append(out, squareAt(i))
		}
	}
	return out
}

// Count returns the number of occupied squares.
func (b *Board) Count() int {
	n := 0
	for _, p := range b.cells {
		if !p.IsEmpty() {
			n++
		}
	}
	return n
}

// String draws the board rank 8 first, '.' for empty squares.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.cells[row*8+col]
			if p.IsEmpty() {
				sb.WriteByte('.')
			} else {
				sb.WriteString(p.Code())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
