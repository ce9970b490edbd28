package chess

import "fmt"

type Side uint8

const (
	Light Side = iota
	Dark
)

func (s Side) Opposite() Side {
	if s == Light {
		return Dark
	}
	return Light
}

func (s Side) String() string {
	if s == Light {
		return "light"
	}
	return "dark"
}

// ParseSide accepts "light"/"dark" and the conventional "white"/"black".
func ParseSide(s string) (Side, error) {
	switch s {
	case "light", "white", "w":
		return Light, nil
	case "dark", "black", "b":
		return Dark, nil
	default:
		return Light, fmt.Errorf("unknown side %q", s)
	}
}

// PieceKind is the movement class of a piece. The zero value means no piece.
type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Letter returns the lowercase algebraic letter of the kind ("" for NoKind).
func (k PieceKind) Letter() string {
	switch k {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return ""
	}
}

// ParsePromotion maps a promotion letter or name to a kind. Empty input yields
// NoKind, which leaves the game waiting for a promotion choice.
func ParsePromotion(p string) PieceKind {
	switch p {
	case "q", "queen":
		return Queen
	case "r", "rook":
		return Rook
	case "b", "bishop":
		return Bishop
	case "n", "knight":
		return Knight
	default:
		return NoKind
	}
}

// Piece is a kind and a side. The zero Piece is an empty square.
type Piece struct {
	Kind PieceKind
	Side Side
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool { return p.Kind == NoKind }

// Code returns the FEN letter of the piece: uppercase for light, lowercase for dark.
func (p Piece) Code() string {
	l := p.Kind.Letter()
	if l == "" {
		return ""
	}
	if p.Side == Light {
		return string(l[0] - 'a' + 'A')
	}
	return l
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Side.String() + " " + p.Kind.String()
}

// ParsePiece is the inverse of Code. The empty string decodes to NoPiece.
func ParsePiece(code string) (Piece, error) {
	if code == "" {
		return NoPiece, nil
	}
	if len(code) != 1 {
		return NoPiece, fmt.Errorf("invalid piece code %q", code)
	}
	c := code[0]
	side := Dark
	if c >= 'A' && c <= 'Z' {
		side = Light
		c = c - 'A' + 'a'
	}
	var kind PieceKind
	switch c {
	case 'p':
		kind = Pawn
	case 'n':
		kind = Knight
	case 'b':
		kind = Bishop
	case 'r':
		kind = Rook
	case 'q':
		kind = Queen
	case 'k':
		kind = King
	default:
		return NoPiece, fmt.Errorf("invalid piece code %q", code)
	}
	return Piece{Kind: kind, Side: side}, nil
}
