package chess

import "fmt"

// Outcome classifies the position for the side about to move.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Check
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

func (o Outcome) Terminal() bool { return o == Checkmate || o == Stalemate }

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Evaluate classifies b for side, the side about to move.
func Evaluate(b *Board, side Side) Outcome {
	inCheck := IsInCheck(b, side)
	hasMoves := HasLegalMoves(b, side)
	switch {
	case inCheck && !hasMoves:
		return Checkmate
	case !inCheck && !hasMoves:
		return Stalemate
	case inCheck:
		return Check
	}
	return Ongoing
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for _, c := range []Outcome{Ongoing, Check, Checkmate, Stalemate} {
		if c.String() == string(text) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
