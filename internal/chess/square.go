package chess

import "fmt"

// Square addresses a cell by row and column. Row 0 is rank 8 and column 0 is
// file a, so light pieces start on rows 6 and 7.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square { return Square{Row: row, Col: col} }

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) index() int { return s.Row*8 + s.Col }

func squareAt(idx int) Square { return Square{Row: idx / 8, Col: idx % 8} }

// String renders the square in algebraic notation, e.g. "e4".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{byte('a' + s.Col), byte('1' + 7 - s.Row)})
}

// ParseSquare converts algebraic notation ("a1".."h8") to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, newMoveError(InvalidSquare, "malformed square %q", s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return Square{}, newMoveError(InvalidSquare, "square %q is off the board", s)
	}
	return Square{Row: 7 - rank, Col: file}, nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// between returns the squares strictly between a and b along a rank, file or
// diagonal. It returns nil when a and b are not aligned.
func between(a, b Square) []Square {
	dr, dc := b.Row-a.Row, b.Col-a.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return nil
	}
	stepR, stepC := sign(dr), sign(dc)
	var out []Square
	for r, c := a.Row+stepR, a.Col+stepC; r != b.Row || c != b.Col; r, c = r+stepR, c+stepC {
		out = append(out, Square{Row: r, Col: c})
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
