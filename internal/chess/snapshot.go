package chess

import (
	"fmt"
	"math/rand"
)

// Snapshot is everything needed to resume a game: the 64 cells, castling
// flags, side to move and session settings. Squares are FEN piece letters in
// row-major order starting at a8; "" marks an empty square.
type Snapshot struct {
	Squares  [64]string        `json:"squares"`
	Turn     Side              `json:"turn"`
	Castling CastlingRights    `json:"castling"`
	Pending  *PendingPromotion `json:"pending,omitempty"`
	Policy   CapturePolicy     `json:"policy"`
	Preset   Preset            `json:"preset,omitempty"`
	Fullmove int               `json:"fullmove"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Turn:     g.turn,
		Castling: g.board.Castling,
		Pending:  g.Pending(),
		Policy:   g.resolver.Policy(),
		Preset:   g.preset,
		Fullmove: g.fullmove,
	}
	for i, p := range g.board.cells {
		s.Squares[i] = p.Code()
	}
	return s
}

// Board decodes the cells and castling flags of s.
func (s Snapshot) Board() (*Board, error) {
	b := NewBoard()
	for i, code := range s.Squares {
		p, err := ParsePiece(code)
		if err != nil {
			return nil, fmt.Errorf("square %s: %w", squareAt(i), err)
		}
		b.cells[i] = p
	}
	b.Castling = s.Castling
	return b, nil
}

// Restore rebuilds a game from a snapshot. The move history is not part of a
// snapshot, so the restored game cannot undo past this point. rng seeds the
// convert policy and may be nil.
func Restore(s Snapshot, rng *rand.Rand, opts ...Option) (*Game, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	resolver, err := NewCaptureResolver(s.Policy, rng)
	if err != nil {
		return nil, err
	}
	g := newGame(append([]Option{WithCaptureResolver(resolver)}, opts...))
	g.reset(b, s.Turn)
	g.preset = s.Preset
	if s.Fullmove > 0 {
		g.fullmove = s.Fullmove
	}
	if s.Pending != nil {
		pending := *s.Pending
		if pending.Side != s.Turn {
			return nil, fmt.Errorf("pending promotion for %s but %s to move", pending.Side, s.Turn)
		}
		if p := b.Get(pending.Square); p.Kind != Pawn || p.Side != pending.Side {
			return nil, fmt.Errorf("pending promotion on %s has no %s pawn", pending.Square, pending.Side)
		}
		g.pending = &pending
	}
	return g, nil
}
