package chess

import (
	"fmt"

	"github.com/rs/zerolog"
)

type Option func(*Game)

// WithCaptureResolver selects the capture policy before the first move.
func WithCaptureResolver(r CaptureResolver) Option {
	return func(g *Game) {
		if r != nil {
			g.resolver = r
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// ply is an applied move plus what is needed to take it back.
type ply struct {
	move   Move
	mover  Piece
	rights CastlingRights
}

// Game is one game session. It owns its Board and is the only thing that
// mutates it. A Game is not safe for concurrent use.
type Game struct {
	board    *Board
	preset   Preset
	turn     Side
	fullmove int
	resolver CaptureResolver
	pending  *PendingPromotion
	history  []ply
	lost     [2][]Piece
	outcome  Outcome
	logger   zerolog.Logger
}

func NewGame(opts ...Option) *Game {
	g := newGame(opts)
	if err := g.Initialize(PresetStandard); err != nil {
		panic(fmt.Sprintf("standard preset: %v", err))
	}
	return g
}

// NewGameFromPreset starts a game on one of the named layouts.
func NewGameFromPreset(p Preset, opts ...Option) (*Game, error) {
	g := newGame(opts)
	if err := g.Initialize(p); err != nil {
		return nil, err
	}
	return g, nil
}

func NewGameFromFEN(fen string, opts ...Option) (*Game, error) {
	b, turn, err := DecodeFEN(fen)
	if err != nil {
		return nil, err
	}
	g := newGame(opts)
	g.reset(b, turn)
	return g, nil
}

func newGame(opts []Option) *Game {
	g := &Game{
		resolver: RemoveCapture{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Initialize discards the current position and loads preset p.
func (g *Game) Initialize(p Preset) error {
	b, turn, err := PresetBoard(p)
	if err != nil {
		return err
	}
	g.reset(b, turn)
	g.preset = p
	return nil
}

func (g *Game) reset(b *Board, turn Side) {
	g.board = b
	g.turn = turn
	g.fullmove = 1
	g.pending = nil
	g.history = nil
	g.lost = [2][]Piece{}
	g.outcome = Evaluate(b, turn)
}

// RegisterCaptureResolver swaps the capture policy. It is only allowed before
// the first move.
func (g *Game) RegisterCaptureResolver(r CaptureResolver) error {
	if len(g.history) > 0 {
		return ErrGameStarted
	}
	if r == nil {
		r = RemoveCapture{}
	}
	g.resolver = r
	return nil
}

func validPromotion(k PieceKind) bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

// ApplyMove validates and plays from->to for the side to move. A pawn reaching
// the last rank is promoted to promotion; with NoKind the game waits for
// Promote instead and the turn does not pass.
func (g *Game) ApplyMove(from, to Square, promotion PieceKind) (*MoveResult, error) {
	if g.pending != nil {
		return nil, ErrPromotionPending
	}
	if g.outcome.Terminal() {
		return nil, ErrGameOver
	}
	mover := g.board.Get(from)
	if !mover.IsEmpty() && mover.Side != g.turn {
		return nil, fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.turn)
	}

	kind, err := Validate(g.board, from, to)
	if err != nil {
		reason, sub := ReasonOf(err)
		g.logger.Debug().Str("from", from.String()).Str("to", to.String()).
			Str("reason", reason.String()).Str("castling", sub.String()).Msg("Move rejected")
		return nil, err
	}
	if kind.Has(MovePromotion) && promotion != NoKind && !validPromotion(promotion) {
		return nil, newMoveError(InvalidPromotion, "cannot promote to %s", promotion)
	}

	p := ply{
		move:   Move{From: from, To: to, Kind: kind},
		mover:  mover,
		rights: g.board.Castling,
	}
	if target := g.board.Get(to); !target.IsEmpty() {
		captured := target
		p.move.Captured = &captured
		if sq, ok := g.resolver.ResolveCapture(g.board, target, to); ok {
			p.move.ConvertedTo = &sq
			g.logger.Debug().Str("piece", target.String()).Str("square", sq.String()).Msg("Captured piece converted")
		}
		g.lost[target.Side] = append(g.lost[target.Side], target)
	}

	g.board.move(from, to)
	if kind.Has(MoveCastle) {
		rookFrom, rookTo := castleRookSquares(from, to)
		g.board.move(rookFrom, rookTo)
	}
	if mover.Kind == King {
		g.board.Castling.markKingMoved(mover.Side)
	}
	g.board.Castling.markRookMoved(from)
	g.board.Castling.markRookMoved(to)

	g.history = append(g.history, p)
	g.logger.Debug().Str("from", from.String()).Str("to", to.String()).Str("kind", kind.String()).Msg("Move applied")

	if kind.Has(MovePromotion) {
		if promotion == NoKind {
			g.pending = &PendingPromotion{From: from, Square: to, Side: mover.Side}
			return g.result(p.move), nil
		}
		p.move.Promotion = promotion
		g.promote(to, mover.Side, promotion)
	}
	return g.endTurn(p.move), nil
}

// Promote completes a pending promotion. NoKind promotes to a queen.
func (g *Game) Promote(kind PieceKind) (*MoveResult, error) {
	if g.pending == nil {
		return nil, ErrNoPendingPromotion
	}
	if kind == NoKind {
		kind = Queen
	}
	if !validPromotion(kind) {
		return nil, newMoveError(InvalidPromotion, "cannot promote to %s", kind)
	}
	pending := *g.pending
	g.pending = nil
	m := g.promote(pending.Square, pending.Side, kind)
	if m == nil {
		// Restored from a snapshot taken mid-promotion: no history entry.
		m = &Move{From: pending.From, To: pending.Square, Kind: MovePromotion, Promotion: kind}
	}
	return g.endTurn(*m), nil
}

// promote places the promoted piece and records the choice on the matching
// history entry, which it returns.
func (g *Game) promote(sq Square, side Side, kind PieceKind) *Move {
	g.board.Set(sq, Piece{Kind: kind, Side: side})
	if n := len(g.history); n > 0 && g.history[n-1].move.To == sq {
		g.history[n-1].move.Promotion = kind
		return &g.history[n-1].move
	}
	return nil
}

func (g *Game) endTurn(m Move) *MoveResult {
	if g.turn == Dark {
		g.fullmove++
	}
	g.turn = g.turn.Opposite()
	g.outcome = Evaluate(g.board, g.turn)
	if g.outcome != Ongoing {
		g.logger.Debug().Str("turn", g.turn.String()).Str("outcome", g.outcome.String()).Msg("Position classified")
	}
	return g.result(m)
}

func castleRookSquares(kingFrom, kingTo Square) (Square, Square) {
	if kingTo.Col > kingFrom.Col {
		return Square{Row: kingFrom.Row, Col: 7}, Square{Row: kingFrom.Row, Col: kingTo.Col - 1}
	}
	return Square{Row: kingFrom.Row, Col: 0}, Square{Row: kingFrom.Row, Col: kingTo.Col + 1}
}

// Undo takes back the last ply, including a pending promotion, a converted
// capture and any castling rights it consumed.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	p := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	m := p.move

	if g.pending != nil {
		g.pending = nil
	} else {
		g.turn = g.turn.Opposite()
		if g.turn == Dark {
			g.fullmove--
		}
	}

	g.board.Set(m.From, p.mover)
	g.board.Set(m.To, NoPiece)
	if m.Kind.Has(MoveCastle) {
		rookFrom, rookTo := castleRookSquares(m.From, m.To)
		g.board.move(rookTo, rookFrom)
	}
	if m.Captured != nil {
		g.board.Set(m.To, *m.Captured)
		if m.ConvertedTo != nil {
			g.board.Set(*m.ConvertedTo, NoPiece)
		}
		jail := g.lost[m.Captured.Side]
		g.lost[m.Captured.Side] = jail[:len(jail)-1]
	}
	g.board.Castling = p.rights
	g.outcome = Evaluate(g.board, g.turn)
	return nil
}

func (g *Game) result(m Move) *MoveResult {
	r := &MoveResult{
		From:      m.From.String(),
		To:        m.To.String(),
		Kind:      m.Kind.String(),
		FEN:       g.FEN(),
		Turn:      g.turn,
		Outcome:   g.outcome,
		Check:     g.outcome == Check || g.outcome == Checkmate,
		Checkmate: g.outcome == Checkmate,
		Stalemate: g.outcome == Stalemate,
		GameOver:  g.outcome.Terminal(),
	}
	if m.Promotion != NoKind {
		r.Promotion = m.Promotion.Letter()
	}
	if m.Captured != nil {
		r.Captured = m.Captured.Code()
	}
	if m.ConvertedTo != nil {
		r.ConvertedTo = m.ConvertedTo.String()
	}
	if g.pending != nil {
		r.AwaitingPromotion = true
		r.Turn = g.pending.Side
	}
	switch g.Status() {
	case StatusLightWon:
		r.Result = "1-0"
	case StatusDarkWon:
		r.Result = "0-1"
	case StatusDraw:
		r.Result = "1/2-1/2"
	}
	return r
}

// Board returns a copy of the live board.
func (g *Game) Board() *Board { return g.board.Clone() }

func (g *Game) Turn() Side { return g.turn }

func (g *Game) Preset() Preset { return g.preset }

func (g *Game) CapturePolicy() CapturePolicy { return g.resolver.Policy() }

func (g *Game) Pending() *PendingPromotion {
	if g.pending == nil {
		return nil
	}
	p := *g.pending
	return &p
}

func (g *Game) History() []Move {
	out := make([]Move, len(g.history))
	for i, p := range g.history {
		out[i] = p.move
	}
	return out
}

// Captured returns the pieces side has lost, in capture order.
func (g *Game) Captured(side Side) []Piece {
	return append([]Piece(nil), g.lost[side]...)
}

func (g *Game) LegalMoves(side Side) []Move { return LegalMoves(g.board, side) }

func (g *Game) LegalMovesFrom(sq Square) []Move { return LegalMovesFrom(g.board, sq) }

func (g *Game) IsInCheck(side Side) bool { return IsInCheck(g.board, side) }

// Outcome is the classification from the last position change.
func (g *Game) Outcome() Outcome { return g.outcome }

// EvaluateOutcome classifies the position for the side to move.
func (g *Game) EvaluateOutcome() Outcome {
	g.outcome = Evaluate(g.board, g.turn)
	return g.outcome
}

// Winner reports the side that delivered checkmate. ok is false unless the
// game ended in checkmate.
func (g *Game) Winner() (side Side, ok bool) {
	if g.outcome != Checkmate || g.pending != nil {
		return Light, false
	}
	return g.turn.Opposite(), true
}

func (g *Game) Status() GameStatus {
	switch {
	case g.pending != nil:
		return StatusAwaitingPromotion
	case g.outcome == Checkmate && g.turn == Light:
		return StatusDarkWon
	case g.outcome == Checkmate:
		return StatusLightWon
	case g.outcome == Stalemate:
		return StatusDraw
	}
	return StatusActive
}

func (g *Game) FEN() string { return EncodeFEN(g.board, g.turn, g.fullmove) }

func (g *Game) MaterialCount() MaterialCount { return Material(g.board) }
