package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/zombiechess/internal/archive"
	"github.com/justinabrahms/zombiechess/internal/auth"
	"github.com/justinabrahms/zombiechess/internal/chess"
	"github.com/justinabrahms/zombiechess/internal/config"
	"github.com/justinabrahms/zombiechess/internal/session"
)

type Service struct {
	store  *session.Store
	tokens *auth.Issuer
	hub    *Hub
	config *config.Config
}

// NewService wires the handlers to their dependencies. hub may be nil when
// spectator updates are disabled.
func NewService(store *session.Store, tokens *auth.Issuer, hub *Hub, config *config.Config) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		hub:    hub,
		config: config,
	}
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"games":  s.store.Len(),
	})
}

type CreateGameRequest struct {
	Preset        string `json:"preset,omitempty"`
	CapturePolicy string `json:"capturePolicy,omitempty"`
	FEN           string `json:"fen,omitempty"`
}

type CreateGameResponse struct {
	ID     string            `json:"id"`
	State  GameState         `json:"state"`
	Tokens map[string]string `json:"tokens,omitempty"`
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := s.newGame(req)
	if err != nil {
		log.Warn().Err(err).Str("preset", req.Preset).Str("fen", req.FEN).Msg("Rejected game setup")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.store.Create(g)

	resp := CreateGameResponse{ID: sess.ID}
	if s.config.Auth.RequireTokens {
		resp.Tokens = make(map[string]string, 2)
		for _, side := range []chess.Side{chess.Light, chess.Dark} {
			token, err := s.tokens.Issue(sess.ID, side)
			if err != nil {
				log.Error().Err(err).Str("gameID", sess.ID).Msg("Failed to issue player token")
				writeError(w, http.StatusInternalServerError, "Failed to issue player tokens")
				return
			}
			resp.Tokens[side.String()] = token
		}
	}
	sess.View(func(g *chess.Game) {
		resp.State = buildState(sess.ID, g, s.spectators(sess.ID))
	})

	log.Info().Str("gameID", sess.ID).Str("preset", string(resp.State.Preset)).
		Str("policy", string(resp.State.Policy)).Msg("Game created")
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) newGame(req CreateGameRequest) (*chess.Game, error) {
	policyName := req.CapturePolicy
	if policyName == "" {
		policyName = s.config.Game.CapturePolicy
	}
	policy, err := chess.ParseCapturePolicy(policyName)
	if err != nil {
		return nil, err
	}
	resolver, err := chess.NewCaptureResolver(policy, s.rng())
	if err != nil {
		return nil, err
	}
	opts := []chess.Option{
		chess.WithCaptureResolver(resolver),
		chess.WithLogger(log.Logger),
	}

	if req.FEN != "" {
		return chess.NewGameFromFEN(req.FEN, opts...)
	}
	presetName := req.Preset
	if presetName == "" {
		presetName = s.config.Game.DefaultPreset
	}
	preset, err := chess.ParsePreset(presetName)
	if err != nil {
		return nil, err
	}
	return chess.NewGameFromPreset(preset, opts...)
}

// rng returns the random source for a new game's convert policy.
func (s *Service) rng() *rand.Rand {
	if seed := s.config.Game.Seed; seed != 0 {
		return rand.New(rand.NewSource(seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// session looks up the game named in the route and answers 404/410 itself.
func (s *Service) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	gameID := mux.Vars(r)["id"]
	sess, err := s.store.Get(gameID)
	switch {
	case errors.Is(err, session.ErrExpired):
		writeError(w, http.StatusGone, "Game expired")
		return nil, false
	case err != nil:
		writeError(w, http.StatusNotFound, "Game not found")
		return nil, false
	}
	return sess, true
}

// actor resolves the bearer token of r to the side it was issued for.
func (s *Service) actor(w http.ResponseWriter, r *http.Request, gameID string) (session.Actor, bool) {
	if !s.config.Auth.RequireTokens {
		return session.Anyone, true
	}
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		writeError(w, http.StatusUnauthorized, "Missing player token")
		return session.Actor{}, false
	}
	claims, err := s.tokens.Verify(raw, gameID)
	if err != nil {
		log.Warn().Err(err).Str("gameID", gameID).Msg("Rejected player token")
		if errors.Is(err, auth.ErrWrongGame) {
			writeError(w, http.StatusForbidden, err.Error())
		} else {
			writeError(w, http.StatusUnauthorized, "Invalid player token")
		}
		return session.Actor{}, false
	}
	return session.As(claims.Side), true
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var state GameState
	sess.View(func(g *chess.Game) {
		state = buildState(sess.ID, g, s.spectators(sess.ID))
	})
	writeJSON(w, http.StatusOK, state)
}

type MakeMoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	actor, ok := s.actor(w, r, sess.ID)
	if !ok {
		return
	}

	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	from, err := chess.ParseSquare(req.From)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	to, err := chess.ParseSquare(req.To)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	promotion := chess.ParsePromotion(strings.ToLower(req.Promotion))
	if req.Promotion != "" && promotion == chess.NoKind {
		writeEngineError(w, &chess.MoveError{Reason: chess.InvalidPromotion})
		return
	}

	result, err := sess.Apply(actor, from, to, promotion)
	if err != nil {
		reason, castling := chess.ReasonOf(err)
		log.Info().Err(err).Str("gameID", sess.ID).Str("from", req.From).Str("to", req.To).
			Str("reason", reason.String()).Str("castling", castling.String()).Msg("Move rejected")
		writeEngineError(w, err)
		return
	}

	log.Info().Str("gameID", sess.ID).Str("from", result.From).Str("to", result.To).
		Str("kind", result.Kind).Str("fen", result.FEN).Bool("check", result.Check).
		Bool("checkmate", result.Checkmate).Msg("Move executed successfully")
	s.broadcastResult(sess.ID, "move", result)
	writeJSON(w, http.StatusOK, result)
}

type PromotionRequest struct {
	Piece string `json:"piece"`
}

func (s *Service) PromotionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	actor, ok := s.actor(w, r, sess.ID)
	if !ok {
		return
	}

	var req PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	kind := chess.ParsePromotion(strings.ToLower(req.Piece))
	if req.Piece != "" && kind == chess.NoKind {
		writeEngineError(w, &chess.MoveError{Reason: chess.InvalidPromotion})
		return
	}

	result, err := sess.Promote(actor, kind)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	log.Info().Str("gameID", sess.ID).Str("square", result.To).Str("piece", result.Promotion).Msg("Promotion completed")
	s.broadcastResult(sess.ID, "promotion", result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Service) UndoHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	actor, ok := s.actor(w, r, sess.ID)
	if !ok {
		return
	}

	if _, err := sess.Undo(actor); err != nil {
		writeEngineError(w, err)
		return
	}
	var state GameState
	sess.View(func(g *chess.Game) {
		state = buildState(sess.ID, g, s.spectators(sess.ID))
	})

	log.Info().Str("gameID", sess.ID).Str("fen", state.FEN).Msg("Move taken back")
	s.broadcast(GameUpdate{GameID: sess.ID, Type: "undo", Data: state})
	writeJSON(w, http.StatusOK, state)
}

func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var moves []chess.Move
	var err error
	sess.View(func(g *chess.Game) {
		if from := q.Get("from"); from != "" {
			var sq chess.Square
			if sq, err = chess.ParseSquare(from); err == nil {
				moves = g.LegalMovesFrom(sq)
			}
			return
		}
		side := g.Turn()
		if name := q.Get("side"); name != "" {
			if side, err = chess.ParseSide(name); err != nil {
				return
			}
		}
		moves = g.LegalMoves(side)
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if moves == nil {
		moves = []chess.Move{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"moves": moves,
		"total": len(moves),
	})
}

func (s *Service) FENHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var fen string
	sess.View(func(g *chess.Game) { fen = g.FEN() })

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, fen+"\n")
}

func (s *Service) ArchiveHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	root, err := archive.Write(&buf, sess.Snapshots())
	if err != nil {
		log.Error().Err(err).Str("gameID", sess.ID).Msg("Failed to build archive")
		writeError(w, http.StatusInternalServerError, "Failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.ipld.car")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sess.ID+`.car"`)
	w.Header().Set("X-Archive-Root", root.String())
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) broadcastResult(gameID, kind string, result *chess.MoveResult) {
	s.broadcast(GameUpdate{GameID: gameID, Type: kind, Data: result})
	if result.GameOver {
		s.broadcast(GameUpdate{
			GameID: gameID,
			Type:   "game_end",
			Data: map[string]interface{}{
				"result":  result.Result,
				"outcome": result.Outcome,
				"fen":     result.FEN,
			},
		})
	}
}

func (s *Service) broadcast(update GameUpdate) {
	if s.hub != nil {
		s.hub.BroadcastGameUpdate(update)
	}
}

func (s *Service) spectators(gameID string) int {
	if s.hub == nil {
		return 0
	}
	return s.hub.SpectatorCount(gameID)
}
