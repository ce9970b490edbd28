package web

import (
	"net/http"
	"time"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

// GameState is the full view of one game.
type GameState struct {
	ID             string                   `json:"id"`
	FEN            string                   `json:"fen"`
	Turn           chess.Side               `json:"turn"`
	Status         chess.GameStatus         `json:"status"`
	Outcome        chess.Outcome            `json:"outcome"`
	Policy         chess.CapturePolicy      `json:"capturePolicy"`
	Preset         chess.Preset             `json:"preset,omitempty"`
	Pending        *chess.PendingPromotion  `json:"pending,omitempty"`
	MaterialCount  chess.MaterialCount      `json:"materialCount"`
	History        []chess.Move             `json:"history"`
	Captured       map[string][]chess.Piece `json:"captured"`
	Snapshot       chess.Snapshot           `json:"snapshot"`
	SpectatorCount int                      `json:"spectatorCount"`
}

func buildState(id string, g *chess.Game, spectators int) GameState {
	return GameState{
		ID:            id,
		FEN:           g.FEN(),
		Turn:          g.Turn(),
		Status:        g.Status(),
		Outcome:       g.Outcome(),
		Policy:        g.CapturePolicy(),
		Preset:        g.Preset(),
		Pending:       g.Pending(),
		MaterialCount: g.MaterialCount(),
		History:       g.History(),
		Captured: map[string][]chess.Piece{
			chess.Light.String(): g.Captured(chess.Light),
			chess.Dark.String():  g.Captured(chess.Dark),
		},
		Snapshot:       g.Snapshot(),
		SpectatorCount: spectators,
	}
}

// GameIndex represents a game available for spectating
type GameIndex struct {
	GameID         string              `json:"gameId"`
	Status         chess.GameStatus    `json:"status"`
	Turn           chess.Side          `json:"turn"`
	Policy         chess.CapturePolicy `json:"capturePolicy"`
	MoveCount      int                 `json:"moveCount"`
	CreatedAt      time.Time           `json:"createdAt"`
	SpectatorCount int                 `json:"spectatorCount"`
	MaterialCount  chess.MaterialCount `json:"materialCount"`
}

// ListGamesHandler returns the live games for spectating
func (s *Service) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	status := chess.GameStatus(r.URL.Query().Get("status"))

	games := []GameIndex{}
	for _, sess := range s.store.List() {
		idx := GameIndex{
			GameID:         sess.ID,
			CreatedAt:      sess.CreatedAt,
			SpectatorCount: s.spectators(sess.ID),
		}
		sess.View(func(g *chess.Game) {
			idx.Status = g.Status()
			idx.Turn = g.Turn()
			idx.Policy = g.CapturePolicy()
			idx.MoveCount = len(g.History())
			idx.MaterialCount = g.MaterialCount()
		})
		if status != "" && idx.Status != status {
			continue
		}
		games = append(games, idx)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}
