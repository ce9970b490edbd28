//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/zombiechess/internal/archive"
	"github.com/justinabrahms/zombiechess/internal/auth"
	"github.com/justinabrahms/zombiechess/internal/chess"
	"github.com/justinabrahms/zombiechess/internal/config"
	"github.com/justinabrahms/zombiechess/internal/session"
	"github.com/justinabrahms/zombiechess/internal/web"
)

// startServer runs the full handler stack the server binary uses.
func startServer(t *testing.T) (*httptest.Server, *web.Hub) {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.Game.Seed = 42

	key, _, err := auth.LoadKey("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := session.NewStore(cfg.Game.SessionTTL, zerolog.Nop())
	store.StartCleanupRoutine(ctx, time.Minute)
	hub := web.NewHub()
	go hub.Run(ctx)

	svc := web.NewService(store, auth.NewIssuer(key, cfg.Auth.TokenTTL), hub, cfg)
	srv := httptest.NewServer(handlers.LoggingHandler(zerolog.Nop(), web.Handler(svc)))
	t.Cleanup(srv.Close)
	return srv, hub
}

func post(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestConvertGameEndToEnd(t *testing.T) {
	srv, hub := startServer(t)

	resp := post(t, srv.URL+"/api/games", "", web.CreateGameRequest{CapturePolicy: "convert"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var game web.CreateGameResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&game))
	resp.Body.Close()
	t.Logf("Created game: %s", game.ID)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?gameId=" + game.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.SpectatorCount(game.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	moves := []struct {
		side     chess.Side
		from, to string
	}{
		{chess.Light, "e2", "e4"},
		{chess.Dark, "d7", "d5"},
		{chess.Light, "e4", "d5"},
	}
	var last chess.MoveResult
	for _, m := range moves {
		resp := post(t, fmt.Sprintf("%s/api/games/%s/moves", srv.URL, game.ID), game.Tokens[m.side.String()],
			web.MakeMoveRequest{From: m.from, To: m.to})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&last))
		resp.Body.Close()
	}
	assert.Equal(t, "p", last.Captured)
	require.NotEmpty(t, last.ConvertedTo)

	// the captured pawn now fights for light
	resp, err = http.Get(srv.URL + "/api/games/" + game.ID)
	require.NoError(t, err)
	var state web.GameState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	resp.Body.Close()
	assert.Equal(t, 40, state.MaterialCount.Light)
	assert.Equal(t, 38, state.MaterialCount.Dark)
	assert.Equal(t, []chess.Piece{{Kind: chess.Pawn, Side: chess.Dark}}, state.Captured["dark"])

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := range moves {
		var update web.GameUpdate
		require.NoError(t, conn.ReadJSON(&update))
		assert.Equal(t, "move", update.Type, "update %d", i)
	}

	resp, err = http.Get(srv.URL + "/api/games/" + game.ID + "/archive")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	arc, err := archive.Read(resp.Body)
	require.NoError(t, err)
	require.Len(t, arc.Snapshots, len(moves)+1)

	restored, err := chess.Restore(arc.Final(), nil)
	require.NoError(t, err)
	assert.Equal(t, state.FEN, restored.FEN())
	assert.Equal(t, 40, restored.MaterialCount().Light)
}
