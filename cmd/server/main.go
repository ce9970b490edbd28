package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/zombiechess/internal/auth"
	"github.com/justinabrahms/zombiechess/internal/config"
	"github.com/justinabrahms/zombiechess/internal/session"
	"github.com/justinabrahms/zombiechess/internal/web"
)

func main() {
	var showHelp bool
	var configDir string
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&configDir, "config", "", "Directory holding config.yaml")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel())
	if cfg.Development.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	key, generated, err := auth.LoadKey(cfg.Auth.KeyFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Auth.KeyFile).Msg("Failed to load signing key")
	}
	if generated {
		log.Warn().Msg("No signing key configured, player tokens will not survive a restart")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.NewStore(cfg.Game.SessionTTL, log.Logger)
	store.StartCleanupRoutine(ctx, 5*time.Minute)

	var hub *web.Hub
	if cfg.WebSocket.Enabled {
		hub = web.NewHub()
		go hub.Run(ctx)
	}

	service := web.NewService(store, auth.NewIssuer(key, cfg.Auth.TokenTTL), hub, cfg)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handlers.LoggingHandler(log.Logger, web.Handler(service)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("policy", cfg.Game.CapturePolicy).
			Str("preset", cfg.Game.DefaultPreset).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	log.Info().Msg("Server exited")
}

func showHelpMessage() {
	fmt.Println(`ZombieChess Server

DESCRIPTION:
    HTTP service for chess games with a selectable capture policy.
    Under "remove" captured pieces leave the board as usual. Under
    "convert" a captured piece changes sides and reappears on a random
    empty square.

USAGE:
    zombiechess-server [OPTIONS]

OPTIONS:
    -h, --help        Show this help message
    -config DIR       Directory holding config.yaml

CONFIGURATION:
    Read from config.yaml in ./, ./config or -config. Every key can be
    overridden with a ZOMBIECHESS_ environment variable, for example
    ZOMBIECHESS_GAME_CAPTURE_POLICY=convert.

    Example config.yaml:
        server:
          host: localhost
          port: 8080

        game:
          default_preset: standard   # standard, endgame, promotion, castling
          capture_policy: convert    # remove, convert
          seed: 0                    # nonzero makes conversions repeatable
          session_ttl: 24h

        auth:
          key_file: signing-key.pem
          token_ttl: 24h
          require_tokens: true

        websocket:
          enabled: true

        development:
          debug: true
          log_level: debug

API ENDPOINTS:
    GET  /api/health                   - Service health check
    GET  /api/games                    - List live games (?status=)
    POST /api/games                    - Create a game
    GET  /api/games/{id}               - Full game state
    POST /api/games/{id}/moves         - Submit a move
    POST /api/games/{id}/promotion     - Choose a pending promotion piece
    POST /api/games/{id}/undo          - Take back the last move
    GET  /api/games/{id}/legal-moves   - Legal moves (?from= or ?side=)
    GET  /api/games/{id}/fen           - Position as FEN
    GET  /api/games/{id}/archive       - Snapshot history as a CAR file
    GET  /ws?gameId={id}               - Spectator updates over WebSocket

EXAMPLES:
    # Create a convert-policy game
    curl -X POST http://localhost:8080/api/games \
      -H "Content-Type: application/json" \
      -d '{"capturePolicy": "convert"}'

    # Play e2-e4 with the light token from the response
    curl -X POST http://localhost:8080/api/games/$ID/moves \
      -H "Authorization: Bearer $LIGHT_TOKEN" \
      -d '{"from": "e2", "to": "e4"}'

SEE ALSO:
    zombiechess-replay(1), zombiechess-generate-keys(1)`)
}
