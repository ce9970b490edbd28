package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// NewRouter registers every route of the service.
func NewRouter(s *Service) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games", s.ListGamesHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/promotion", s.PromotionHandler).Methods("POST")
	api.HandleFunc("/games/{id}/undo", s.UndoHandler).Methods("POST")
	api.HandleFunc("/games/{id}/legal-moves", s.LegalMovesHandler).Methods("GET")
	api.HandleFunc("/games/{id}/fen", s.FENHandler).Methods("GET")
	api.HandleFunc("/games/{id}/archive", s.ArchiveHandler).Methods("GET")

	if s.config.WebSocket.Enabled && s.hub != nil {
		router.HandleFunc("/ws", s.WebSocketHandler)
	}
	return router
}

// recoveryLogger sends recovered panics to the global logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(fmt.Sprint(v...))
}

// Handler wraps the router with CORS and panic recovery.
func Handler(s *Service) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(cors(NewRouter(s)))
}
