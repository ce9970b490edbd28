package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

// ErrorResponse is the body of every failed request. Reason and Castling are
// set for rejected moves.
type ErrorResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason,omitempty"`
	Castling string `json:"castling,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeEngineError maps rule and session errors to status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	var me *chess.MoveError
	if errors.As(err, &me) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:    me.Error(),
			Reason:   me.Reason.String(),
			Castling: me.Castling.String(),
		})
		return
	}

	switch {
	case errors.Is(err, chess.ErrNotYourTurn):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, chess.ErrGameOver),
		errors.Is(err, chess.ErrPromotionPending),
		errors.Is(err, chess.ErrNoPendingPromotion),
		errors.Is(err, chess.ErrNothingToUndo):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
