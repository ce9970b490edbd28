package chess

import (
	"errors"
	"fmt"
)

// IllegalMoveReason classifies why a move was rejected.
type IllegalMoveReason uint8

const (
	NoPieceAtSource IllegalMoveReason = iota + 1
	OwnPieceCapture
	MoveLeavesKingInCheck
	IllegalPawnMovement
	IllegalPatternForPiece
	PathBlocked
	IllegalCastlingPrecondition
	InvalidSquare
	SameSquare
	InvalidPromotion
)

var reasonNames = map[IllegalMoveReason]string{
	NoPieceAtSource:             "no_piece_at_source",
	OwnPieceCapture:             "own_piece_capture",
	MoveLeavesKingInCheck:       "move_leaves_king_in_check",
	IllegalPawnMovement:         "illegal_pawn_movement",
	IllegalPatternForPiece:      "illegal_pattern_for_piece",
	PathBlocked:                 "path_blocked",
	IllegalCastlingPrecondition: "illegal_castling_precondition",
	InvalidSquare:               "invalid_square",
	SameSquare:                  "same_square",
	InvalidPromotion:            "invalid_promotion",
}

func (r IllegalMoveReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", r)
}

// Error lets a bare reason be used as an errors.Is target.
func (r IllegalMoveReason) Error() string { return r.String() }

// CastlingReason refines IllegalCastlingPrecondition.
type CastlingReason uint8

const (
	CastleKingMoved CastlingReason = iota + 1
	CastleRookMovedOrAbsent
	CastleBlocked
	CastleThroughCheck
	CastleInCheck
)

func (c CastlingReason) String() string {
	switch c {
	case CastleKingMoved:
		return "king_moved"
	case CastleRookMovedOrAbsent:
		return "rook_moved_or_absent"
	case CastleBlocked:
		return "blocked_path"
	case CastleThroughCheck:
		return "through_check"
	case CastleInCheck:
		return "currently_in_check"
	default:
		return ""
	}
}

// MoveError is returned for every rejected move. The board is never modified
// when a MoveError is returned.
type MoveError struct {
	Reason   IllegalMoveReason
	Castling CastlingReason
	Kind     PieceKind
	msg      string
}

func newMoveError(reason IllegalMoveReason, format string, args ...interface{}) *MoveError {
	return &MoveError{Reason: reason, msg: fmt.Sprintf(format, args...)}
}

func patternError(kind PieceKind, format string, args ...interface{}) *MoveError {
	e := newMoveError(IllegalPatternForPiece, format, args...)
	e.Kind = kind
	return e
}

func castlingError(reason CastlingReason, msg string) *MoveError {
	return &MoveError{Reason: IllegalCastlingPrecondition, Castling: reason, Kind: King, msg: msg}
}

func (e *MoveError) Error() string {
	if e.msg == "" {
		return e.Reason.String()
	}
	return e.msg
}

func (e *MoveError) Is(target error) bool {
	switch t := target.(type) {
	case IllegalMoveReason:
		return e.Reason == t
	case *MoveError:
		return e.Reason == t.Reason && (t.Castling == 0 || e.Castling == t.Castling)
	}
	return false
}

// ReasonOf extracts the rejection reason from err, or 0 if err is not a MoveError.
func ReasonOf(err error) (IllegalMoveReason, CastlingReason) {
	var me *MoveError
	if errors.As(err, &me) {
		return me.Reason, me.Castling
	}
	return 0, 0
}

var (
	ErrNotYourTurn        = errors.New("not your turn")
	ErrGameOver           = errors.New("game is over")
	ErrPromotionPending   = errors.New("a promotion choice is pending")
	ErrNoPendingPromotion = errors.New("no promotion is pending")
	ErrNothingToUndo      = errors.New("no moves to undo")
	ErrGameStarted        = errors.New("game already started")
	ErrUnknownPreset      = errors.New("unknown preset")
	ErrUnknownPolicy      = errors.New("unknown capture policy")
)
