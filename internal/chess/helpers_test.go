package chess

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func loadBoard(t *testing.T, fen string) *Board {
	t.Helper()
	b, _, err := DecodeFEN(fen)
	require.NoError(t, err)
	return b
}

func play(t *testing.T, g *Game, moves ...string) *MoveResult {
	t.Helper()
	var res *MoveResult
	for _, m := range moves {
		from, to := MustSquare(m[:2]), MustSquare(m[2:4])
		promotion := NoKind
		if len(m) == 5 {
			promotion = ParsePromotion(m[4:])
		}
		var err error
		res, err = g.ApplyMove(from, to, promotion)
		require.NoError(t, err, "move %s", m)
	}
	return res
}

func assertReason(t *testing.T, err error, want IllegalMoveReason) {
	t.Helper()
	require.Error(t, err)
	reason, _ := ReasonOf(err)
	require.Equal(t, want, reason, "error: %v", err)
}
