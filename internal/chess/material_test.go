package chess

import (
	"math/rand"
	"testing"
)

func TestMaterialCount(t *testing.T) {
	tests := []struct {
		name            string
		fen             string
		expectedLight   int
		expectedDark    int
		expectedBalance int
	}{
		{
			name:            "Starting position",
			fen:             "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			expectedLight:   39, // 8 pawns (8) + 2 knights (6) + 2 bishops (6) + 2 rooks (10) + 1 queen (9)
			expectedDark:    39,
			expectedBalance: 0,
		},
		{
			name:            "Light up a pawn",
			fen:             "rnbqkbnr/ppp1pppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			expectedLight:   39,
			expectedDark:    38,
			expectedBalance: 1,
		},
		{
			name:            "Dark up a knight",
			fen:             "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/R1BQKBNR w KQkq - 0 1",
			expectedLight:   36,
			expectedDark:    39,
			expectedBalance: -3,
		},
		{
			name:            "Endgame - King and pawn vs King",
			fen:             "8/8/8/8/4P3/8/8/4K2k w - - 0 1",
			expectedLight:   1,
			expectedDark:    0,
			expectedBalance: 1,
		},
		{
			name:            "Queen endgame",
			fen:             "8/8/8/8/8/8/4Q3/4K2k w - - 0 1",
			expectedLight:   9,
			expectedDark:    0,
			expectedBalance: 9,
		},
		{
			name:            "Rook and pawn endgame",
			fen:             "8/8/8/8/8/p7/P7/R3K2k w - - 0 1",
			expectedLight:   6, // Rook (5) + Pawn (1)
			expectedDark:    1, // Pawn (1)
			expectedBalance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGameFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("Failed to load FEN: %v", err)
			}

			count := g.MaterialCount()
			if count.Light != tt.expectedLight {
				t.Errorf("Light material: expected %d, got %d", tt.expectedLight, count.Light)
			}
			if count.Dark != tt.expectedDark {
				t.Errorf("Dark material: expected %d, got %d", tt.expectedDark, count.Dark)
			}
			if balance := count.Balance(); balance != tt.expectedBalance {
				t.Errorf("Material balance: expected %d, got %d", tt.expectedBalance, balance)
			}
		})
	}
}

func TestStandardPieceValues(t *testing.T) {
	expected := map[PieceKind]int{
		Pawn:   1,
		Knight: 3,
		Bishop: 3,
		Rook:   5,
		Queen:  9,
		King:   0,
	}

	for kind, expectedValue := range expected {
		if value, ok := StandardPieceValues[kind]; !ok {
			t.Errorf("Missing piece value for %s", kind)
		} else if value != expectedValue {
			t.Errorf("Piece %s: expected value %d, got %d", kind, expectedValue, value)
		}
	}
}

func TestMaterialCountAfterCaptures(t *testing.T) {
	g := NewGame()

	count := g.MaterialCount()
	if count.Light != 39 || count.Dark != 39 {
		t.Errorf("Starting material incorrect: Light=%d, Dark=%d", count.Light, count.Dark)
	}

	moves := []struct {
		from string
		to   string
	}{
		{"e2", "e4"},
		{"d7", "d5"},
		{"e4", "d5"}, // light pawn takes dark pawn
	}
	for _, move := range moves {
		if _, err := g.ApplyMove(MustSquare(move.from), MustSquare(move.to), NoKind); err != nil {
			t.Fatalf("Move %s-%s failed: %v", move.from, move.to, err)
		}
	}

	count = g.MaterialCount()
	if count.Light != 39 {
		t.Errorf("Light material after capture: expected 39, got %d", count.Light)
	}
	if count.Dark != 38 {
		t.Errorf("Dark material after capture: expected 38, got %d", count.Dark)
	}
	if balance := count.Balance(); balance != 1 {
		t.Errorf("Material balance after pawn capture: expected 1, got %d", balance)
	}
}

func TestMaterialMovesSidesUnderConvert(t *testing.T) {
	g, err := NewGameFromFEN(knightCaptureFEN, WithCaptureResolver(NewConvertCapture(rand.New(rand.NewSource(9)))))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.ApplyMove(MustSquare("e4"), MustSquare("d5"), NoKind); err != nil {
		t.Fatal(err)
	}

	// the knight changed sides instead of leaving the board
	count := g.MaterialCount()
	if count.Light != 4 || count.Dark != 0 {
		t.Errorf("expected light 4 dark 0, got light %d dark %d", count.Light, count.Dark)
	}
}
