package chess

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knightCaptureFEN = "4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1"

func TestRemoveCapture(t *testing.T) {
	g, err := NewGameFromFEN(knightCaptureFEN)
	require.NoError(t, err)
	before := g.Board().Count()

	res := play(t, g, "e4d5")
	assert.Equal(t, "n", res.Captured)
	assert.Empty(t, res.ConvertedTo)
	assert.Equal(t, before-1, g.Board().Count())
	assert.Equal(t, []Piece{{Kind: Knight, Side: Dark}}, g.Captured(Dark))
}

func TestConvertCapture(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		resolver := NewConvertCapture(rand.New(rand.NewSource(seed)))
		g, err := NewGameFromFEN(knightCaptureFEN, WithCaptureResolver(resolver))
		require.NoError(t, err)
		pre := g.Board()

		res := play(t, g, "e4d5")
		post := g.Board()

		require.NotEmpty(t, res.ConvertedTo)
		sq := MustSquare(res.ConvertedTo)
		assert.Equal(t, pre.Count(), post.Count(), "seed %d", seed)
		assert.NotEqual(t, MustSquare("d5"), sq)
		assert.True(t, pre.Get(sq).IsEmpty(), "seed %d: %s was occupied before the move", seed, sq)
		assert.Equal(t, Piece{Kind: Knight, Side: Light}, post.Get(sq))
		assert.Equal(t, Piece{Kind: Pawn, Side: Light}, post.Get(MustSquare("d5")))
		assert.Equal(t, PolicyConvert, g.CapturePolicy())
	}
}

func TestConvertCaptureIsSeeded(t *testing.T) {
	squares := make([]string, 2)
	for i := range squares {
		g, err := NewGameFromFEN(knightCaptureFEN,
			WithCaptureResolver(NewConvertCapture(rand.New(rand.NewSource(42)))))
		require.NoError(t, err)
		squares[i] = play(t, g, "e4d5").ConvertedTo
	}
	assert.Equal(t, squares[0], squares[1])
}

func TestConvertCaptureFullBoard(t *testing.T) {
	b := NewBoard()
	for i := range b.cells {
		b.cells[i] = Piece{Kind: Pawn, Side: Side(i % 2)}
	}
	c := NewConvertCapture(rand.New(rand.NewSource(1)))
	_, ok := c.ResolveCapture(b, Piece{Kind: Rook, Side: Dark}, MustSquare("a1"))
	assert.False(t, ok)
	assert.Equal(t, 64, b.Count())
}

func TestParseCapturePolicy(t *testing.T) {
	p, err := ParseCapturePolicy("convert")
	require.NoError(t, err)
	assert.Equal(t, PolicyConvert, p)

	p, err = ParseCapturePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyRemove, p)

	_, err = ParseCapturePolicy("zombie")
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	r, err := NewCaptureResolver(PolicyRemove, nil)
	require.NoError(t, err)
	assert.Equal(t, PolicyRemove, r.Policy())

	r, err = NewCaptureResolver(PolicyConvert, nil)
	require.NoError(t, err)
	assert.Equal(t, PolicyConvert, r.Policy())
}

func TestRegisterCaptureResolver(t *testing.T) {
	g := NewGame()
	require.NoError(t, g.RegisterCaptureResolver(NewConvertCapture(nil)))
	assert.Equal(t, PolicyConvert, g.CapturePolicy())

	play(t, g, "e2e4")
	assert.ErrorIs(t, g.RegisterCaptureResolver(RemoveCapture{}), ErrGameStarted)
	assert.Equal(t, PolicyConvert, g.CapturePolicy())
}
