package chess

import (
	"fmt"
	"math/rand"
)

// CaptureResolver decides what happens to a captured piece. ResolveCapture is
// called before the capturing piece is relocated, so b still shows the
// occupancy from immediately before the move. It returns the square the
// captured piece re-entered on, if any.
type CaptureResolver interface {
	ResolveCapture(b *Board, captured Piece, dest Square) (Square, bool)
	Policy() CapturePolicy
}

type CapturePolicy string

const (
	PolicyRemove  CapturePolicy = "remove"
	PolicyConvert CapturePolicy = "convert"
)

func ParseCapturePolicy(s string) (CapturePolicy, error) {
	switch CapturePolicy(s) {
	case PolicyRemove, "":
		return PolicyRemove, nil
	case PolicyConvert:
		return PolicyConvert, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// NewCaptureResolver builds the resolver for policy. rng is only used by the
// convert policy; nil selects a time-seeded source.
func NewCaptureResolver(policy CapturePolicy, rng *rand.Rand) (CaptureResolver, error) {
	switch policy {
	case PolicyRemove, "":
		return RemoveCapture{}, nil
	case PolicyConvert:
		return NewConvertCapture(rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
}

// RemoveCapture discards captured pieces.
type RemoveCapture struct{}

func (RemoveCapture) ResolveCapture(*Board, Piece, Square) (Square, bool) { return Square{}, false }

func (RemoveCapture) Policy() CapturePolicy { return PolicyRemove }

// ConvertCapture flips the side of a captured piece and drops it on a random
// empty square. If the board is full the piece is discarded.
type ConvertCapture struct {
	rng *rand.Rand
}

func NewConvertCapture(rng *rand.Rand) *ConvertCapture {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &ConvertCapture{rng: rng}
}

func (c *ConvertCapture) ResolveCapture(b *Board, captured Piece, dest Square) (Square, bool) {
	empty := b.EmptySquares()
	if len(empty) == 0 {
		return Square{}, false
	}
	sq := empty[c.rng.Intn(len(empty))]
	b.Set(sq, Piece{Kind: captured.Kind, Side: captured.Side.Opposite()})
	return sq, true
}

func (c *ConvertCapture) Policy() CapturePolicy { return PolicyConvert }
