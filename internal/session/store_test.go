package session

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

func sq(s string) chess.Square { return chess.MustSquare(s) }

func TestCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour, zerolog.Nop())
	sess := store.Create(chess.NewGame())
	require.NotEmpty(t, sess.ID)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	store.Delete(sess.ID)
	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotTrail(t *testing.T) {
	store := NewStore(time.Hour, zerolog.Nop())
	g, err := chess.NewGameFromPreset(chess.PresetPromotion)
	require.NoError(t, err)
	sess := store.Create(g)

	_, err = sess.Apply(Anyone, sq("a7"), sq("a8"), chess.NoKind)
	require.NoError(t, err)
	_, err = sess.Promote(Anyone, chess.Queen)
	require.NoError(t, err)
	_, err = sess.Apply(Anyone, sq("e8"), sq("e7"), chess.NoKind)
	require.NoError(t, err)

	snaps := sess.Snapshots()
	require.Len(t, snaps, 4)
	assert.NotNil(t, snaps[1].Pending)
	assert.Nil(t, snaps[2].Pending)

	// undoing the promotion ply drops both the pending and the final position
	_, err = sess.Undo(Anyone)
	require.NoError(t, err)
	snap, err := sess.Undo(Anyone)
	require.NoError(t, err)
	snaps = sess.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, snaps[0], snap)

	_, err = sess.Undo(Anyone)
	assert.ErrorIs(t, err, chess.ErrNothingToUndo)
}

func TestRejectedMoveRecordsNothing(t *testing.T) {
	store := NewStore(time.Hour, zerolog.Nop())
	sess := store.Create(chess.NewGame())

	_, err := sess.Apply(Anyone, sq("e2"), sq("e5"), chess.NoKind)
	assert.Error(t, err)
	assert.Len(t, sess.Snapshots(), 1)
}

func TestExpiry(t *testing.T) {
	store := NewStore(time.Minute, zerolog.Nop())
	now := time.Now()
	store.now = func() time.Time { return now }

	idle := store.Create(chess.NewGame())
	busy := store.Create(chess.NewGame())

	now = now.Add(50 * time.Second)
	_, err := busy.Apply(Anyone, sq("e2"), sq("e4"), chess.NoKind)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = store.Get(idle.ID)
	assert.ErrorIs(t, err, ErrExpired)
	_, err = store.Get(busy.ID)
	assert.NoError(t, err)

	assert.Equal(t, 1, store.CleanupExpired())
	assert.Equal(t, 1, store.Len())
}

func TestConcurrentMoves(t *testing.T) {
	store := NewStore(time.Hour, zerolog.Nop())
	sess := store.Create(chess.NewGame())

	// Only one of the racing requests can play e2e4.
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sess.Apply(Anyone, sq("e2"), sq("e4"), chess.NoKind); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Len(t, sess.Snapshots(), 2)
	sess.View(func(g *chess.Game) {
		assert.Equal(t, chess.Dark, g.Turn())
	})
}

func TestActorChecks(t *testing.T) {
	store := NewStore(time.Hour, zerolog.Nop())
	sess := store.Create(chess.NewGame())

	_, err := sess.Apply(As(chess.Dark), sq("e2"), sq("e4"), chess.NoKind)
	assert.ErrorIs(t, err, chess.ErrNotYourTurn)

	_, err = sess.Apply(As(chess.Light), sq("e2"), sq("e4"), chess.NoKind)
	require.NoError(t, err)

	// only light may take back light's move
	_, err = sess.Undo(As(chess.Dark))
	assert.ErrorIs(t, err, chess.ErrNotYourTurn)
	_, err = sess.Undo(As(chess.Light))
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	store := NewStore(time.Hour, zerolog.Nop())
	now := time.Now()
	store.now = func() time.Time { return now }

	first := store.Create(chess.NewGame())
	now = now.Add(time.Second)
	second := store.Create(chess.NewGame())

	assert.Equal(t, []*Session{first, second}, store.List())
}
