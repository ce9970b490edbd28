// Package session keeps live games in memory and serializes access to each.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

var (
	ErrNotFound = errors.New("game not found")
	ErrExpired  = errors.New("game expired")
)

// Session is one game plus the snapshot trail used for archives. All access
// to the game goes through the session's lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	game       *chess.Game
	snapshots  []chess.Snapshot
	plyMarks   []int
	lastActive time.Time
	now        func() time.Time
}

// Actor is whoever acts on a session: one side, or anyone when player tokens
// are not in use.
type Actor struct {
	Side chess.Side
	Any  bool
}

var Anyone = Actor{Any: true}

func As(side chess.Side) Actor { return Actor{Side: side} }

func (a Actor) may(side chess.Side) error {
	if a.Any || a.Side == side {
		return nil
	}
	return fmt.Errorf("%w: %s cannot act for %s", chess.ErrNotYourTurn, a.Side, side)
}

// toAct is the side whose input the game is waiting for.
func toAct(g *chess.Game) chess.Side {
	if p := g.Pending(); p != nil {
		return p.Side
	}
	return g.Turn()
}

// Apply plays a move for actor and records the resulting position.
func (s *Session) Apply(actor Actor, from, to chess.Square, promotion chess.PieceKind) (*chess.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := actor.may(toAct(s.game)); err != nil {
		return nil, err
	}
	res, err := s.game.ApplyMove(from, to, promotion)
	if err != nil {
		return nil, err
	}
	s.plyMarks = append(s.plyMarks, len(s.snapshots))
	s.record()
	return res, nil
}

// Promote completes a pending promotion.
func (s *Session) Promote(actor Actor, kind chess.PieceKind) (*chess.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := actor.may(toAct(s.game)); err != nil {
		return nil, err
	}
	res, err := s.game.Promote(kind)
	if err != nil {
		return nil, err
	}
	s.record()
	return res, nil
}

// Undo takes back the last ply and drops the snapshots it produced. Only the
// side that made the ply may take it back.
func (s *Session) Undo(actor Actor) (chess.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastMover := s.game.Turn().Opposite()
	if p := s.game.Pending(); p != nil {
		lastMover = p.Side
	}
	if err := actor.may(lastMover); err != nil {
		return chess.Snapshot{}, err
	}
	if err := s.game.Undo(); err != nil {
		return chess.Snapshot{}, err
	}
	if n := len(s.plyMarks); n > 0 {
		s.snapshots = s.snapshots[:s.plyMarks[n-1]]
		s.plyMarks = s.plyMarks[:n-1]
	}
	s.lastActive = s.now()
	return s.game.Snapshot(), nil
}

func (s *Session) record() {
	s.snapshots = append(s.snapshots, s.game.Snapshot())
	s.lastActive = s.now()
}

// View runs fn while holding the session lock. fn must not keep g.
func (s *Session) View(fn func(g *chess.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

// Snapshots returns every position of the game so far, oldest first.
func (s *Session) Snapshots() []chess.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chess.Snapshot(nil), s.snapshots...)
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive) > ttl
}

// Store manages game sessions
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewStore creates a store whose sessions expire after ttl without activity.
func NewStore(ttl time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create stores g under a new random ID.
func (s *Store) Create(g *chess.Game) *Session {
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		game:       g,
		snapshots:  []chess.Snapshot{g.Snapshot()},
		lastActive: now,
		now:        s.now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug().Str("gameID", sess.ID).Msg("Session created")
	return sess
}

// Get retrieves a session by ID
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, exists := s.sessions[id]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	if sess.expired(s.now(), s.ttl) {
		return nil, ErrExpired
	}
	return sess, nil
}

// Delete removes a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// List returns the live sessions, oldest first.
func (s *Store) List() []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupExpired removes all expired sessions and returns how many went.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.expired(now, s.ttl) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("Expired sessions cleaned up")
	}
	return removed
}

// StartCleanupRoutine periodically removes expired sessions until ctx is done.
func (s *Store) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired()
			}
		}
	}()
}
