// Package session keeps short-lived per-visitor state for the demo server.
//
// Sessions live in memory and expire after a period of inactivity. Every
// successful Get slides the expiry forward, and Cleanup evicts what has
// expired since the last sweep.
//
// # Usage
//
//	store := session.NewStore[*Demo](session.DefaultTTL)
//
//	sess, err := store.Create(ctx, newDemo())
//	if err != nil {
//	    return err
//	}
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
//	    // start over
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default idle lifetime of a session.
const DefaultTTL = 30 * time.Minute

// Session stores one visitor's value.
type Session[T any] struct {
	ID        string
	Value     T
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session had expired at now.
func (s *Session[T]) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store is an in-memory session store. It is safe for concurrent use; the
// values it holds must synchronize themselves.
type Store[T any] struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session[T]
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// A non-positive ttl uses DefaultTTL.
func NewStore[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session[T]),
	}
}

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// Create stores value under a fresh ID.
func (s *Store[T]) Create(ctx context.Context, value T) (*Session[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()
	sess := &Session[T]{
		ID:        GenerateID(),
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the session for id and extends its expiry. Expired sessions
// are removed and reported as ErrExpired.
func (s *Store[T]) Get(ctx context.Context, id string) (*Session[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if sess.IsExpired(now) {
		delete(s.sessions, id)
		return nil, ErrExpired
	}
	sess.ExpiresAt = now.Add(s.ttl)
	return sess, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Cleanup removes expired sessions and returns how many it removed.
func (s *Store[T]) Cleanup(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// TTL returns the idle lifetime of sessions.
func (s *Store[T]) TTL() time.Duration { return s.ttl }
