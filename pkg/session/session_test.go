package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*Store[int], *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore[int](ttl)
	s.now = c.now
	return s, c
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Minute)

	sess, err := s.Create(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Same(t, sess, got)
	require.Equal(t, 7, got.Value)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetSlidesExpiry(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(time.Minute)
	sess, _ := s.Create(ctx, 1)

	c.t = c.t.Add(50 * time.Second)
	_, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)

	c.t = c.t.Add(50 * time.Second)
	_, err = s.Get(ctx, sess.ID)
	require.NoError(t, err, "the previous Get extended the session")

	c.t = c.t.Add(2 * time.Minute)
	_, err = s.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrExpired)
	require.Equal(t, 0, s.Len())
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	s, c := newTestStore(time.Minute)
	old, _ := s.Create(ctx, 1)
	c.t = c.t.Add(45 * time.Second)
	fresh, _ := s.Create(ctx, 2)

	c.t = c.t.Add(30 * time.Second)
	n, err := s.Cleanup(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.Get(ctx, old.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(0)
	require.Equal(t, DefaultTTL, s.TTL())

	sess, _ := s.Create(ctx, 1)
	require.NoError(t, s.Delete(ctx, sess.ID))
	require.NoError(t, s.Delete(ctx, sess.ID))
	require.Equal(t, 0, s.Len())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newTestStore(time.Minute)

	_, err := s.Create(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	_, err = s.Cleanup(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
