package memory

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityscripts/script-library/internal/core/domain"
)

func session(id string, expiresAt time.Time) *domain.Session {
	return &domain.Session{ID: id, UserID: 1, CreatedAt: expiresAt.Add(-time.Hour), ExpiresAt: expiresAt}
}

func TestStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Create(ctx, session("abc", time.Now().Add(time.Hour))))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UserID)

	require.NoError(t, s.Delete(ctx, "abc"))
	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_Delete_Unknown(t *testing.T) {
	s := NewStore()
	assert.NoError(t, s.Delete(context.Background(), "nope"))
}

func TestStore_Get_Expired(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Create(ctx, session("old", time.Now().Add(-time.Minute))))

	_, err := s.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestStore_Get_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Create(ctx, session("abc", time.Now().Add(time.Hour))))

	got, _ := s.Get(ctx, "abc")
	got.UserID = 99

	again, _ := s.Get(ctx, "abc")
	assert.Equal(t, int64(1), again.UserID)
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()
	require.NoError(t, s.Create(ctx, session("live", now.Add(time.Hour))))
	require.NoError(t, s.Create(ctx, session("dead1", now.Add(-time.Hour))))
	require.NoError(t, s.Create(ctx, session("dead2", now.Add(-time.Second))))

	assert.Equal(t, 2, s.Prune(now))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Prune(now))
}

func TestStore_StartPruner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStore()
	require.NoError(t, s.Create(ctx, session("dead", time.Now().Add(-time.Hour))))

	s.StartPruner(ctx, 10*time.Millisecond, zerolog.Nop())

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 10*time.Millisecond)
}
