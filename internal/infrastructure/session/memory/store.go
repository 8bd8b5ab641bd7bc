// Package memory keeps login sessions in process memory.
//
// Expiry is checked on every read; StartPruner additionally removes expired
// entries on a fixed period so abandoned sessions do not accumulate.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/unityscripts/script-library/internal/api/metrics"
	"github.com/unityscripts/script-library/internal/core/domain"
)

// Store implements ports.SessionStore.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

func (s *Store) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired(s.now()) {
		return nil, domain.ErrSessionExpired
	}
	return session.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune removes every session expired at now and returns how many were dropped.
func (s *Store) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartPruner runs Prune every interval until ctx is cancelled.
func (s *Store) StartPruner(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Prune(s.now()); n > 0 {
					metrics.SessionsPrunedTotal.Add(float64(n))
					log.Info().Int("removed", n).Msg("pruned expired sessions")
				}
			}
		}
	}()
}
