package ports

import (
	"context"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// SessionStore keeps login sessions.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	// Get returns domain.ErrSessionNotFound or domain.ErrSessionExpired when
	// the session cannot be used.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
}
