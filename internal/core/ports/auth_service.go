package ports

import (
	"context"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// AuthService implements the login state machine.
type AuthService interface {
	// Login verifies password and opens a session for the admin user.
	// The username is accepted for compatibility and ignored.
	Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	// Logout destroys the session. An empty or unknown id is not an error.
	Logout(ctx context.Context, sessionID string) error
	// Identify resolves a session id to its user, or domain.ErrUnauthenticated.
	Identify(ctx context.Context, sessionID string) (*domain.User, error)
}
