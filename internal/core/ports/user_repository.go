package ports

import (
	"context"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// CreateUser assigns the next user id. Returns domain.ErrUserExists when
	// the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
