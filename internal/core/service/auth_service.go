package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/unityscripts/script-library/internal/api/metrics"
	"github.com/unityscripts/script-library/internal/core/domain"
	"github.com/unityscripts/script-library/internal/core/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sessionIDBytes    = 32
)

// AuthConfig holds the admin credential and session lifetime.
type AuthConfig struct {
	AdminUsername     string
	AdminPasswordHash string
	SessionTTL        time.Duration
}

// AuthService implements password login for the single admin account.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	username   string
	secretHash []byte
	sessionTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, cfg AuthConfig, log zerolog.Logger) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		username:   cfg.AdminUsername,
		secretHash: []byte(cfg.AdminPasswordHash),
		sessionTTL: ttl,
		now:        time.Now,
		log:        log,
	}
}

// Login checks password against the admin hash. bcrypt compares in constant
// time, so a wrong password takes as long as a right one.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	if password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.secretHash, []byte(password)); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		s.log.Info().Str("username", username).Msg("login rejected")
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, s.username)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("login: resolve admin: %w", err)
	}

	id, err := newSessionID()
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("login: session id: %w", err)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        id,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("login: store session: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", user.ID).Msg("session opened")
	return session, user.Profile(), nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Identify never fails with anything but domain.ErrUnauthenticated: a broken
// or missing session is an anonymous caller.
func (s *AuthService) Identify(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrSessionExpired) {
			s.log.Warn().Err(err).Msg("session lookup failed, treating caller as anonymous")
		}
		return nil, domain.ErrUnauthenticated
	}
	if session.IsExpired(s.now()) {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Int64("user_id", session.UserID).Msg("user lookup failed")
		}
		return nil, domain.ErrUnauthenticated
	}
	return user.Profile(), nil
}

// HashPassword returns the bcrypt hash stored for the admin credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SeedAdmin creates the admin user unless a user with that name already exists.
func SeedAdmin(ctx context.Context, users ports.UserRepository, username, passwordHash string) (*domain.User, error) {
	existing, err := users.GetUserByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	user, err := users.CreateUser(ctx, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return user, nil
}

// newSessionID returns 32 random bytes, base64 RawURL encoded.
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
