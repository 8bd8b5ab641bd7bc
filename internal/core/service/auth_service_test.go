package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	err    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *stubUserRepo) CreateUser(_ context.Context, username, hash string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return nil, domain.ErrUserExists
		}
	}
	u := &domain.User{ID: r.nextID, Username: username, PasswordHash: hash}
	r.users[u.ID] = u
	r.nextID++
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) GetUser(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubSessionStore struct {
	sessions map[string]*domain.Session
	getErr   error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const testPassword = "Luna2007!"

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubSessionStore) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	users := newStubUserRepo()
	sessions := newStubSessionStore()
	if _, err := SeedAdmin(context.Background(), users, "admin", string(hash)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewAuthService(users, sessions, AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		SessionTTL:        time.Hour,
	}, zerolog.Nop())
	return svc, users, sessions
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)

	session, user, err := svc.Login(context.Background(), "anything", testPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != domain.AdminUserID || user.Username != "admin" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatalf("profile must not carry the password hash")
	}
	if session.UserID != user.ID {
		t.Fatalf("session bound to %d, want %d", session.UserID, user.ID)
	}
	if got := session.ExpiresAt.Sub(session.CreatedAt); got != time.Hour {
		t.Fatalf("unexpected session ttl: %v", got)
	}
	if _, ok := sessions.sessions[session.ID]; !ok {
		t.Fatalf("session was not stored")
	}
}

func TestAuthService_Login_UniqueSessionIDs(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	a, _, err := svc.Login(context.Background(), "", testPassword)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := svc.Login(context.Background(), "", testPassword)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("session ids must differ")
	}
}

func TestAuthService_Login_Rejected(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)

	for _, pw := range []string{"", "wrong", testPassword + " "} {
		if _, _, err := svc.Login(context.Background(), "admin", pw); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("password %q: expected ErrInvalidCredentials, got %v", pw, err)
		}
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("no session may be created on failure")
	}
}

func TestAuthService_Login_AdminMissing(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.users = map[int64]*domain.User{}

	_, _, err := svc.Login(context.Background(), "", testPassword)
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

func TestAuthService_Identify(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	session, _, err := svc.Login(ctx, "", testPassword)
	if err != nil {
		t.Fatal(err)
	}

	user, err := svc.Identify(ctx, session.ID)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if user.Username != "admin" || user.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Identify(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("empty id: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Identify(ctx, "unknown"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("unknown id: expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Identify_Expired(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	session, _, err := svc.Login(ctx, "", testPassword)
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return session.ExpiresAt }
	if _, err := svc.Identify(ctx, session.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated at expiry, got %v", err)
	}
}

func TestAuthService_Identify_StoreFailure(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	sessions.getErr = errors.New("redis: connection refused")

	if _, err := svc.Identify(context.Background(), "sid"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()

	session, _, err := svc.Login(ctx, "", testPassword)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(ctx, session.ID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("session was not removed")
	}
	if _, err := svc.Identify(ctx, session.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}

	// Idempotent, and a no-op without a session.
	if err := svc.Logout(ctx, session.ID); err != nil {
		t.Fatalf("second Logout returned error: %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("anonymous Logout returned error: %v", err)
	}
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	users := newStubUserRepo()
	ctx := context.Background()

	first, err := SeedAdmin(ctx, users, "admin", "hash")
	if err != nil {
		t.Fatal(err)
	}
	second, err := SeedAdmin(ctx, users, "admin", "other")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != domain.AdminUserID || second.ID != first.ID {
		t.Fatalf("expected the same admin, got %d and %d", first.ID, second.ID)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected one user, got %d", len(users.users))
	}
}

func TestSeedAdmin_RepoFailure(t *testing.T) {
	users := newStubUserRepo()
	users.err = errors.New("mongo down")

	if _, err := SeedAdmin(context.Background(), users, "admin", "hash"); err == nil {
		t.Fatal("expected error")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword(testPassword)
	if err != nil {
		t.Fatal(err)
	}
	if hash == testPassword {
		t.Fatal("password was not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(testPassword)); err != nil {
		t.Fatalf("hash does not match: %v", err)
	}
}
