// Package memory provides the process-local Data Store.
//
// Users and scripts live in maps keyed by id with one counter per entity type.
// Counters only move forward, so an id is never handed out twice during the
// lifetime of a Store. Everything is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// Store implements ports.UserRepository and ports.ScriptRepository.
type Store struct {
	mu sync.RWMutex

	users   map[int64]*domain.User
	scripts map[int64]*domain.Script

	nextUserID   int64
	nextScriptID int64
}

// NewStore returns an empty store whose first ids are 1.
func NewStore() *Store {
	return &Store{
		users:        make(map[int64]*domain.User),
		scripts:      make(map[int64]*domain.Script),
		nextUserID:   1,
		nextScriptID: 1,
	}
}

func (s *Store) CreateUser(_ context.Context, username, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, domain.ErrUserExists
		}
	}

	user := &domain.User{ID: s.nextUserID, Username: username, PasswordHash: passwordHash}
	s.nextUserID++
	s.users[user.ID] = user

	clone := *user
	return &clone, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateScript(_ context.Context, in domain.NewScript) (*domain.Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	script := &domain.Script{
		ID:          s.nextScriptID,
		Name:        in.Name,
		Description: in.Description,
		Code:        in.Code,
	}
	s.nextScriptID++
	s.scripts[script.ID] = script

	clone := *script
	return &clone, nil
}

func (s *Store) GetScript(_ context.Context, id int64) (*domain.Script, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	script, ok := s.scripts[id]
	if !ok {
		return nil, domain.ErrScriptNotFound
	}
	clone := *script
	return &clone, nil
}

func (s *Store) ListScripts(_ context.Context) ([]*domain.Script, error) {
	s.mu.RLock()
	out := make([]*domain.Script, 0, len(s.scripts))
	for _, script := range s.scripts {
		clone := *script
		out = append(out, &clone)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteScript(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scripts[id]; !ok {
		return false, nil
	}
	delete(s.scripts, id)
	return true, nil
}
