package domain

import "time"

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is no longer usable at t.
func (s *Session) IsExpired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// Clone returns a copy so stores never hand out their own pointers.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
