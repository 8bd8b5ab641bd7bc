package domain

// AdminUserID is the identifier the seeded admin receives in a fresh store.
const AdminUserID int64 = 1

// User models the single authenticated actor of the library.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Profile returns a copy of the user that is safe to hand to callers.
func (u *User) Profile() *User {
	return &User{ID: u.ID, Username: u.Username}
}
