package entity

import (
	"time"
)

// User is the credential record owned by the credential store. At most one
// non-nil RefreshTokenHash exists per user at any time; nil means no active
// refresh session (logged out or revoked).
type User struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash *string   `json:"-"`
	Role             Role      `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewUser(id int64, name, email, passwordHash string, role Role) *User {
	now := time.Now()
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasActiveRefreshSession reports whether a refresh token can currently be
// redeemed for this user.
func (u *User) HasActiveRefreshSession() bool {
	return u.RefreshTokenHash != nil
}
