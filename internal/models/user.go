package models

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "ADMIN"

// User is the authenticated storefront user as reported by /api/auth/me.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin compares the role case-insensitively, ignoring stray whitespace the
// backend sometimes sends.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}

	return strings.ToUpper(strings.TrimSpace(u.Role)) == RoleAdmin
}

// CanShop reports whether the user owns a cart. Admins never do.
func (u *User) CanShop() bool {
	return u != nil && u.ID != 0 && !u.IsAdmin()
}

// SameIdentity is true when both values describe the same logged-in identity
// for gating purposes (same id, same admin status).
func SameIdentity(a, b *User) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.ID == b.ID && a.IsAdmin() == b.IsAdmin()
}

// for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// for login response
type LoginResponse struct {
	Success    bool   `json:"success"`
	User       *User  `json:"user,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
	Remaining  int    `json:"remaining_tries,omitempty"`
	Message    string `json:"message,omitempty"`
}

type SessionResponse struct {
	User    *User `json:"user"`
	IsAdmin bool  `json:"isAdmin"`
}

// ClientClaims are carried by the signed client-session cookie. ClientID keys
// the workspace and every durable record of that browser.
type ClientClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}
