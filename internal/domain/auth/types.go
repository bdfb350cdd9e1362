package auth

// Package auth contains domain-level types for local accounts, tokens and dashboard tiles.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUsernameLength matches the users.username column width.
const MaxUsernameLength = 25

// Role represents an application's authorization role.
// It is derived from the stored admin flag, never persisted on its own.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a local account as stored by the backend.
// PasswordHash holds a bcrypt hash and never leaves the service layer.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Admin        bool   `json:"admin"`
	Active       bool   `json:"active"`
}

// Role returns the role implied by the admin flag.
func (u User) Role() Role {
	if u.Admin {
		return RoleAdmin
	}
	return RoleUser
}

// CanLogin reports whether the account may authenticate at all.
func (u User) CanLogin() bool { return u.Active && u.PasswordHash != "" }

// NormalizeUsername trims surrounding whitespace.
func NormalizeUsername(username string) string { return strings.TrimSpace(username) }

// UsernameTooLong reports whether username exceeds the stored column width.
func UsernameTooLong(username string) bool {
	return utf8.RuneCountInString(username) > MaxUsernameLength
}

// Session is the authenticated principal recovered from a valid authToken.
type Session struct {
	Username  string    `json:"username"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
