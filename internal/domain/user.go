package domain

import (
	"regexp"
	"time"
)

// User represents a registered player account. PasswordHash never leaves
// the service layer; JSON serialization omits it.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest represents a request to create a new account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdate carries the mutable display fields of a profile.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

// AuthResult is returned from register and login
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateUsername checks the 3-20 alphanumeric/underscore username format
func ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}
	return usernameRe.MatchString(username)
}

// ValidateEmail checks the email format
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePassword checks password length bounds
func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

// DefaultEmail returns the fallback email for accounts registered
// without one.
func DefaultEmail(username string) string {
	return username + "@retrogamecloud.local"
}
