package domain

import "time"

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token issued by the API.
type LoginResponse struct {
	Token string `json:"token"`
}

// Claims is a display-only view of the session token payload.
// The token itself stays opaque; nothing authorizes on these fields.
type Claims struct {
	UserID    int
	IsAdmin   bool
	ExpiresAt time.Time
}

// Expired reports whether the claims carry an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
