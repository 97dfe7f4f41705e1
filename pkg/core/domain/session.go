package domain

import "time"

// Session is the identity asserted by a valid session cookie
type Session struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
