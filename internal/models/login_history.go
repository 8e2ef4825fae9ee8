package models

import "time"

// LoginHistory records one successful login. Written fire-and-forget: a
// failed insert never fails the login itself.
type LoginHistory struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	LoginAt time.Time `json:"login_at"`
}
