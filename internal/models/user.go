package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never rendered
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller, derived from the session cookie and
// passed explicitly into services instead of living in ambient state.
type Identity struct {
	UserID int64
	Name   string
}
