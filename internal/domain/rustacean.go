package domain

import "time"

// Rustacean is a persisted roster record. ID and CreatedAt are assigned by
// the database and never taken from client input.
type Rustacean struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRustacean is the creation payload. It deliberately has no ID or
// CreatedAt field, so a client cannot smuggle server-assigned values in.
type NewRustacean struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
