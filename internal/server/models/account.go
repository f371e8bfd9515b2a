// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is an identity record. PasswordHash is produced only by the
// password hasher; the auth core never mutates an account after creation.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
