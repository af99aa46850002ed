// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account holder. PasswordHash is a bcrypt digest; SecretKey is
// the user's AES key sealed under the server master key; TOTPSecret, when
// set, is sealed under the user's own secret key.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	SecretKey    string
	ProfileURL   string
	TOTPSecret   string
	TOTPEnabled  bool
	CreatedAt    time.Time
}
