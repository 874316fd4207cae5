// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account holder. PasswordHash and Avatar never leave the server:
// they are excluded from the JSON representation.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
