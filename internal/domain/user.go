// Package domain defines the core entities of the Off The Record server.
package domain

import "time"

// User is a registered account. Usernames are unique; the password is only
// ever stored as an argon2id hash.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
