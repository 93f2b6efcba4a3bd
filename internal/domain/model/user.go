package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Projection is the subset of a user record safe to return to clients.
type Projection struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() Projection {
	return Projection{ID: u.ID, Username: u.Username, Email: u.Email}
}
