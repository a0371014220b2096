package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSnapshot is the part of a user copied into a rental when it starts.
type UserSnapshot struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
