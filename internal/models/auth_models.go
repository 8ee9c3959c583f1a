package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Role gates period creation and deletion.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account in the system.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name" db:"name"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means never sent in JSON responses
	Role         string    `json:"role" db:"role"`       // "admin" or "user"
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
