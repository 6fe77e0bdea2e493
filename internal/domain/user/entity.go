package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	IsEmployer   bool
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role reports the primary role. Admin wins over employer.
func (u User) Role() Role {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.IsEmployer:
		return RoleEmployer
	default:
		return RoleCandidate
	}
}
