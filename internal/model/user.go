package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a user's access level.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	List(ctx context.Context, filter UserFilter) ([]User, int, error)
	ToggleBlocked(ctx context.Context, id uuid.UUID) (User, error)
	SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int64, error)
}

// User represents a stored user with authentication material.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsBlocked    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStatus filters users by blocked flag.
type UserStatus string

const (
	UserStatusAny     UserStatus = ""
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// UserFilter narrows a user listing. Page is 1-based.
type UserFilter struct {
	Search string
	Role   Role
	Status UserStatus
	Page   int
	Limit  int
}

// Offset returns the number of rows to skip for the filter's page.
func (f UserFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// UserPage is a page of users with the total number of matches.
type UserPage struct {
	Users []User
	Page  int
	Limit int
	Total int
}
