package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a user can hold. There is no hierarchy between roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole converts a raw string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Satisfies reports whether a caller holding r passes a gate that requires the given role.
// Admin does not satisfy a student gate and student does not satisfy an admin gate.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case RoleStudent:
		return r == RoleStudent
	case RoleAdmin:
		return r == RoleAdmin
	default:
		return false
	}
}

// User represents a registered account
type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	Role           Role       `json:"role" db:"role"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	DeletedAt      *time.Time `json:"-" db:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active User instance
func NewUser(name, email, hashedPassword string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsDeleted returns true if the user has been soft-deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// NormalizeEmail trims and lower-cases an email so lookups and uniqueness ignore case
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
