package entities

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleClient  Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleClient
}

// IsStaff reports whether the role may price, approve and send quotations.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session identifies the authenticated caller of an operation.
type Session struct {
	UserID    string
	Role      Role
	SessionID string
	ExpiresAt time.Time
}

// Actor returns the user id as a history author.
func (s Session) Actor() *string {
	id := s.UserID
	return &id
}
