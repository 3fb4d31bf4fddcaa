package models

import "time"

// Role classifies a profile for presentation gating and RBAC checks.
type Role string

const (
	// RoleNone is resolved when no profile row exists or resolution fails.
	RoleNone      Role = ""
	RoleStudent   Role = "student"
	RoleCommittee Role = "committee"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the known classifications.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCommittee, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether the role may triage records.
func (r Role) Privileged() bool {
	return r == RoleCommittee || r == RoleAdmin
}

// User is a profile row: one per identity, carrying the role classification.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         Role       `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
