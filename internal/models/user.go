package models

import "time"

// UserRole represents the four roles known to the reporting system. Roles
// are immutable after registration; there is no role-change endpoint.
type UserRole string

const (
	RoleStudent           UserRole = "student"
	RoleLecturer          UserRole = "lecturer"
	RolePrincipalLecturer UserRole = "principal_lecturer"
	RoleProgramLeader     UserRole = "program_leader"
)

// Valid reports whether the role is one of the four known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RolePrincipalLecturer, RoleProgramLeader:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	FullName     string    `db:"full_name" json:"full_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserInfo describes a user in responses without credential material.
type UserInfo struct {
	ID       string   `db:"id" json:"id"`
	Username string   `db:"username" json:"username"`
	Email    string   `db:"email" json:"email"`
	FullName string   `db:"full_name" json:"full_name"`
	Role     UserRole `db:"role" json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
