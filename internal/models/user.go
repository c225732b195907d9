package models

import "time"

type User struct {
	ID        int64      `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"` // Never expose in JSON
	Role      string     `json:"role" db:"role"`
	Service   *string    `json:"service,omitempty" db:"service"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
}

type UserRole string

const (
	RoleAdmin         UserRole = "admin"
	RoleTechnician    UserRole = "technicien"
	RoleCollaborateur UserRole = "collaborateur"
	RoleClient        UserRole = "client"
)

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleAdmin, RoleTechnician, RoleCollaborateur, RoleClient:
		return true
	}
	return false
}

// PublicUser is the profile projection returned by the auth endpoints.
type PublicUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}

// AssignableUser is the trimmed row exposed by the admin users list.
type AssignableUser struct {
	ID       int64   `json:"id" db:"id"`
	Username string  `json:"username" db:"username"`
	Email    string  `json:"email" db:"email"`
	Role     string  `json:"role" db:"role"`
	Service  *string `json:"service" db:"service"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *PublicUser `json:"user"`
}
