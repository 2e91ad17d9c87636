package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Valid reports whether r is a role the backend knows.
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Address  string   `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Role     UserRole `json:"role,omitempty"` // back office only
}

// AuthPayload is the body returned by the login endpoint.
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ProfileUpdate struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserUpdate is the admin-side edit of another account.
type UserUpdate struct {
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Role    UserRole `json:"role,omitempty"`
	Address string   `json:"address,omitempty"`
	Phone   string   `json:"phone,omitempty"`
}
