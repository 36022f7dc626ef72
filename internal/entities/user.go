package entities

import "strings"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account. Passwords are kept in clear text; this is a demo
// application and the snapshot format is shared with the browser frontend.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns a copy safe to expose over the API.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// PublicUser is a User without credentials.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NormalizeEmail lower-cases and trims an email address. Emails are compared
// in this form everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
