package models

// Role is the coarse permission level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User defines a registered account. Emails are stored lowercased and are
// unique case-insensitively. The password hash never leaves the backend.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}
