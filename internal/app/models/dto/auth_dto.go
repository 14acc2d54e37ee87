package dto

import "github.com/weiting/stellact/internal/app/models"

// RegisterRequest is the payload for creating a new account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Avatar   string `json:"avatar" binding:"omitempty,url"`
}

// LoginRequest is the payload for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a signed session token and the public user record
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// MeResponse wraps the authenticated user's public record
type MeResponse struct {
	User *models.User `json:"user"`
}
