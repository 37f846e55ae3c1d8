package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150" example:"alice"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"correct-horse-battery"`
}

// LoginRequest represents the request to sign in
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"correct-horse-battery"`
}

// UserResponse represents a user
type UserResponse struct {
	UserID   uuid.UUID `json:"userId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Username string    `json:"username" example:"alice"`
}

// AuthResponse carries an access token for the signed-in user
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
	Notices     []Notice     `json:"notices,omitempty"`
}
