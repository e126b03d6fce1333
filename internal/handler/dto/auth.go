// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/inkpress/inkpress/internal/model"

// SignupRequest represents the request body for POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse wraps the safe user projection.
type UserResponse struct {
	User *model.SafeUser `json:"user"`
}

// MessageResponse is a simple message body.
type MessageResponse struct {
	Message string `json:"message"`
}
