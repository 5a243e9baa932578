package dto

import (
	"time"

	"tareasSync/internal/models/user"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

func FromUser(u *user.User) UserResponse {
	created := u.CreatedAt
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: &created,
	}
}

// FromUserShort ответ на вход, без даты регистрации.
func FromUserShort(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}
