package handler

import (
	"time"

	"github.com/dtroode/quizhub-server/internal/model"
)

type registerRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128,password"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,otp"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required,max=500"`
	Password string `json:"password" validate:"required,min=8,max=128,password"`
}

type bulkBlockRequest struct {
	IDs       []string `json:"ids" validate:"required,min=1,dive,uuid"`
	IsBlocked *bool    `json:"isBlocked" validate:"required"`
}

type listUsersQuery struct {
	Search string `query:"search" json:"search" validate:"omitempty,max=100"`
	Role   string `query:"role" json:"role" validate:"omitempty,oneof=admin user"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=active blocked"`
	Page   int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" json:"limit" validate:"omitempty,min=1"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsBlocked bool      `json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsBlocked: u.IsBlocked,
		CreatedAt: u.CreatedAt,
	}
}

type sessionResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type emailResponse struct {
	Email string `json:"email"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type usersResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination pagination     `json:"pagination"`
}

type bulkBlockResponse struct {
	Updated int64 `json:"updated"`
}
