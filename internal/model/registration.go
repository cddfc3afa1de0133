package model

import (
	"context"
	"time"
)

// RegistrationStore keeps sign-ups awaiting OTP confirmation, keyed by email.
type RegistrationStore interface {
	// Save stores reg under its email, replacing any previous one.
	Save(ctx context.Context, reg PendingRegistration, ttl time.Duration) error
	// Replace rewrites an existing registration and resets its TTL.
	// It returns ErrNotFound when nothing is stored for the email.
	Replace(ctx context.Context, reg PendingRegistration, ttl time.Duration) error
	Get(ctx context.Context, email string) (PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

// PendingRegistration is a sign-up that has not been confirmed yet.
type PendingRegistration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
	OTP          string `json:"otp"`
}

// ResetTokenStore keeps password reset tokens mapped to the target email.
type ResetTokenStore interface {
	Save(ctx context.Context, token, email string, ttl time.Duration) error
	// Consume returns the token's email and removes the token in one step.
	// Only one caller can consume a given token.
	Consume(ctx context.Context, token string) (string, error)
}
