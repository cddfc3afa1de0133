// Package random generates one-time codes and tokens.
package random

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"

	"github.com/dtroode/quizhub-server/internal/model"
)

const (
	otpAlphabet      = "0123456789"
	otpDigits        = 6
	resetTokenLength = 21
)

var _ model.CodeGenerator = (*Generator)(nil)

// Generator produces OTP codes and password reset tokens. Both draw from
// crypto/rand.
type Generator struct {
	otp        func() string
	resetToken func() string
}

// NewGenerator creates a Generator.
func NewGenerator() (*Generator, error) {
	otp, err := nanoid.CustomASCII(otpAlphabet, otpDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to create otp generator: %w", err)
	}

	token, err := nanoid.Standard(resetTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create token generator: %w", err)
	}

	return &Generator{otp: otp, resetToken: token}, nil
}

// OTP returns a 6-digit numeric code. Leading zeros are kept.
func (g *Generator) OTP() (string, error) {
	return g.otp(), nil
}

// ResetToken returns a URL-safe token with 126 bits of entropy.
func (g *Generator) ResetToken() (string, error) {
	return g.resetToken(), nil
}
