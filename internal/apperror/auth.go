package apperror

import "fmt"

// Messages matched by clients to detect terminal session failures.
const (
	MsgUserBlocked  = "User is Blocked"
	MsgInvalidToken = "Invalid token"
	MsgForbidden    = "Unauthorized"
	MsgTokenExpired = "Token expired"
)

func NewErrEmailTaken(email string) *Error {
	return Conflict(fmt.Sprintf("User with email %s already exists", email))
}

func NewErrUserNotFound() *Error {
	return NotFound("User not found")
}

func NewErrInvalidPassword() *Error {
	return Forbidden("Invalid password")
}

func NewErrUserBlocked() *Error {
	return Unauthorized(MsgUserBlocked)
}

func NewErrOTPNotFound() *Error {
	return NotFound("OTP expired or not found")
}

func NewErrInvalidOTP() *Error {
	return BadRequest("Invalid OTP")
}

func NewErrResetTokenExpired() *Error {
	return NotFound("Reset token expired or invalid")
}

func NewErrMissingRefreshToken() *Error {
	return BadRequest("Refresh token not found")
}

func NewErrInvalidRefreshToken() *Error {
	return Forbidden("Invalid refresh token")
}

func NewErrMissingAccessToken() *Error {
	return Unauthorized("Access token is missing")
}

func NewErrAccessTokenExpired() *Error {
	return Unauthorized(MsgTokenExpired)
}

func NewErrInvalidAccessToken() *Error {
	return Unauthorized(MsgInvalidToken)
}

func NewErrRoleForbidden() *Error {
	return Forbidden(MsgForbidden)
}

func NewErrUserCreation() *Error {
	return Conflict("Failed to create user")
}

func NewErrDelivery() *Error {
	return Delivery("Failed to send email")
}
