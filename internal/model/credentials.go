package model

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// CodeGenerator produces one-time secrets.
type CodeGenerator interface {
	OTP() (string, error)
	ResetToken() (string, error)
}
