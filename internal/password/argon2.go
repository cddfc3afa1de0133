package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/quizhub-server/internal/model"
)

const (
	algorithmID = "argon2id"
	saltLength  = 16
	keyLength   = 32
)

var errInvalidHash = errors.New("invalid password hash")

var _ model.PasswordHasher = (*Argon2)(nil)

// Argon2 hashes passwords with argon2id and encodes them in PHC format.
type Argon2 struct {
	time   uint32
	memory uint32
	par    uint8
}

// NewArgon2 creates a hasher with the given cost parameters.
func NewArgon2(time, memKiB uint32, par uint8) *Argon2 {
	return &Argon2{time: time, memory: memKiB, par: par}
}

// Hash returns the PHC encoded argon2id hash of password.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, a.time, a.memory, a.par, keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version, a.memory, a.time, a.par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash. Parameters are taken
// from the hash, so hashes made with older settings keep verifying.
func (a *Argon2) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		return false, errInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errInvalidHash
	}

	var memory, time uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &par); err != nil {
		return false, errInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false, errInvalidHash
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, par, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}
