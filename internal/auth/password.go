// Package auth provides credential hashing and session token management.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters; the derived key and salt are stored together as
// "<hex_key>.<hex_salt>".
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// HashPassword derives a key from the password with a fresh random salt
// and returns the encoded "<hex_key>.<hex_salt>" string.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("deriving key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// VerifyPassword re-derives the key from the supplied password and the
// stored salt and compares in constant time. Any malformed stored value
// fails closed: the result is false, never an error or panic.
func VerifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, ".", 2)
	if len(parts) != 2 {
		return false
	}

	storedKey, err := hex.DecodeString(parts[0])
	if err != nil || len(storedKey) == 0 {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return false
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(storedKey))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, storedKey) == 1
}
