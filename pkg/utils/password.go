package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLength = 16
	keyLength  = 64

	// Same cost parameters as node's scryptSync defaults so existing
	// password documents keep verifying.
	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// HashPassword derives a 64-byte scrypt key from password using a fresh
// random salt. Both values are returned hex-encoded for storage.
func HashPassword(password string) (hash string, salt string, err error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)

	key, err := deriveKey(password, salt)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword re-derives the key with the stored salt and compares it
// to expectedHash in constant time. Malformed or mismatched-length hashes
// are simply "not equal".
func VerifyPassword(password, salt, expectedHash string) bool {
	expected, err := hex.DecodeString(expectedHash)
	if err != nil {
		return false
	}

	computed, err := deriveKey(password, salt)
	if err != nil {
		return false
	}

	if len(computed) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// The salt is used in its hex text form, matching how it is persisted.
func deriveKey(password, salt string) ([]byte, error) {
	return scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLength)
}
