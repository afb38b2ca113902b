package utils

import (
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "\t", "")
)

// NormalizeUsername converts username to lowercase for storage and lookup
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail converts email to lowercase for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips surrounding whitespace plus inner spaces and hyphens.
func NormalizePhone(phone string) string {
	return phoneSeparators.Replace(strings.TrimSpace(phone))
}

// IsValidUsername expects an already normalized username.
// Rules: 3-20 characters of lowercase letters, digits and underscores.
func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone accepts an optional leading "+" and 8-15 digits, the first non-zero.
// Spaces and hyphens are ignored.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(NormalizePhone(phone))
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateUsername validates a raw username and returns a field error
// suitable for showing to the user.
func ValidateUsername(username string) error {
	normalized := NormalizeUsername(username)

	if len(normalized) < MinUsernameLength {
		return &ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	}

	if len(normalized) > MaxUsernameLength {
		return &ValidationError{Field: "username", Message: "Username must be at most 20 characters"}
	}

	if !IsValidUsername(normalized) {
		return &ValidationError{Field: "username", Message: "Use 3-20 chars: lowercase letters, numbers, underscore."}
	}

	return nil
}
