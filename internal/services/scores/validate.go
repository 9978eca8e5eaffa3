package scores

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/cybersnake/internal/model"
)

const (
	// MaxNameLength is the longest accepted name, in runes
	MaxNameLength = model.MaxNameLength
	// MaxPasswordLength is the bcrypt input limit, in bytes
	MaxPasswordLength = model.MaxPasswordBytes
)

// NormalizeName trims surrounding whitespace so " fox" and "fox" are the
// same player
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateCredential checks a normalised name and a password
func ValidateCredential(name, password string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", model.ErrValidation, MaxNameLength)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", model.ErrValidation)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", model.ErrValidation, MaxPasswordLength)
	}
	return nil
}

// ValidateScore rejects negative scores. Zero is a valid score.
func ValidateScore(score int) error {
	if score < 0 {
		return fmt.Errorf("%w: score must not be negative", model.ErrValidation)
	}
	return nil
}
