// Package validate holds the field rules shared by every write endpoint.
// The Is* functions are pure and usable on their own; the validator engine in
// engine.go exposes them as struct tags.
package validate

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var (
	telRe       = regexp.MustCompile(`^09\d{8}$`)
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	recipientRe = regexp.MustCompile(`^[\p{L}\p{N}]{2,50}$`)
	digitRe     = regexp.MustCompile(`\d`)
	lowerRe     = regexp.MustCompile(`[a-z]`)
	upperRe     = regexp.MustCompile(`[A-Z]`)
)

// IsValidString reports whether s is non-blank and its trimmed length in runes
// lies in [min, max]. max <= 0 means no upper bound.
func IsValidString(s string, min, max int) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return false
	}
	n := utf8.RuneCountInString(t)
	if n < min {
		return false
	}
	return max <= 0 || n <= max
}

// IsValidInteger accepts whole numbers in 0..math.MaxInt32.
func IsValidInteger(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= 0 && v <= math.MaxInt32 && v == math.Trunc(v)
}

func IsValidTel(s string) bool {
	return telRe.MatchString(s)
}

func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidPassword requires 8-32 characters with at least one digit, one
// lowercase and one uppercase letter.
func IsValidPassword(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 8 || n > 32 {
		return false
	}
	return digitRe.MatchString(s) && lowerRe.MatchString(s) && upperRe.MatchString(s)
}

func IsValidRecipient(s string) bool {
	return recipientRe.MatchString(s)
}

func IsValidHTTPS(s string) bool {
	return strings.HasPrefix(s, "https://") && len(s) > len("https://")
}

func IsValidUUID(s string) bool {
	if !IsValidString(s, 1, 0) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func IsValidPaymentMethod(v float64) bool {
	return IsValidInteger(v) && v >= 1 && v <= 3
}

// IsValidStringArray requires a non-empty slice whose every element passes
// IsValidString(elem, min, max).
func IsValidStringArray(items []string, min, max int) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !IsValidString(it, min, max) {
			return false
		}
	}
	return true
}

// RoleFromString maps the public role names onto stored roles.
func RoleFromString(s string) (string, bool) {
	switch s {
	case "admin":
		return RoleAdmin, true
	case "user":
		return RoleUser, true
	}
	return "", false
}
