package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"rentcar/pkg/sanitizer"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
)

const passwordSpecials = "@$!%*?&"

// ValidateName checks the visible length bounds on an account name.
func ValidateName(name string) string {
	length := utf8.RuneCountInString(strings.TrimSpace(name))
	if length < 2 || length > 50 {
		return "Name must be between 2 and 50 characters"
	}
	return ""
}

func ValidateEmail(email string) string {
	if email == "" || !emailPattern.MatchString(email) {
		return "Please provide a valid email address"
	}
	return ""
}

// ValidatePassword enforces the complexity policy: at least 8 characters
// with one uppercase letter, one lowercase letter, one digit and one
// special character from the allowed set.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	}
	return ""
}

// ValidatePhone accepts an empty phone; the field is optional. Non-empty
// phones must pass the wire pattern and normalize to E164, so nothing
// unparseable reaches storage.
func ValidatePhone(phone string) string {
	if phone == "" {
		return ""
	}
	if !phonePattern.MatchString(phone) || sanitizer.NormalizePhone(phone) == "" {
		return "Please provide a valid phone number"
	}
	return ""
}
