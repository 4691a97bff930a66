package auth

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func validateRegistration(username, email, password, confirmPassword string) error {
	if username == "" {
		return invalid("Username is required")
	}
	if len(username) < 3 {
		return invalid("Username must be at least 3 characters long")
	}
	if !usernamePattern.MatchString(username) {
		return invalid("Username can only contain letters, numbers, and underscores")
	}
	if email == "" {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Email must be a valid email")
	}
	if password == "" {
		return invalid("Password is required")
	}
	if len(password) < 8 {
		return invalid("Password must be at least 8 characters long")
	}
	if !hasUpperAndDigit(password) {
		return invalid("Password must contain at least one uppercase letter, one number")
	}
	if confirmPassword == "" {
		return invalid("Please confirm your password")
	}
	if password != confirmPassword {
		return invalid("Password must match")
	}
	return nil
}

func validateLogin(email, password string) error {
	if email == "" {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Email must be a valid email")
	}
	if password == "" {
		return invalid("Password is required")
	}
	return nil
}

func hasUpperAndDigit(password string) bool {
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && digit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
