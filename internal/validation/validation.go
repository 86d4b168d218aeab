package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,32}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	dateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRegex     = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks if a username is acceptable
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username must be 3-32 characters (letters, digits, _ . -)"}
	}
	return nil
}

// ValidateEmail checks if an email address is valid. Empty is allowed;
// the address is only used for optional invite notifications.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateRequired checks that a trimmed form value is non-empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// ValidateDate checks a date string in YYYY-MM-DD form and returns it as a
// UTC midnight timestamp
func ValidateDate(field, value string) (time.Time, error) {
	if !dateRegex.MatchString(value) {
		return time.Time{}, ValidationError{Field: field, Message: "expected date in YYYY-MM-DD format"}
	}
	date, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, ValidationError{Field: field, Message: "invalid date"}
	}
	return date, nil
}

// ValidateClockTime checks a time string in 24h HH:MM form
func ValidateClockTime(field, value string) error {
	if !timeRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "expected time in HH:MM format"}
	}
	return nil
}
