package rules

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail is the shape check applied to the login form.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
