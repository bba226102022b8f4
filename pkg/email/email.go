// Package email holds the address rules shared by validation and storage.
package email

import (
	"regexp"
	"strings"
)

// shape is local-part "@" domain containing a dot, no whitespace anywhere.
var shape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Normalize trims and lowercases an address. Uniqueness is decided on this form.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether address has the local@domain.tld shape.
func Valid(address string) bool {
	return shape.MatchString(address)
}
