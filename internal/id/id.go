// Package id generates opaque identifiers for domain entities.
package id

import "github.com/google/uuid"

// New returns a new random identifier.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether s looks like an identifier produced by New.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
