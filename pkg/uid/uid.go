// Package uid generates identifiers for requests, sessions and journal rows.
package uid

import "github.com/google/uuid"

// New returns a random (version 4) UUID string.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether id is a well-formed UUID.
func IsValid(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
