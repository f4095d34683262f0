package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier for items, teams and bids
func GenerateID() string {
	return uuid.New().String()
}

// IsID reports whether s has the shape of an identifier from GenerateID
func IsID(s string) bool {
	return uuid.Validate(s) == nil
}
