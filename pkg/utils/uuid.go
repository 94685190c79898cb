package utils

import (
	"github.com/google/uuid"
)

// NewRunID returns a short random identifier used to tag the log lines of one
// sync run.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// IsUUID reports whether s is a canonical UUID. djay keys most of its
// records by UUID.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
