package auth

import (
	"crypto/subtle"
	"fmt"
)

// Validator validates presented API keys against the single configured key.
type Validator struct {
	key []byte
}

// NewValidator creates a validator for the expected key.
func NewValidator(key string) *Validator {
	return &Validator{key: []byte(key)}
}

// Validate checks the presented key with a constant-time comparison.
func (v *Validator) Validate(key string) error {
	if len(v.key) == 0 {
		return fmt.Errorf("no API key configured")
	}
	if subtle.ConstantTimeCompare(v.key, []byte(key)) != 1 {
		return fmt.Errorf("invalid API key")
	}
	return nil
}
