package validator

import (
	"fmt"
	"regexp"
)

// pinPattern accepts 4 to 6 digit numeric PINs only.
var pinPattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// PINValidator validates guard PIN format before any hash operation.
type PINValidator struct{}

// NewPINValidator creates a new PIN validator
func NewPINValidator() *PINValidator {
	return &PINValidator{}
}

// Validate checks the PIN format. A PIN failing the format check must never
// reach the hasher.
func (v *PINValidator) Validate(pin string) error {
	if pin == "" {
		return fmt.Errorf("PIN is required")
	}
	if !pinPattern.MatchString(pin) {
		return fmt.Errorf("PIN must be 4 to 6 digits")
	}
	return nil
}
