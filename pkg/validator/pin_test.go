package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPINValidator(t *testing.T) {
	v := NewPINValidator()

	t.Run("Valid PINs", func(t *testing.T) {
		for _, pin := range []string{"1234", "12345", "123456", "0000"} {
			assert.NoError(t, v.Validate(pin), "PIN %q should be valid", pin)
		}
	})

	t.Run("Invalid PINs", func(t *testing.T) {
		tests := []struct {
			name string
			pin  string
		}{
			{"Empty", ""},
			{"Too short", "123"},
			{"Too long", "1234567"},
			{"Letters", "12ab"},
			{"Spaces", "12 34"},
			{"Negative", "-1234"},
			{"Decimal", "12.34"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Error(t, v.Validate(tt.pin))
			})
		}
	})
}
