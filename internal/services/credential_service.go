package services

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"github.com/frontdesk/visitor-management-backend/pkg/validator"
)

// CredentialService hashes and verifies guard PINs and admin passwords.
// Hashing happens only when the caller explicitly supplies a new plaintext
// secret; there is no implicit dirty-tracking.
type CredentialService struct {
	pinValidator *validator.PINValidator
	bcryptCost   int
}

// NewCredentialService creates a new credential service
func NewCredentialService(pinValidator *validator.PINValidator, bcryptCost int) *CredentialService {
	return &CredentialService{
		pinValidator: pinValidator,
		bcryptCost:   bcryptCost,
	}
}

// isBcryptHash reports whether a value already has the versioned bcrypt
// output shape, guarding HashPassword against double-hashing an already
// stored value. PINs need no such guard: the digits-only format check
// rejects a bcrypt hash before it could reach the hasher.
func isBcryptHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}

// HashPIN validates the PIN format and hashes it. An invalid format never
// reaches the hasher.
func (s *CredentialService) HashPIN(pin string) (string, error) {
	if err := s.pinValidator.Validate(pin); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentialFormat, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}

	return string(hash), nil
}

// HashPassword hashes an admin or super admin password.
func (s *CredentialService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is required", ErrInvalidCredentialFormat)
	}

	if isBcryptHash(password) {
		return password, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPIN compares a candidate PIN against the stored hash. One-way only;
// the candidate value is never logged.
func (s *CredentialService) VerifyPIN(pin, hash string) error {
	if err := s.pinValidator.Validate(pin); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentialFormat, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// VerifyPassword compares a candidate password against the stored hash.
func (s *CredentialService) VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}
