package services

import "errors"

// Service-level sentinel errors, mapped to HTTP statuses at the handler
// boundary.
var (
	// ErrInvalidCredentials covers both unknown identity and wrong
	// secret; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInactiveAccount is returned when the principal exists but is
	// deactivated.
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrInvalidCredentialFormat is returned when a secret fails format
	// validation before reaching the hasher.
	ErrInvalidCredentialFormat = errors.New("invalid credential format")

	// ErrVisitNotPending is the idempotent approval-callback outcome:
	// the visit is missing or not in PENDING_APPROVAL, so the callback
	// is a no-op.
	ErrVisitNotPending = errors.New("visit is not pending approval or does not exist")

	// ErrVisitNotCheckedIn is returned when checking out a visit that is
	// not in CHECKED_IN state.
	ErrVisitNotCheckedIn = errors.New("visit is not checked in")

	// ErrValidation marks a request-input problem; wrap with details.
	ErrValidation = errors.New("validation error")

	// ErrPhotoURLExpired is returned when a signed photo URL is past its
	// expiry.
	ErrPhotoURLExpired = errors.New("photo URL has expired")

	// ErrPhotoURLInvalid is returned when a photo URL signature does not
	// match the key and expiry it carries.
	ErrPhotoURLInvalid = errors.New("photo URL signature is invalid")
)
