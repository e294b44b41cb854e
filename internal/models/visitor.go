package models

import (
	"time"

	"github.com/google/uuid"
)

// Visitor is deduplicated per tenant by email: a returning visitor with the
// same email reuses their existing record (find-or-create, not overwrite).
type Visitor struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
