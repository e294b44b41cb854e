package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the host a visitor checks in to see. Unique per
// (tenant_id, email).
type Employee struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Name       string     `json:"name" db:"name"`
	Email      string     `json:"email" db:"email"`
	Phone      NullString `json:"phone,omitempty" db:"phone"`
	Department NullString `json:"department,omitempty" db:"department"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// BulkUploadResult summarizes a CSV employee import.
type BulkUploadResult struct {
	Inserted        int      `json:"inserted"`
	Duplicates      int      `json:"duplicates"`
	Skipped         int      `json:"skipped"`
	DuplicateEmails []string `json:"duplicate_emails"`
}
