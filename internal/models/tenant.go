package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated customer organization. Every tenant-scoped entity
// carries its id as a foreign key; deleting a tenant cascades to all of them.
type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Subdomain string    `json:"subdomain" db:"subdomain"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
