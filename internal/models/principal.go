package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal roles carried in session tokens
const (
	RoleGuard      = "guard"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Guard is a front-desk operator. Login identity may be matched by name,
// email, or phone; the PIN is only ever stored hashed.
type Guard struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Name      string     `json:"name" db:"name"`
	Email     NullString `json:"email,omitempty" db:"email"`
	Phone     NullString `json:"phone,omitempty" db:"phone"`
	PINHash   string     `json:"-" db:"pin_hash"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Admin is a per-tenant management user, unique per (tenant_id, email).
type Admin struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	Phone        NullString `json:"phone,omitempty" db:"phone"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// SuperAdmin is a global principal, not tenant-scoped.
type SuperAdmin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
