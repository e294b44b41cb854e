package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records security-relevant actions (logins, check-ins,
// check-outs) with request metadata.
type AuditLog struct {
	ID          int64         `json:"id" db:"id"`
	TenantID    uuid.NullUUID `json:"tenant_id,omitempty" db:"tenant_id"`
	PrincipalID uuid.NullUUID `json:"principal_id,omitempty" db:"principal_id"`
	Role        NullString    `json:"role,omitempty" db:"role"`
	Action      string        `json:"action" db:"action"`
	EntityType  NullString    `json:"entity_type,omitempty" db:"entity_type"`
	EntityID    uuid.NullUUID `json:"entity_id,omitempty" db:"entity_id"`
	IPAddress   NullString    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent   NullString    `json:"user_agent,omitempty" db:"user_agent"`
	Device      NullString    `json:"device,omitempty" db:"device"`
	Details     NullString    `json:"details,omitempty" db:"details"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
