package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// AuditLogRepository handles audit log database operations
type AuditLogRepository struct {
	db DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Insert stores an audit log entry
func (r *AuditLogRepository) Insert(entry *models.AuditLog) error {
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO audit_logs (
			tenant_id, principal_id, role, action, entity_type, entity_id,
			ip_address, user_agent, device, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(
		query,
		entry.TenantID,
		entry.PrincipalID,
		entry.Role,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.IPAddress,
		entry.UserAgent,
		entry.Device,
		entry.Details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// ListRecentByTenant returns the newest audit entries for a tenant
func (r *AuditLogRepository) ListRecentByTenant(tenantID uuid.UUID, limit int) ([]models.AuditLog, error) {
	entries := []models.AuditLog{}
	query := `
		SELECT id, tenant_id, principal_id, role, action, entity_type, entity_id,
		       ip_address, user_agent, device, details, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	if err := r.db.Select(&entries, query, tenantID, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return entries, nil
}
