package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// VisitorRepository handles visitor database operations
type VisitorRepository struct {
	db DB
}

// NewVisitorRepository creates a new visitor repository
func NewVisitorRepository(db DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

const visitorColumns = `id, tenant_id, name, email, phone, created_at, updated_at`

// FindOrCreateTx looks a visitor up by (tenant_id, email) inside an open
// transaction, creating the row only if absent. A concurrent check-in for
// the same email may win the insert race; ON CONFLICT DO NOTHING absorbs
// that without erroring, so the open transaction survives and the loser
// re-reads the winner's row. A unique-violation error here would abort the
// whole Postgres transaction and take the check-in down with it. Name and
// phone are only set when the row is created, never refreshed on an
// existing visitor.
func (r *VisitorRepository) FindOrCreateTx(tx *sqlx.Tx, tenantID uuid.UUID, name, email, phone string) (*models.Visitor, bool, error) {
	var visitor models.Visitor
	selectQuery := `SELECT ` + visitorColumns + ` FROM visitors WHERE tenant_id = $1 AND LOWER(email) = LOWER($2)`

	err := tx.Get(&visitor, selectQuery, tenantID, email)
	if err == nil {
		return &visitor, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to fetch visitor: %w", err)
	}

	visitor = models.Visitor{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	insertQuery := `
		INSERT INTO visitors (id, tenant_id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, email) DO NOTHING
	`

	result, err := tx.Exec(insertQuery, visitor.ID, visitor.TenantID, visitor.Name, visitor.Email, visitor.Phone, visitor.CreatedAt, visitor.UpdatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create visitor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if rows == 0 {
		// Lost the race; the winner's row is the canonical one.
		if gerr := tx.Get(&visitor, selectQuery, tenantID, email); gerr != nil {
			return nil, false, fmt.Errorf("failed to re-read visitor after conflict: %w", gerr)
		}
		return &visitor, false, nil
	}

	return &visitor, true, nil
}

// GetByID fetches a visitor by id within a tenant
func (r *VisitorRepository) GetByID(tenantID, id uuid.UUID) (*models.Visitor, error) {
	var visitor models.Visitor
	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE tenant_id = $1 AND id = $2`

	err := r.db.Get(&visitor, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch visitor: %w", err)
	}

	return &visitor, nil
}

// SearchByPrefix finds visitors whose phone or email starts with the given
// prefix, for the guard's check-in lookup.
func (r *VisitorRepository) SearchByPrefix(tenantID uuid.UUID, prefix string, limit int) ([]models.Visitor, error) {
	visitors := []models.Visitor{}
	query := `
		SELECT ` + visitorColumns + ` FROM visitors
		WHERE tenant_id = $1 AND (phone LIKE $2 || '%' OR LOWER(email) LIKE LOWER($2) || '%')
		ORDER BY name
		LIMIT $3
	`

	if err := r.db.Select(&visitors, query, tenantID, prefix, limit); err != nil {
		return nil, fmt.Errorf("failed to search visitors: %w", err)
	}

	return visitors, nil
}
