package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// GuardRepository handles guard database operations
type GuardRepository struct {
	db DB
}

// NewGuardRepository creates a new guard repository
func NewGuardRepository(db DB) *GuardRepository {
	return &GuardRepository{db: db}
}

const guardColumns = `id, tenant_id, name, email, phone, pin_hash, is_active, created_at, updated_at`

// Create creates a new guard. The PIN must already be hashed by the caller.
func (r *GuardRepository) Create(guard *models.Guard) error {
	guard.ID = uuid.New()
	guard.CreatedAt = time.Now()
	guard.UpdatedAt = guard.CreatedAt

	query := `
		INSERT INTO guards (id, tenant_id, name, email, phone, pin_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query, guard.ID, guard.TenantID, guard.Name, guard.Email, guard.Phone, guard.PINHash, guard.IsActive, guard.CreatedAt, guard.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create guard: %w", err)
	}

	return nil
}

// GetByID fetches a guard by id within a tenant
func (r *GuardRepository) GetByID(tenantID, id uuid.UUID) (*models.Guard, error) {
	var guard models.Guard
	query := `SELECT ` + guardColumns + ` FROM guards WHERE tenant_id = $1 AND id = $2`

	err := r.db.Get(&guard, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch guard: %w", err)
	}

	return &guard, nil
}

// GetByIdentifier resolves a login identifier against name, email, or phone.
// Name and email match case-insensitively; phone matches exactly.
func (r *GuardRepository) GetByIdentifier(tenantID uuid.UUID, identifier string) (*models.Guard, error) {
	var guard models.Guard
	query := `
		SELECT ` + guardColumns + ` FROM guards
		WHERE tenant_id = $1
		  AND (LOWER(name) = LOWER($2) OR LOWER(email) = LOWER($2) OR phone = $2)
		LIMIT 1
	`

	err := r.db.Get(&guard, query, tenantID, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch guard by identifier: %w", err)
	}

	return &guard, nil
}

// ListByTenant returns all guards of a tenant
func (r *GuardRepository) ListByTenant(tenantID uuid.UUID) ([]models.Guard, error) {
	guards := []models.Guard{}
	query := `SELECT ` + guardColumns + ` FROM guards WHERE tenant_id = $1 ORDER BY name`

	if err := r.db.Select(&guards, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list guards: %w", err)
	}

	return guards, nil
}

// Update updates a guard. The pin_hash column is written as-is; hashing on
// PIN change is the service layer's responsibility.
func (r *GuardRepository) Update(guard *models.Guard) error {
	query := `
		UPDATE guards
		SET name = $1, email = $2, phone = $3, pin_hash = $4, is_active = $5, updated_at = $6
		WHERE tenant_id = $7 AND id = $8
	`

	result, err := r.db.Exec(query, guard.Name, guard.Email, guard.Phone, guard.PINHash, guard.IsActive, time.Now(), guard.TenantID, guard.ID)
	if err != nil {
		return fmt.Errorf("failed to update guard: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a guard. Visits reference guards through non-cascading
// foreign keys, so a guard with check-in/check-out history cannot be
// deleted; deactivate instead.
func (r *GuardRepository) Delete(tenantID, id uuid.UUID) error {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM visits WHERE check_in_guard_id = $1 OR check_out_guard_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to check guard visit history: %w", err)
	}
	if count > 0 {
		return ErrGuardHasVisits
	}

	result, err := r.db.Exec(`DELETE FROM guards WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrGuardHasVisits
		}
		return fmt.Errorf("failed to delete guard: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
