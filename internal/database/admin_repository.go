package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// AdminRepository handles tenant admin database operations
type AdminRepository struct {
	db DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, tenant_id, email, name, phone, password_hash, created_at, updated_at`

// Create creates a new admin. The password must already be hashed.
func (r *AdminRepository) Create(admin *models.Admin) error {
	admin.ID = uuid.New()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt

	query := `
		INSERT INTO admins (id, tenant_id, email, name, phone, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(query, admin.ID, admin.TenantID, admin.Email, admin.Name, admin.Phone, admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// GetByID fetches an admin by id within a tenant
func (r *AdminRepository) GetByID(tenantID, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	query := `SELECT ` + adminColumns + ` FROM admins WHERE tenant_id = $1 AND id = $2`

	err := r.db.Get(&admin, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch admin: %w", err)
	}

	return &admin, nil
}

// GetByEmail fetches an admin by email within a tenant (case-insensitive)
func (r *AdminRepository) GetByEmail(tenantID uuid.UUID, email string) (*models.Admin, error) {
	var admin models.Admin
	query := `SELECT ` + adminColumns + ` FROM admins WHERE tenant_id = $1 AND LOWER(email) = LOWER($2)`

	err := r.db.Get(&admin, query, tenantID, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch admin by email: %w", err)
	}

	return &admin, nil
}

// ListByTenant returns all admins of a tenant
func (r *AdminRepository) ListByTenant(tenantID uuid.UUID) ([]models.Admin, error) {
	admins := []models.Admin{}
	query := `SELECT ` + adminColumns + ` FROM admins WHERE tenant_id = $1 ORDER BY name`

	if err := r.db.Select(&admins, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	return admins, nil
}

// Update updates an admin row
func (r *AdminRepository) Update(admin *models.Admin) error {
	query := `
		UPDATE admins
		SET email = $1, name = $2, phone = $3, password_hash = $4, updated_at = $5
		WHERE tenant_id = $6 AND id = $7
	`

	result, err := r.db.Exec(query, admin.Email, admin.Name, admin.Phone, admin.PasswordHash, time.Now(), admin.TenantID, admin.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update admin: %w", err)
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

// Delete removes an admin
func (r *AdminRepository) Delete(tenantID, id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM admins WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
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
