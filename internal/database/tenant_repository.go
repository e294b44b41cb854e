package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// TenantRepository handles tenant database operations
type TenantRepository struct {
	db DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(name, subdomain string) (*models.Tenant, error) {
	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      name,
		Subdomain: subdomain,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
		INSERT INTO tenants (id, name, subdomain, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query, tenant.ID, tenant.Name, tenant.Subdomain, tenant.IsActive, tenant.CreatedAt, tenant.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return tenant, nil
}

// GetByID fetches a tenant by id
func (r *TenantRepository) GetByID(id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	query := `SELECT id, name, subdomain, is_active, created_at, updated_at FROM tenants WHERE id = $1`

	err := r.db.Get(&tenant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}

	return &tenant, nil
}

// GetBySubdomain fetches a tenant by exact subdomain match
func (r *TenantRepository) GetBySubdomain(subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	query := `SELECT id, name, subdomain, is_active, created_at, updated_at FROM tenants WHERE subdomain = $1`

	err := r.db.Get(&tenant, query, subdomain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tenant by subdomain: %w", err)
	}

	return &tenant, nil
}

// ListActive returns all active tenants
func (r *TenantRepository) ListActive() ([]models.Tenant, error) {
	tenants := []models.Tenant{}
	query := `SELECT id, name, subdomain, is_active, created_at, updated_at FROM tenants WHERE is_active = true ORDER BY name`

	if err := r.db.Select(&tenants, query); err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}

	return tenants, nil
}

// List returns all tenants
func (r *TenantRepository) List() ([]models.Tenant, error) {
	tenants := []models.Tenant{}
	query := `SELECT id, name, subdomain, is_active, created_at, updated_at FROM tenants ORDER BY name`

	if err := r.db.Select(&tenants, query); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	return tenants, nil
}

// Update updates a tenant's name, subdomain, and active flag
func (r *TenantRepository) Update(tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, subdomain = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(query, tenant.Name, tenant.Subdomain, tenant.IsActive, time.Now(), tenant.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update tenant: %w", err)
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

// Delete removes a tenant. All tenant-owned rows (guards, admins, employees,
// visitors, visits) are removed via ON DELETE CASCADE foreign keys.
func (r *TenantRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
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
