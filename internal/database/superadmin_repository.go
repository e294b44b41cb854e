package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

// SuperAdminRepository handles super admin database operations.
// Super admins are global principals, not tenant-scoped.
type SuperAdminRepository struct {
	db DB
}

// NewSuperAdminRepository creates a new super admin repository
func NewSuperAdminRepository(db DB) *SuperAdminRepository {
	return &SuperAdminRepository{db: db}
}

const superAdminColumns = `id, email, name, password_hash, is_active, created_at, updated_at`

// Create creates a new super admin. The password must already be hashed.
func (r *SuperAdminRepository) Create(sa *models.SuperAdmin) error {
	sa.ID = uuid.New()
	sa.CreatedAt = time.Now()
	sa.UpdatedAt = sa.CreatedAt

	query := `
		INSERT INTO super_admins (id, email, name, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(query, sa.ID, sa.Email, sa.Name, sa.PasswordHash, sa.IsActive, sa.CreatedAt, sa.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	return nil
}

// GetByID fetches a super admin by id
func (r *SuperAdminRepository) GetByID(id uuid.UUID) (*models.SuperAdmin, error) {
	var sa models.SuperAdmin
	query := `SELECT ` + superAdminColumns + ` FROM super_admins WHERE id = $1`

	err := r.db.Get(&sa, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch super admin: %w", err)
	}

	return &sa, nil
}

// GetByEmail fetches a super admin by globally unique email
func (r *SuperAdminRepository) GetByEmail(email string) (*models.SuperAdmin, error) {
	var sa models.SuperAdmin
	query := `SELECT ` + superAdminColumns + ` FROM super_admins WHERE LOWER(email) = LOWER($1)`

	err := r.db.Get(&sa, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch super admin by email: %w", err)
	}

	return &sa, nil
}
