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

// EmployeeRepository handles employee (visit host) database operations
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, tenant_id, name, email, phone, department, created_at, updated_at`

// Create creates a new employee
func (r *EmployeeRepository) Create(employee *models.Employee) error {
	employee.ID = uuid.New()
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt

	query := `
		INSERT INTO employees (id, tenant_id, name, email, phone, department, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(query, employee.ID, employee.TenantID, employee.Name, employee.Email, employee.Phone, employee.Department, employee.CreatedAt, employee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByID fetches an employee by id within a tenant
func (r *EmployeeRepository) GetByID(tenantID, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 AND id = $2`

	err := r.db.Get(&employee, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}

	return &employee, nil
}

// GetByEmail fetches an employee by email within a tenant (case-insensitive)
func (r *EmployeeRepository) GetByEmail(tenantID uuid.UUID, email string) (*models.Employee, error) {
	var employee models.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 AND LOWER(email) = LOWER($2)`

	err := r.db.Get(&employee, query, tenantID, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee by email: %w", err)
	}

	return &employee, nil
}

// GetByEmailTx is GetByEmail inside an open transaction; used by the
// check-in flow so the host lookup and visit insert share one atomic unit.
func (r *EmployeeRepository) GetByEmailTx(tx *sqlx.Tx, tenantID uuid.UUID, email string) (*models.Employee, error) {
	var employee models.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 AND LOWER(email) = LOWER($2)`

	err := tx.Get(&employee, query, tenantID, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee by email: %w", err)
	}

	return &employee, nil
}

// ListByTenant returns all employees of a tenant
func (r *EmployeeRepository) ListByTenant(tenantID uuid.UUID) ([]models.Employee, error) {
	employees := []models.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE tenant_id = $1 ORDER BY name`

	if err := r.db.Select(&employees, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// Update updates an employee row
func (r *EmployeeRepository) Update(employee *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, email = $2, phone = $3, department = $4, updated_at = $5
		WHERE tenant_id = $6 AND id = $7
	`

	result, err := r.db.Exec(query, employee.Name, employee.Email, employee.Phone, employee.Department, time.Now(), employee.TenantID, employee.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update employee: %w", err)
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

// Delete removes an employee
func (r *EmployeeRepository) Delete(tenantID, id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM employees WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
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
