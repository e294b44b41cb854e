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

// VisitRepository handles visit database operations
type VisitRepository struct {
	db DB
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db DB) *VisitRepository {
	return &VisitRepository{db: db}
}

const visitColumns = `id, tenant_id, visitor_id, employee_id, check_in_guard_id, check_out_guard_id,
	status, visit_type, check_in_timestamp, actual_check_out_timestamp,
	visitor_photo_url, id_card_photo_url, approval_method, created_at, updated_at`

const visitLogColumns = `
	v.id AS visit_id,
	vis.name AS visitor_name,
	vis.email AS visitor_email,
	vis.phone AS visitor_phone,
	e.name AS employee_name,
	e.email AS employee_email,
	gin_.name AS check_in_guard_name,
	gout.name AS check_out_guard_name,
	v.status,
	v.visit_type,
	v.check_in_timestamp,
	v.actual_check_out_timestamp AS check_out_timestamp,
	v.approval_method`

const visitLogJoins = `
	FROM visits v
	JOIN visitors vis ON vis.id = v.visitor_id
	JOIN employees e ON e.id = v.employee_id
	JOIN guards gin_ ON gin_.id = v.check_in_guard_id
	LEFT JOIN guards gout ON gout.id = v.check_out_guard_id`

// CreateTx inserts a visit inside the check-in transaction.
func (r *VisitRepository) CreateTx(tx *sqlx.Tx, visit *models.Visit) error {
	query := `
		INSERT INTO visits (
			id, tenant_id, visitor_id, employee_id, check_in_guard_id,
			status, visit_type, check_in_timestamp,
			visitor_photo_url, id_card_photo_url, approval_method,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.Exec(
		query,
		visit.ID,
		visit.TenantID,
		visit.VisitorID,
		visit.EmployeeID,
		visit.CheckInGuardID,
		visit.Status,
		visit.VisitType,
		visit.CheckInTimestamp,
		visit.VisitorPhotoURL,
		visit.IDCardPhotoURL,
		visit.ApprovalMethod,
		visit.CreatedAt,
		visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	return nil
}

// GetByID fetches a visit by id within a tenant
func (r *VisitRepository) GetByID(tenantID, id uuid.UUID) (*models.Visit, error) {
	var visit models.Visit
	query := `SELECT ` + visitColumns + ` FROM visits WHERE tenant_id = $1 AND id = $2`

	err := r.db.Get(&visit, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}

	return &visit, nil
}

// CheckOut moves a visit from CHECKED_IN to CHECKED_OUT, stamping the
// checkout time and acting guard. The status predicate in the WHERE clause
// is the transition guard: it returns the number of rows moved, so a visit
// in any other state is left untouched.
func (r *VisitRepository) CheckOut(tenantID, visitID, guardID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE visits
		SET status = $1, actual_check_out_timestamp = $2, check_out_guard_id = $3, updated_at = $2
		WHERE tenant_id = $4 AND id = $5 AND status = $6
	`

	result, err := r.db.Exec(query, models.VisitStatusCheckedOut, at, guardID, tenantID, visitID, models.VisitStatusCheckedIn)
	if err != nil {
		return false, fmt.Errorf("failed to check out visit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

// UpdateStatusFromPending applies the approval callback: a transition to
// CHECKED_IN or DENIED that is only legal from PENDING_APPROVAL. Returns
// false when the visit is missing or not pending, so duplicate webhook
// deliveries are no-ops.
func (r *VisitRepository) UpdateStatusFromPending(tenantID, visitID uuid.UUID, newStatus string) (bool, error) {
	query := `
		UPDATE visits
		SET status = $1, updated_at = $2
		WHERE tenant_id = $3 AND id = $4 AND status = $5
	`

	result, err := r.db.Exec(query, newStatus, time.Now(), tenantID, visitID, models.VisitStatusPendingApproval)
	if err != nil {
		return false, fmt.Errorf("failed to update visit status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

// ListActive returns CHECKED_IN visits ordered oldest first, so the guard
// triage view surfaces the longest-waiting visitor at the top.
func (r *VisitRepository) ListActive(tenantID uuid.UUID) ([]models.VisitLogEntry, error) {
	entries := []models.VisitLogEntry{}
	query := `SELECT ` + visitLogColumns + visitLogJoins + `
		WHERE v.tenant_id = $1 AND v.status = $2
		ORDER BY v.check_in_timestamp ASC`

	if err := r.db.Select(&entries, query, tenantID, models.VisitStatusCheckedIn); err != nil {
		return nil, fmt.Errorf("failed to list active visits: %w", err)
	}

	return entries, nil
}

// ListByDay returns all visits checked in on one calendar day.
func (r *VisitRepository) ListByDay(tenantID uuid.UUID, day time.Time) ([]models.VisitLogEntry, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	entries := []models.VisitLogEntry{}
	query := `SELECT ` + visitLogColumns + visitLogJoins + `
		WHERE v.tenant_id = $1 AND v.check_in_timestamp >= $2 AND v.check_in_timestamp < $3
		ORDER BY v.check_in_timestamp ASC`

	if err := r.db.Select(&entries, query, tenantID, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("failed to list visits by day: %w", err)
	}

	return entries, nil
}

// ListByEmployee returns a host employee's visit history, newest first.
func (r *VisitRepository) ListByEmployee(tenantID, employeeID uuid.UUID) ([]models.VisitLogEntry, error) {
	entries := []models.VisitLogEntry{}
	query := `SELECT ` + visitLogColumns + visitLogJoins + `
		WHERE v.tenant_id = $1 AND v.employee_id = $2
		ORDER BY v.check_in_timestamp DESC`

	if err := r.db.Select(&entries, query, tenantID, employeeID); err != nil {
		return nil, fmt.Errorf("failed to list visits by employee: %w", err)
	}

	return entries, nil
}

// ListByDateRange returns visits checked in within [from, to), for exports.
func (r *VisitRepository) ListByDateRange(tenantID uuid.UUID, from, to time.Time) ([]models.VisitLogEntry, error) {
	entries := []models.VisitLogEntry{}
	query := `SELECT ` + visitLogColumns + visitLogJoins + `
		WHERE v.tenant_id = $1 AND v.check_in_timestamp >= $2 AND v.check_in_timestamp < $3
		ORDER BY v.check_in_timestamp ASC`

	if err := r.db.Select(&entries, query, tenantID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list visits by date range: %w", err)
	}

	return entries, nil
}
