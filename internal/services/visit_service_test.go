package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/frontdesk/visitor-management-backend/internal/database"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

func newVisitService(t *testing.T, autoApprove bool) (*VisitService, sqlmock.Sqlmock) {
	t.Helper()

	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	db := &database.PostgresDB{DB: sqlx.NewDb(rawDB, "sqlmock")}
	visitRepo := database.NewVisitRepository(db)
	visitorRepo := database.NewVisitorRepository(db)
	employeeRepo := database.NewEmployeeRepository(db)

	return NewVisitService(db, visitRepo, visitorRepo, employeeRepo, autoApprove), mock
}

func checkInInput() CheckInInput {
	return CheckInInput{
		VisitorName:     "Jane Doe",
		VisitorEmail:    "jane@example.com",
		VisitorPhone:    "0771234567",
		EmployeeEmail:   "host@example.com",
		VisitType:       "MEETING",
		VisitorPhotoKey: "photos/visitor.jpg",
		IDCardPhotoKey:  "photos/id.jpg",
	}
}

func employeeRow(id, tenantID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "name", "email", "phone", "department", "created_at", "updated_at",
	}).AddRow(id, tenantID, "Host Employee", "host@example.com", nil, nil, now, now)
}

func TestCheckIn(t *testing.T) {
	tenantID := uuid.New()
	guardID := uuid.New()

	t.Run("Auto Approve Creates Checked In Visit", func(t *testing.T) {
		svc, mock := newVisitService(t, true)

		employeeID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM employees WHERE tenant_id`).
			WithArgs(tenantID, "host@example.com").
			WillReturnRows(employeeRow(employeeID, tenantID))
		mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE tenant_id`).
			WithArgs(tenantID, "jane@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`INSERT INTO visitors`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO visits`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := svc.CheckIn(tenantID, guardID, checkInInput())
		require.NoError(t, err)
		assert.True(t, result.VisitorCreated)
		assert.Equal(t, models.VisitStatusCheckedIn, result.Visit.Status)
		assert.Equal(t, models.ApprovalMethodAuto, result.Visit.ApprovalMethod)
		assert.Equal(t, employeeID, result.Visit.EmployeeID)
		assert.Equal(t, guardID, result.Visit.CheckInGuardID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Approval Policy Creates Pending Visit", func(t *testing.T) {
		svc, mock := newVisitService(t, false)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM employees WHERE tenant_id`).
			WithArgs(tenantID, "host@example.com").
			WillReturnRows(employeeRow(uuid.New(), tenantID))
		mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE tenant_id`).
			WithArgs(tenantID, "jane@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`INSERT INTO visitors`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO visits`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := svc.CheckIn(tenantID, guardID, checkInInput())
		require.NoError(t, err)
		assert.Equal(t, models.VisitStatusPendingApproval, result.Visit.Status)
		assert.Equal(t, models.ApprovalMethodWebhook, result.Visit.ApprovalMethod)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Host Rolls Back Everything", func(t *testing.T) {
		svc, mock := newVisitService(t, true)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM employees WHERE tenant_id`).
			WithArgs(tenantID, "host@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		result, err := svc.CheckIn(tenantID, guardID, checkInInput())
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.Nil(t, result)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Photo Rejected Before Transaction", func(t *testing.T) {
		svc, mock := newVisitService(t, true)

		input := checkInInput()
		input.VisitorPhotoKey = ""

		result, err := svc.CheckIn(tenantID, guardID, input)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, result)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCheckOut(t *testing.T) {
	tenantID := uuid.New()
	guardID := uuid.New()
	visitID := uuid.New()

	visitRow := func(status string) *sqlmock.Rows {
		now := time.Now()
		return sqlmock.NewRows([]string{
			"id", "tenant_id", "visitor_id", "employee_id", "check_in_guard_id",
			"check_out_guard_id", "status", "visit_type", "check_in_timestamp",
			"actual_check_out_timestamp", "visitor_photo_url", "id_card_photo_url",
			"approval_method", "created_at", "updated_at",
		}).AddRow(
			visitID, tenantID, uuid.New(), uuid.New(), uuid.New(),
			guardID, status, "MEETING", now,
			now, "photos/a.jpg", "photos/b.jpg",
			models.ApprovalMethodAuto, now, now,
		)
	}

	t.Run("Success", func(t *testing.T) {
		svc, mock := newVisitService(t, true)

		mock.ExpectExec(`UPDATE visits`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM visits WHERE tenant_id`).
			WithArgs(tenantID, visitID).
			WillReturnRows(visitRow(models.VisitStatusCheckedOut))

		visit, err := svc.CheckOut(tenantID, guardID, visitID)
		require.NoError(t, err)
		assert.Equal(t, models.VisitStatusCheckedOut, visit.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second Check Out Is A Conflict", func(t *testing.T) {
		svc, mock := newVisitService(t, true)

		mock.ExpectExec(`UPDATE visits`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM visits WHERE tenant_id`).
			WithArgs(tenantID, visitID).
			WillReturnRows(visitRow(models.VisitStatusCheckedOut))

		visit, err := svc.CheckOut(tenantID, guardID, visitID)
		assert.ErrorIs(t, err, ErrVisitNotCheckedIn)
		assert.Nil(t, visit)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Visit Is Not Found", func(t *testing.T) {
		svc, mock := newVisitService(t, true)

		mock.ExpectExec(`UPDATE visits`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM visits WHERE tenant_id`).
			WithArgs(tenantID, visitID).
			WillReturnError(sql.ErrNoRows)

		visit, err := svc.CheckOut(tenantID, guardID, visitID)
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.Nil(t, visit)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHandleApprovalCallback(t *testing.T) {
	tenantID := uuid.New()
	visitID := uuid.New()

	t.Run("Replay Reports Not Pending", func(t *testing.T) {
		svc, mock := newVisitService(t, false)

		mock.ExpectExec(`UPDATE visits`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		visit, err := svc.HandleApprovalCallback(tenantID, visitID, true)
		assert.ErrorIs(t, err, ErrVisitNotPending)
		assert.Nil(t, visit)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected string
	}{
		{"Ten Digits", "0771234567", "077*****67"},
		{"Six Digits", "123456", "123*56"},
		{"Short Number", "12345", "*****"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskPhone(tt.phone))
		})
	}
}

func TestEndOfDayPartition(t *testing.T) {
	svc, mock := newVisitService(t, true)

	tenantID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(9 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"visit_id", "visitor_name", "visitor_email", "visitor_phone",
		"employee_name", "employee_email", "check_in_guard_name",
		"check_out_guard_name", "status", "visit_type",
		"check_in_timestamp", "check_out_timestamp", "approval_method",
	}).
		AddRow(uuid.New(), "A", "a@x.com", "0771111111", "Host", "h@x.com", "Gate", nil,
			models.VisitStatusCheckedIn, "MEETING", checkIn, nil, models.ApprovalMethodAuto).
		AddRow(uuid.New(), "B", "b@x.com", "0772222222", "Host", "h@x.com", "Gate", nil,
			models.VisitStatusPendingApproval, "MEETING", checkIn, nil, models.ApprovalMethodWebhook).
		AddRow(uuid.New(), "C", "c@x.com", "0773333333", "Host", "h@x.com", "Gate", "Gate",
			models.VisitStatusCheckedOut, "MEETING", checkIn, checkIn.Add(time.Hour), models.ApprovalMethodAuto).
		AddRow(uuid.New(), "D", "d@x.com", "0774444444", "Host", "h@x.com", "Gate", nil,
			models.VisitStatusDenied, "MEETING", checkIn, nil, models.ApprovalMethodWebhook)

	mock.ExpectQuery(`SELECT (.+) FROM visits v`).
		WillReturnRows(rows)

	report, err := svc.EndOfDayReport(tenantID, day)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", report.Date)
	assert.Len(t, report.StillInside, 2)
	assert.Len(t, report.HaveLeft, 2)
	assert.Equal(t, "A", report.StillInside[0].VisitorName)
	assert.Equal(t, "C", report.HaveLeft[0].VisitorName)

	assert.NoError(t, mock.ExpectationsWereMet())
}
