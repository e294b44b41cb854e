package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/frontdesk/visitor-management-backend/internal/models"
)

func TestVisitCheckOut(t *testing.T) {
	tenantID := uuid.New()
	visitID := uuid.New()
	guardID := uuid.New()
	now := time.Now()

	t.Run("Checked In Visit Moves", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		mock.ExpectExec(`UPDATE visits`).
			WithArgs(models.VisitStatusCheckedOut, now, guardID, tenantID, visitID, models.VisitStatusCheckedIn).
			WillReturnResult(sqlmock.NewResult(0, 1))

		moved, err := repo.CheckOut(tenantID, visitID, guardID, now)
		require.NoError(t, err)
		assert.True(t, moved)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Checked Out Is Untouched", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		mock.ExpectExec(`UPDATE visits`).
			WithArgs(models.VisitStatusCheckedOut, now, guardID, tenantID, visitID, models.VisitStatusCheckedIn).
			WillReturnResult(sqlmock.NewResult(0, 0))

		moved, err := repo.CheckOut(tenantID, visitID, guardID, now)
		require.NoError(t, err)
		assert.False(t, moved)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateStatusFromPending(t *testing.T) {
	tenantID := uuid.New()
	visitID := uuid.New()

	t.Run("Pending Visit Approved", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		mock.ExpectExec(`UPDATE visits`).
			WithArgs(models.VisitStatusCheckedIn, sqlmock.AnyArg(), tenantID, visitID, models.VisitStatusPendingApproval).
			WillReturnResult(sqlmock.NewResult(0, 1))

		moved, err := repo.UpdateStatusFromPending(tenantID, visitID, models.VisitStatusCheckedIn)
		require.NoError(t, err)
		assert.True(t, moved)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Replayed Callback Is A No-Op", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitRepository(db)

		mock.ExpectExec(`UPDATE visits`).
			WithArgs(models.VisitStatusDenied, sqlmock.AnyArg(), tenantID, visitID, models.VisitStatusPendingApproval).
			WillReturnResult(sqlmock.NewResult(0, 0))

		moved, err := repo.UpdateStatusFromPending(tenantID, visitID, models.VisitStatusDenied)
		require.NoError(t, err)
		assert.False(t, moved)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVisitGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVisitRepository(db)

	tenantID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		visitID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM visits WHERE tenant_id`).
			WithArgs(tenantID, visitID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "tenant_id", "visitor_id", "employee_id", "check_in_guard_id",
				"check_out_guard_id", "status", "visit_type", "check_in_timestamp",
				"actual_check_out_timestamp", "visitor_photo_url", "id_card_photo_url",
				"approval_method", "created_at", "updated_at",
			}).AddRow(
				visitID, tenantID, uuid.New(), uuid.New(), uuid.New(),
				nil, models.VisitStatusCheckedIn, "MEETING", now,
				nil, "photos/a.jpg", "photos/b.jpg",
				models.ApprovalMethodAuto, now, now,
			))

		visit, err := repo.GetByID(tenantID, visitID)
		require.NoError(t, err)
		assert.Equal(t, visitID, visit.ID)
		assert.Equal(t, models.VisitStatusCheckedIn, visit.Status)
		assert.False(t, visit.CheckOutGuardID.Valid)
		assert.False(t, visit.ActualCheckOutTimestamp.Valid)
		assert.False(t, visit.IsTerminal())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		missing := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM visits WHERE tenant_id`).
			WithArgs(tenantID, missing).
			WillReturnError(sql.ErrNoRows)

		visit, err := repo.GetByID(tenantID, missing)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, visit)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
