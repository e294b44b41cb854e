package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardRows(id, tenantID uuid.UUID, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "name", "email", "phone", "pin_hash", "is_active", "created_at", "updated_at",
	}).AddRow(id, tenantID, name, "guard@example.com", "0771234567", "$2a$12$hash", true, now, now)
}

func TestGetByIdentifier(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuardRepository(db)

	tenantID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		guardID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM guards`).
			WithArgs(tenantID, "Main Gate").
			WillReturnRows(guardRows(guardID, tenantID, "Main Gate"))

		guard, err := repo.GetByIdentifier(tenantID, "Main Gate")
		require.NoError(t, err)
		assert.Equal(t, guardID, guard.ID)
		assert.True(t, guard.IsActive)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Identifier", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM guards`).
			WithArgs(tenantID, "nobody").
			WillReturnError(sql.ErrNoRows)

		guard, err := repo.GetByIdentifier(tenantID, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, guard)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteGuard(t *testing.T) {
	tenantID := uuid.New()
	guardID := uuid.New()

	t.Run("Blocked By Visit History", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGuardRepository(db)

		mock.ExpectQuery(`SELECT COUNT(.+) FROM visits`).
			WithArgs(guardID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		err := repo.Delete(tenantID, guardID)
		assert.ErrorIs(t, err, ErrGuardHasVisits)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success Without History", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGuardRepository(db)

		mock.ExpectQuery(`SELECT COUNT(.+) FROM visits`).
			WithArgs(guardID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM guards`).
			WithArgs(tenantID, guardID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(tenantID, guardID)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Guard", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGuardRepository(db)

		mock.ExpectQuery(`SELECT COUNT(.+) FROM visits`).
			WithArgs(guardID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM guards`).
			WithArgs(tenantID, guardID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(tenantID, guardID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
