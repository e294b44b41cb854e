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

func visitorRows(id, tenantID uuid.UUID, name, email, phone string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "name", "email", "phone", "created_at", "updated_at",
	}).AddRow(id, tenantID, name, email, phone, now, now)
}

func TestFindOrCreateTx(t *testing.T) {
	tenantID := uuid.New()

	t.Run("Existing Visitor Reused", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitorRepository(db)

		existingID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE tenant_id`).
			WithArgs(tenantID, "jane@example.com").
			WillReturnRows(visitorRows(existingID, tenantID, "Jane Doe", "jane@example.com", "0771234567"))

		tx, err := db.Beginx()
		require.NoError(t, err)

		visitor, created, err := repo.FindOrCreateTx(tx, tenantID, "Jane D.", "jane@example.com", "0779999999")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existingID, visitor.ID)
		// The stored row wins; name and phone are not refreshed.
		assert.Equal(t, "Jane Doe", visitor.Name)
		assert.Equal(t, "0771234567", visitor.Phone)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("New Visitor Created", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitorRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE tenant_id`).
			WithArgs(tenantID, "new@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`INSERT INTO visitors`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Beginx()
		require.NoError(t, err)

		visitor, created, err := repo.FindOrCreateTx(tx, tenantID, "New Visitor", "new@example.com", "0770000000")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, tenantID, visitor.TenantID)
		assert.Equal(t, "New Visitor", visitor.Name)
		assert.NotEqual(t, uuid.Nil, visitor.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert Race Re-Reads Winner", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVisitorRepository(db)

		winnerID := uuid.New()

		// The conflicting insert affects zero rows instead of raising a
		// unique violation, so the transaction stays usable. An error
		// here would abort the whole Postgres transaction and the
		// re-read would fail instead of resolving the race.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE tenant_id`).
			WithArgs(tenantID, "race@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`(?s)INSERT INTO visitors.+ON CONFLICT \(tenant_id, email\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE tenant_id`).
			WithArgs(tenantID, "race@example.com").
			WillReturnRows(visitorRows(winnerID, tenantID, "Race Winner", "race@example.com", "0771111111"))

		tx, err := db.Beginx()
		require.NoError(t, err)

		visitor, created, err := repo.FindOrCreateTx(tx, tenantID, "Race Loser", "race@example.com", "0772222222")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, winnerID, visitor.ID)
		assert.Equal(t, "Race Winner", visitor.Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVisitorGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVisitorRepository(db)

	tenantID := uuid.New()

	t.Run("Not Found", func(t *testing.T) {
		missing := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE tenant_id`).
			WithArgs(tenantID, missing).
			WillReturnError(sql.ErrNoRows)

		visitor, err := repo.GetByID(tenantID, missing)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, visitor)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
