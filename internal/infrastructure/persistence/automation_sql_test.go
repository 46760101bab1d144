package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/marketing"
)

// The counter bumps and the task claim must stay single-statement
// conditional updates; these tests pin the SQL actually issued.

func mockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestIncrementCounters_SQL(t *testing.T) {
	t.Run("success bumps total and success in one statement", func(t *testing.T) {
		db, mock := mockGorm(t)
		repo := NewGormEmailAutomationRepository(db)
		id := uuid.New()

		mock.ExpectExec(`UPDATE "email_automations" SET .*success_runs.*total_runs.* WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.IncrementCounters(context.Background(), id, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure bumps total and failure in one statement", func(t *testing.T) {
		db, mock := mockGorm(t)
		repo := NewGormSmsAutomationRepository(db)
		id := uuid.New()

		mock.ExpectExec(`UPDATE "sms_automations" SET .*failure_runs.*total_runs.* WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.IncrementCounters(context.Background(), id, false))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFlowTaskClaim_SQL(t *testing.T) {
	t.Run("claim is a conditional status flip", func(t *testing.T) {
		db, mock := mockGorm(t)
		repo := NewGormFlowTaskRepository(db)
		id := uuid.New()

		mock.ExpectExec(`UPDATE "flow_tasks" SET "status"=\$1 WHERE id = \$2 AND status = \$3`).
			WithArgs(marketing.TaskStatusRunning, id, marketing.TaskStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.Claim(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows means another pass won the claim", func(t *testing.T) {
		db, mock := mockGorm(t)
		repo := NewGormFlowTaskRepository(db)
		id := uuid.New()

		mock.ExpectExec(`UPDATE "flow_tasks"`).
			WithArgs(marketing.TaskStatusRunning, id, marketing.TaskStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.Claim(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, claimed)
	})
}
