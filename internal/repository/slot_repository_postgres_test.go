package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

const claimSQL = `UPDATE "availability_slots" SET .* WHERE \(?id = \$\d+ AND order_id IS NULL AND is_available = \$\d+\)?`

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestSlotRepository_ClaimPostgresSQL(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormSlotRepository(gdb)

	mock.ExpectExec(claimSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Claim(context.Background(), uuid.New(), uuid.New()))

	mock.ExpectExec(claimSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Claim(context.Background(), uuid.New(), uuid.New())
	require.True(t, errors.Is(err, model.ErrSlotUnavailable), "got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateGuardedPostgresSQL(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormOrderRepository(gdb)

	mock.ExpectExec(`UPDATE "orders" SET .*"version"=\$\d+.* WHERE \(?id = \$\d+ AND status = \$\d+ AND version = \$\d+\)?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateGuarded(context.Background(), uuid.New(), model.OrderStatusRequested, 3, map[string]any{
		"status": model.OrderStatusApproved,
	})
	require.ErrorIs(t, err, model.ErrConcurrentModification)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIDForUpdatePostgresSQL(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormOrderRepository(gdb)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "version"}).
			AddRow(id.String(), string(model.OrderStatusRequested), 1))

	o, err := repo.GetByIDForUpdate(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, o.ID)
	require.Equal(t, model.OrderStatusRequested, o.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_LinkPreOrderDataPostgresSQL(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormOrderRepository(gdb)

	mock.ExpectExec(`UPDATE "orders" SET .*"pre_order_data_id"=\$\d+.* WHERE \(?id = \$\d+ AND status = \$\d+\)?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.LinkPreOrderData(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, model.ErrIntakeLocked)
	require.NoError(t, mock.ExpectationsWereMet())
}
