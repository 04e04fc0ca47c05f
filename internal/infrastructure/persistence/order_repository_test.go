package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func orderColumns() []string {
	return []string{"id", "created_at", "updated_at", "version", "practice_id", "created_by",
		"reference_code", "supplier_id", "supplier_name", "status", "notes",
		"sent_at", "expected_at", "received_at", "cancelled_at", "cancel_reason"}
}

func orderLineColumns() []string {
	return []string{"id", "order_id", "item_id", "item_name", "unit", "quantity", "unit_price", "notes", "created_at", "updated_at"}
}

func TestGormOrderRepository_FindByIDForPractice(t *testing.T) {
	t.Run("finds order with lines", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		practiceID := uuid.New()
		lineID := uuid.New()
		itemID := uuid.New()
		now := time.Now()

		orderRows := sqlmock.NewRows(orderColumns()).
			AddRow(orderID, now, now, 2, practiceID, nil,
				"PO-2026-00001", uuid.New(), "Vet Supplies GmbH", "SENT", "",
				&now, nil, nil, nil, "")

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE practice_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(practiceID, orderID, 1).
			WillReturnRows(orderRows)

		lineRows := sqlmock.NewRows(orderLineColumns()).
			AddRow(lineID, orderID, itemID, "Vaccine Batch A", "vial", int64(10), nil, "", now, now)

		mock.ExpectQuery(`SELECT \* FROM "order_lines" WHERE "order_lines"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(lineRows)

		order, err := repo.FindByIDForPractice(context.Background(), practiceID, orderID)

		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "PO-2026-00001", order.ReferenceCode)
		assert.Equal(t, procurement.OrderStatusSent, order.Status)
		require.Len(t, order.Lines, 1)
		assert.Equal(t, itemID, order.Lines[0].ItemID)
		assert.Equal(t, int64(10), order.Lines[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		practiceID := uuid.New()
		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE practice_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(practiceID, orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByIDForPractice(context.Background(), practiceID, orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_CountByStatus(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	practiceID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE practice_id = \$1 AND status = \$2`).
		WithArgs(practiceID, procurement.OrderStatusSent).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountByStatus(context.Background(), practiceID, procurement.OrderStatusSent)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_GenerateReferenceCode(t *testing.T) {
	t.Run("starts at 00001 when no orders exist for the year", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		practiceID := uuid.New()
		prefix := fmt.Sprintf("PO-%d-", time.Now().Year())

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE practice_id = \$1 AND reference_code LIKE \$2 ORDER BY reference_code DESC.* LIMIT .*`).
			WithArgs(practiceID, prefix+"%", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE practice_id = \$1 AND reference_code = \$2`).
			WithArgs(practiceID, prefix+"00001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		code, err := repo.GenerateReferenceCode(context.Background(), practiceID)

		require.NoError(t, err)
		assert.Equal(t, prefix+"00001", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments the highest existing number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		practiceID := uuid.New()
		now := time.Now()
		prefix := fmt.Sprintf("PO-%d-", now.Year())

		rows := sqlmock.NewRows(orderColumns()).
			AddRow(uuid.New(), now, now, 1, practiceID, nil,
				prefix+"00041", uuid.New(), "Vet Supplies GmbH", "SENT", "",
				nil, nil, nil, nil, "")

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE practice_id = \$1 AND reference_code LIKE \$2 ORDER BY reference_code DESC.* LIMIT .*`).
			WithArgs(practiceID, prefix+"%", 1).
			WillReturnRows(rows)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE practice_id = \$1 AND reference_code = \$2`).
			WithArgs(practiceID, prefix+"00042").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		code, err := repo.GenerateReferenceCode(context.Background(), practiceID)

		require.NoError(t, err)
		assert.Equal(t, prefix+"00042", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
