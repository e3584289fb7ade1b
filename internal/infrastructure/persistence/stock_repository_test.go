package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStockRepository(t *testing.T) (*GormStockRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormStockRepository(gormDB), mock, mockDB
}

func TestGormStockRepository_FindByProductAndLot(t *testing.T) {
	t.Run("finds stock row by lot", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stockID := uuid.New()
		hospitalID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "hospital_id", "product_id", "lot_number", "quantity", "version"}).
			AddRow(stockID, hospitalID, productID, "LOT-2026-01", decimal.NewFromInt(25), 3)

		mock.ExpectQuery(`SELECT \* FROM "inventory_stocks" WHERE hospital_id = \$1 AND product_id = \$2 AND lot_number = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(hospitalID, productID, "LOT-2026-01", 1).
			WillReturnRows(rows)

		stock, err := repo.FindByProductAndLot(context.Background(), hospitalID, productID, "LOT-2026-01")

		assert.NoError(t, err)
		assert.NotNil(t, stock)
		assert.Equal(t, "LOT-2026-01", stock.LotNumber)
		assert.Equal(t, 3, stock.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown lot", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		hospitalID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_stocks" WHERE hospital_id = \$1 AND product_id = \$2 AND lot_number = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(hospitalID, productID, "NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		stock, err := repo.FindByProductAndLot(context.Background(), hospitalID, productID, "NOPE")

		assert.Nil(t, stock)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_TotalQuantityByProduct(t *testing.T) {
	t.Run("sums quantity across lots", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		hospitalID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "inventory_stocks" WHERE hospital_id = \$1 AND product_id = \$2`).
			WithArgs(hospitalID, productID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("42.5"))

		total, err := repo.TotalQuantityByProduct(context.Background(), hospitalID, productID)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("42.5")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_SaveWithLock(t *testing.T) {
	t.Run("returns conflict when version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stock := &inventory.InventoryStock{}
		stock.ID = uuid.New()
		stock.Version = 2
		stock.Quantity = decimal.NewFromInt(10)

		mock.ExpectExec(`UPDATE "inventory_stocks" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), stock)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.Equal(t, 2, stock.Version, "version restored after failed save")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bumps version on success", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stock := &inventory.InventoryStock{}
		stock.ID = uuid.New()
		stock.Version = 2
		stock.Quantity = decimal.NewFromInt(10)

		mock.ExpectExec(`UPDATE "inventory_stocks" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), stock)

		assert.NoError(t, err)
		assert.Equal(t, 3, stock.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
