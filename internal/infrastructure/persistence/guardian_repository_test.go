package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGuardianRepository creates a GormGuardianRepository with a mocked SQL connection
func newMockGuardianRepository(t *testing.T) (*GormGuardianRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormGuardianRepository(gormDB), mock, mockDB
}

func TestNewGormGuardianRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormGuardianRepository_FindByID(t *testing.T) {
	t.Run("finds existing guardian", func(t *testing.T) {
		repo, mock, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		guardianID := uuid.New()
		hospitalID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "hospital_id", "name", "phone", "email", "active"}).
			AddRow(guardianID, hospitalID, "김민지", "010-1234-5678", "minji@example.com", true)

		mock.ExpectQuery(`SELECT \* FROM "guardians" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(guardianID, 1).
			WillReturnRows(rows)

		guardian, err := repo.FindByID(context.Background(), guardianID)

		assert.NoError(t, err)
		assert.NotNil(t, guardian)
		assert.Equal(t, guardianID, guardian.ID)
		assert.Equal(t, "김민지", guardian.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing guardian", func(t *testing.T) {
		repo, mock, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		guardianID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "guardians" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(guardianID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		guardian, err := repo.FindByID(context.Background(), guardianID)

		assert.Error(t, err)
		assert.Nil(t, guardian)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormGuardianRepository_FindByPhone(t *testing.T) {
	t.Run("finds guardian by phone", func(t *testing.T) {
		repo, mock, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		guardianID := uuid.New()
		hospitalID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "hospital_id", "name", "phone", "active"}).
			AddRow(guardianID, hospitalID, "김민지", "010-1234-5678", true)

		mock.ExpectQuery(`SELECT \* FROM "guardians" WHERE hospital_id = \$1 AND phone = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(hospitalID, "010-1234-5678", 1).
			WillReturnRows(rows)

		guardian, err := repo.FindByPhone(context.Background(), hospitalID, "010-1234-5678")

		assert.NoError(t, err)
		assert.NotNil(t, guardian)
		assert.Equal(t, "010-1234-5678", guardian.Phone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for empty phone", func(t *testing.T) {
		repo, _, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		_, err := repo.FindByPhone(context.Background(), uuid.New(), "")

		assert.Error(t, err)
	})
}

func TestGormGuardianRepository_ExistsByPhone(t *testing.T) {
	t.Run("returns true when phone exists", func(t *testing.T) {
		repo, mock, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		hospitalID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "guardians" WHERE hospital_id = \$1 AND phone = \$2`).
			WithArgs(hospitalID, "010-1234-5678").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByPhone(context.Background(), hospitalID, "010-1234-5678")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false without querying for empty phone", func(t *testing.T) {
		repo, _, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		exists, err := repo.ExistsByPhone(context.Background(), uuid.New(), "")

		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormGuardianRepository_DeleteForHospital(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockGuardianRepository(t)
		defer mockDB.Close()

		hospitalID := uuid.New()
		guardianID := uuid.New()

		mock.ExpectExec(`DELETE FROM "guardians" WHERE hospital_id = \$1 AND id = \$2`).
			WithArgs(hospitalID, guardianID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForHospital(context.Background(), hospitalID, guardianID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
