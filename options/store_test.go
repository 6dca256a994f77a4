package options

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestGormStoreLoad(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "options" WHERE key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow(OptionKey, `{"metainfo":{}}`))

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"metainfo":{}}`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreLoadMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "options"`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreSave(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO "options" .+ ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), []byte(`{}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
