package main

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blog-toolkit/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreateDefaultAdminStopsWhenCountFails(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "a-long-password")
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE role = \$1`).
		WillReturnError(errors.New("connection refused"))

	err := createDefaultAdmin(db, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count admins")
	// no INSERT was attempted
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDefaultAdminSkipsWhenAdminExists(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "a-long-password")
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE role = \$1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	require.NoError(t, createDefaultAdmin(db, logger.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDefaultAdminWithoutPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	require.NoError(t, createDefaultAdmin(db, logger.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
