package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kickai/kickai/internal/kerrors"
)

// These tests exercise the driver-error paths a real sqlite database rarely
// produces in a test run (connection loss mid-query, corrupt row data) by
// mocking the database/sql driver directly, mirroring the teacher's
// sqlmock-based locker tests.

func TestGetWrapsDriverErrorAsUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	col := &sqliteCollection{db: db, table: "players"}

	mock.ExpectQuery(`SELECT body FROM players WHERE id = \?`).
		WithArgs("p1").
		WillReturnError(errors.New("disk I/O error"))

	_, found, err := col.Get(context.Background(), "p1")
	require.Error(t, err)
	assert.False(t, found)
	assert.Equal(t, kerrors.CodeServiceUnavailable, kerrors.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReturnsCorruptionOnInvalidJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	col := &sqliteCollection{db: db, table: "players"}

	mock.ExpectQuery(`SELECT body FROM players WHERE id = \?`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow("{not json"))

	_, found, err := col.Get(context.Background(), "p1")
	require.Error(t, err)
	assert.False(t, found)
	assert.Equal(t, kerrors.CodeDataCorruption, kerrors.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPutWrapsDriverErrorAsUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	col := &sqliteCollection{db: db, table: "players"}

	mock.ExpectExec(`INSERT INTO players`).
		WithArgs("p1", sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	err = col.Put(context.Background(), "p1", map[string]any{"id": "p1"})
	require.Error(t, err)
	assert.Equal(t, kerrors.CodeServiceUnavailable, kerrors.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWrapsDriverErrorAsUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	col := &sqliteCollection{db: db, table: "players"}

	mock.ExpectQuery(`SELECT body FROM players`).
		WillReturnError(driver.ErrBadConn)

	_, err = col.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, kerrors.CodeServiceUnavailable, kerrors.CodeOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
