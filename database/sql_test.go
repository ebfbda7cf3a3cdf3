package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlDatabaseQuery(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name FROM users WHERE id = ?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Alice"))

	conn := NewSqlDatabase(db)
	rows, err := conn.Query(context.Background(), "SELECT id, name FROM users WHERE id = ?", 1)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, cols)

	require.True(t, rows.Next())
	var (
		id   int64
		name string
	)
	require.NoError(t, rows.Scan(&id, &name))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "Alice", name)
	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlDatabasePreparedExec(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	prep := mock.ExpectPrepare("DELETE FROM users WHERE id = ?")
	prep.ExpectExec().WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.WillBeClosed()

	conn := NewSqlDatabase(db)
	stmt, err := conn.Prepare(context.Background(), "DELETE FROM users WHERE id = ?")
	require.NoError(t, err)

	res, err := stmt.Exec(context.Background(), 7)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, stmt.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlDatabaseCloseLeavesTransactionOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	conn := NewSqlDatabase(tx)
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Ping(context.Background()))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}
