package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// QueryError is returned for every failure that reached the database. Code
// is the driver's native code: a SQLSTATE for Postgres, the error number for
// MySQL and TiDB, the result code for SQLite. It is empty when the driver
// gave none.
type QueryError struct {
	Code    string
	Message string
	SQL     string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("engine: query failed [%s]: %s (sql: %s)", e.Code, e.Message, e.SQL)
	}
	return fmt.Sprintf("engine: query failed: %s (sql: %s)", e.Message, e.SQL)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Postgres SQLSTATE and MySQL numbers for unique violations.
const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = "1062"
	sqliteConstraintUniq = "2067"
)

// IsUniqueViolation reports whether err is a duplicate key error from any
// supported driver.
func IsUniqueViolation(err error) bool {
	var qe *QueryError
	if !errors.As(err, &qe) {
		return false
	}
	switch qe.Code {
	case pgUniqueViolation, mysqlDuplicateEntry, sqliteConstraintUniq:
		return true
	}
	return strings.Contains(qe.Message, "UNIQUE constraint failed")
}

func wrapError(sql string, err error) error {
	if err == nil {
		return nil
	}
	var existing *QueryError
	if errors.As(err, &existing) {
		return err
	}

	qe := &QueryError{SQL: sql, Message: err.Error(), Err: err}

	var (
		pgErr     *pgconn.PgError
		pqErr     *pq.Error
		mysqlErr  *mysql.MySQLError
		sqliteErr *sqlite.Error
	)
	switch {
	case errors.As(err, &pgErr):
		qe.Code, qe.Message = pgErr.Code, pgErr.Message
	case errors.As(err, &pqErr):
		qe.Code, qe.Message = string(pqErr.Code), pqErr.Message
	case errors.As(err, &mysqlErr):
		qe.Code, qe.Message = strconv.Itoa(int(mysqlErr.Number)), mysqlErr.Message
	case errors.As(err, &sqliteErr):
		qe.Code = strconv.Itoa(sqliteErr.Code())
	}
	return qe
}
