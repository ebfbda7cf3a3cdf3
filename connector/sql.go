package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/querykit/database"
	"github.com/Konsultn-Engineering/querykit/dialect"
)

// SQLConnection is a Connection over a database/sql pool. Providers built on
// a database/sql driver return one.
type SQLConnection struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// NewSQLConnection applies pool to db and pings it once.
func NewSQLConnection(ctx context.Context, db *sql.DB, d dialect.Dialect, pool PoolConfig) (*SQLConnection, error) {
	pool = pool.WithDefaults()
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)
	db.SetConnMaxIdleTime(pool.MaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLConnection{db: db, dialect: d}, nil
}

func (c *SQLConnection) DB() *sql.DB {
	return c.db
}

func (c *SQLConnection) Conn() database.Conn {
	return database.NewSqlDatabase(c.db)
}

func (c *SQLConnection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *SQLConnection) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *SQLConnection) Stats() ConnectionStats {
	return statsFromDB(c.db.Stats())
}

func (c *SQLConnection) Close() error {
	return c.db.Close()
}
