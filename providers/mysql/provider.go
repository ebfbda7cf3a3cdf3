// Package mysql registers the "mysql" and "tidb" providers over
// go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Konsultn-Engineering/querykit/connector"
	"github.com/Konsultn-Engineering/querykit/dialect"
)

const (
	defaultPort     = 3306
	defaultTiDBPort = 4000
)

type Provider struct {
	tidb bool
}

func init() {
	connector.Register("mysql", &Provider{})
	connector.Register("tidb", &Provider{tidb: true})
}

// DSN renders cfg in the driver's own DSN format. Time values are parsed
// into time.Time.
func (p *Provider) DSN(cfg connector.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
		if p.tidb {
			port = defaultTiDBPort
		}
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Loc = time.UTC
	if cfg.ConnectTimeout > 0 {
		mc.Timeout = cfg.ConnectTimeout
	}
	if cfg.SSLMode != "" {
		mc.TLSConfig = cfg.SSLMode
	}
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	if err := cfg.ValidateNetwork(); err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", p.DSN(cfg))
	if err != nil {
		return nil, err
	}
	return connector.NewSQLConnection(ctx, db, p.Dialect(), cfg.Pool)
}

func (p *Provider) Dialect() dialect.Dialect {
	if p.tidb {
		return dialect.NewTiDBDialect()
	}
	return dialect.NewMySQLDialect()
}
