// Package mysql documents MySQL and MariaDB catalogs through go-sql-driver/mysql.
package mysql

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/engine/sqlconn"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Adapter implements catalog.Engine for MySQL.
type Adapter struct{}

// NewAdapter creates a new MySQL adapter.
func NewAdapter() catalog.Engine {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.MySQL
}

// Capabilities returns the capabilities metadata for MySQL.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.MySQL)
}

// Queries returns the MySQL catalog query set.
func (a *Adapter) Queries() catalog.QuerySet {
	return querySet
}

// DSN builds a go-sql-driver DSN. Parameters are passed through as DSN params.
func DSN(config adapter.ConnectionConfig) string {
	cfg := mysql.NewConfig()
	cfg.User = config.Username
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	cfg.DBName = config.DatabaseName
	cfg.Timeout = 10 * time.Second

	if len(config.Parameters) > 0 {
		cfg.Params = make(map[string]string, len(config.Parameters))
		for k, v := range config.Parameters {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN()
}

// Connect establishes a connection to a MySQL database.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	if err := config.Validate(dbcapabilities.MySQL); err != nil {
		return nil, err
	}

	driver := config.Driver
	if driver == "" {
		driver = a.Capabilities().DefaultDriver
	}
	conn, err := sqlconn.Open(ctx, dbcapabilities.MySQL, driver, DSN(config), config)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
