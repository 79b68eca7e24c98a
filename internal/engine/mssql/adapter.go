// Package mssql documents Microsoft SQL Server catalogs through go-mssqldb.
package mssql

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/engine/sqlconn"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Adapter implements catalog.Engine for SQL Server.
type Adapter struct{}

// NewAdapter creates a new SQL Server adapter.
func NewAdapter() catalog.Engine {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.SQLServer
}

// Capabilities returns the capabilities metadata for SQL Server.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.SQLServer)
}

// Queries returns the SQL Server catalog query set.
func (a *Adapter) Queries() catalog.QuerySet {
	return querySet
}

// DSN builds a sqlserver:// URL. With a trusted connection the user info is
// left out and the driver falls back to integrated authentication.
func DSN(config adapter.ConnectionConfig) string {
	q := url.Values{}
	for k, v := range config.Parameters {
		q.Set(k, v)
	}
	q.Set("database", config.DatabaseName)

	u := url.URL{
		Scheme:   "sqlserver",
		Host:     net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		RawQuery: q.Encode(),
	}
	if !config.TrustedConnection && config.Username != "" {
		u.User = url.UserPassword(config.Username, config.Password)
	}
	return u.String()
}

// driverName picks the database/sql driver. ODBC driver names such as
// "{ODBC Driver 17 for SQL Server}" are accepted and ignored.
func (a *Adapter) driverName(config adapter.ConnectionConfig) string {
	d := strings.TrimSpace(config.Driver)
	if d == "" || strings.HasPrefix(d, "{") {
		return a.Capabilities().DefaultDriver
	}
	return d
}

// Connect establishes a connection to a SQL Server database.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	if err := config.Validate(dbcapabilities.SQLServer); err != nil {
		return nil, err
	}
	conn, err := sqlconn.Open(ctx, dbcapabilities.SQLServer, a.driverName(config), DSN(config), config)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
