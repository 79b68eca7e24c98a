// Package postgres documents PostgreSQL catalogs through pgx, or through
// lib/pq and database/sql when driver is "postgres".
package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver "postgres"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/engine/sqlconn"
	"github.com/redbco/redb-dbdoc/internal/rowset"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Adapter implements catalog.Engine for PostgreSQL.
type Adapter struct{}

// NewAdapter creates a new PostgreSQL adapter.
func NewAdapter() catalog.Engine {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.PostgreSQL
}

// Capabilities returns the capabilities metadata for PostgreSQL.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.PostgreSQL)
}

// Queries returns the PostgreSQL catalog query set.
func (a *Adapter) Queries() catalog.QuerySet {
	return querySet
}

// ConnString builds a postgres:// URL. Parameters become query arguments;
// sslmode defaults to prefer.
func ConnString(config adapter.ConnectionConfig) string {
	return connString(config, "prefer")
}

// PQConnString is ConnString for lib/pq, which has no prefer mode; sslmode
// defaults to disable.
func PQConnString(config adapter.ConnectionConfig) string {
	return connString(config, "disable")
}

func connString(config adapter.ConnectionConfig, sslmode string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   "/" + config.DatabaseName,
	}
	if config.Password != "" {
		u.User = url.UserPassword(config.Username, config.Password)
	} else if config.Username != "" {
		u.User = url.User(config.Username)
	}

	q := url.Values{}
	for k, v := range config.Parameters {
		q.Set(k, v)
	}
	if q.Get("sslmode") == "" {
		q.Set("sslmode", sslmode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Connect establishes a connection to a PostgreSQL database.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	if err := config.Validate(dbcapabilities.PostgreSQL); err != nil {
		return nil, err
	}

	switch config.Driver {
	case "", "pgx":
	case "postgres", "pq":
		conn, err := sqlconn.Open(ctx, dbcapabilities.PostgreSQL, "postgres", PQConnString(config), config)
		if err != nil {
			return nil, err
		}
		return conn, nil
	default:
		return nil, adapter.NewConfigurationError(dbcapabilities.PostgreSQL, "driver",
			fmt.Sprintf("unsupported driver %q, use pgx or postgres", config.Driver))
	}

	poolConfig, err := pgxpool.ParseConfig(ConnString(config))
	if err != nil {
		return nil, adapter.NewConfigurationError(dbcapabilities.PostgreSQL, "parameters", err.Error())
	}
	// One invocation, one session.
	poolConfig.MaxConns = 1

	// Create connection pool
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, adapter.NewConnectionError(
			dbcapabilities.PostgreSQL,
			config.Host,
			config.Port,
			fmt.Errorf("error connecting to database: %w", err),
		)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, adapter.NewConnectionError(
			dbcapabilities.PostgreSQL,
			config.Host,
			config.Port,
			fmt.Errorf("error pinging database: %w", err),
		)
	}

	conn := &Connection{
		id:        uuid.NewString(),
		pool:      pool,
		config:    config,
		connected: 1, // Mark as connected
	}

	return conn, nil
}

// Connection implements adapter.Connection for PostgreSQL.
type Connection struct {
	id        string
	pool      *pgxpool.Pool
	config    adapter.ConnectionConfig
	connected int32
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Type returns the database type.
func (c *Connection) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.PostgreSQL
}

// IsConnected returns whether the connection is active.
func (c *Connection) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Ping checks if the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the connection.
func (c *Connection) Close() error {
	if atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		c.pool.Close()
	}
	return nil
}

// QueryCursor runs sql on the pool.
func (c *Connection) QueryCursor(ctx context.Context, sql string) (adapter.Cursor, error) {
	if !c.IsConnected() {
		return nil, adapter.ErrConnectionClosed
	}
	return rowset.PgxQuerier{DB: c.pool}.QueryCursor(ctx, sql)
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}
