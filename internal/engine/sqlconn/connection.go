// Package sqlconn is the database/sql connection shared by the mysql, mssql
// and oracle engines, and by postgres when it runs on lib/pq.
package sqlconn

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/rowset"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Connection implements adapter.Connection over *sql.DB.
type Connection struct {
	rowset.SQLQuerier

	id        string
	dbType    dbcapabilities.DatabaseID
	db        *sql.DB
	config    adapter.ConnectionConfig
	connected int32
}

// Open opens driverName with dsn and verifies the connection with a ping.
// An unregistered driver name is a configuration error.
func Open(ctx context.Context, dbType dbcapabilities.DatabaseID, driverName, dsn string, config adapter.ConnectionConfig) (*Connection, error) {
	if !slices.Contains(sql.Drivers(), driverName) {
		return nil, adapter.NewConfigurationError(dbType, "driver",
			fmt.Sprintf("driver %q is not available, registered drivers: %v", driverName, sql.Drivers()))
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, adapter.NewConnectionError(dbType, config.Host, config.Port,
			fmt.Errorf("error connecting to database: %w", err))
	}
	return Attach(ctx, dbType, db, config)
}

// Attach pings db and wraps it. db is closed when the ping fails.
func Attach(ctx context.Context, dbType dbcapabilities.DatabaseID, db *sql.DB, config adapter.ConnectionConfig) (*Connection, error) {
	// One invocation runs its queries sequentially on a single session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, adapter.NewConnectionError(dbType, config.Host, config.Port,
			fmt.Errorf("error pinging database: %w", err))
	}

	return &Connection{
		SQLQuerier: rowset.SQLQuerier{DB: db},
		id:         uuid.NewString(),
		dbType:     dbType,
		db:         db,
		config:     config,
		connected:  1,
	}, nil
}

func (c *Connection) ID() string { return c.id }
func (c *Connection) Type() dbcapabilities.DatabaseID { return c.dbType }
func (c *Connection) IsConnected() bool { return atomic.LoadInt32(&c.connected) == 1 }
func (c *Connection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }
func (c *Connection) Config() adapter.ConnectionConfig { return c.config }

// Close closes the underlying pool. It is safe to call more than once.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return nil
	}
	return c.db.Close()
}

// QueryCursor implements adapter.Querier, refusing closed connections.
func (c *Connection) QueryCursor(ctx context.Context, query string) (adapter.Cursor, error) {
	if !c.IsConnected() {
		return nil, adapter.ErrConnectionClosed
	}
	return c.SQLQuerier.QueryCursor(ctx, query)
}
