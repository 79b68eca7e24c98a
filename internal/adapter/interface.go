// Package adapter defines the contract every engine connector implements
// and the typed errors shared by connectors, queries and the orchestrator.
package adapter

import (
	"context"

	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// DatabaseAdapter represents a database technology adapter.
// Each engine (PostgreSQL, MySQL, SQL Server, Oracle) implements this interface.
type DatabaseAdapter interface {
	// Type returns the canonical database type identifier
	Type() dbcapabilities.DatabaseID

	// Capabilities returns the capability metadata for this database type
	Capabilities() dbcapabilities.Capability

	// Connect establishes a connection to a specific database
	Connect(ctx context.Context, config ConnectionConfig) (Connection, error)
}

// Cursor iterates the rows of one result set.
type Cursor interface {
	// Columns returns the column labels in the order reported by the driver.
	Columns() []string
	Next() bool
	// Values returns the current row, one element per column.
	Values() ([]any, error)
	Err() error
	Close() error
}

// Querier executes raw SQL and returns a cursor over the result.
type Querier interface {
	QueryCursor(ctx context.Context, sql string) (Cursor, error)
}

// Connection represents an active connection to a specific database.
// A connection belongs to exactly one invocation and is never shared.
type Connection interface {
	Querier

	// Identity and status
	ID() string
	Type() dbcapabilities.DatabaseID
	IsConnected() bool

	// Lifecycle management
	Ping(ctx context.Context) error
	Close() error

	Config() ConnectionConfig
}
