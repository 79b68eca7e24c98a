package rowset

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/redbco/redb-dbdoc/internal/adapter"
)

// PgxDB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type PgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxQuerier runs queries through pgx.
type PgxQuerier struct {
	DB PgxDB
}

// QueryCursor implements adapter.Querier.
func (q PgxQuerier) QueryCursor(ctx context.Context, sql string) (adapter.Cursor, error) {
	// Simple protocol keeps the catalog text unprepared, matching a plain psql session.
	rows, err := q.DB.Query(ctx, sql, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, err
	}
	fds := rows.FieldDescriptions()
	columns := make([]string, len(fds))
	for i, fd := range fds {
		columns[i] = fd.Name
	}
	return &pgxCursor{rows: rows, columns: columns}, nil
}

type pgxCursor struct {
	rows    pgx.Rows
	columns []string
}

func (c *pgxCursor) Columns() []string { return c.columns }
func (c *pgxCursor) Next() bool { return c.rows.Next() }
func (c *pgxCursor) Values() ([]any, error) { return c.rows.Values() }
func (c *pgxCursor) Err() error { return c.rows.Err() }

func (c *pgxCursor) Close() error {
	c.rows.Close()
	return c.rows.Err()
}
