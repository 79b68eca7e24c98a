package rowset

import (
	"context"
	"database/sql"

	"github.com/redbco/redb-dbdoc/internal/adapter"
)

// SQLDB is the part of *sql.DB (or *sql.Conn) the querier needs.
type SQLDB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLQuerier runs queries through database/sql. The mysql, sqlserver and
// godror drivers are all reached this way.
type SQLQuerier struct {
	DB SQLDB
}

// QueryCursor implements adapter.Querier.
func (q SQLQuerier) QueryCursor(ctx context.Context, query string) (adapter.Cursor, error) {
	rows, err := q.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &sqlCursor{rows: rows, columns: columns}, nil
}

type sqlCursor struct {
	rows    *sql.Rows
	columns []string
}

func (c *sqlCursor) Columns() []string { return c.columns }
func (c *sqlCursor) Next() bool { return c.rows.Next() }
func (c *sqlCursor) Err() error { return c.rows.Err() }
func (c *sqlCursor) Close() error { return c.rows.Close() }

func (c *sqlCursor) Values() ([]any, error) {
	values := make([]any, len(c.columns))
	ptrs := make([]any, len(c.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}
