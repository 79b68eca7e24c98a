package rowset

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"

	"github.com/redbco/redb-dbdoc/internal/adapter"
)

// Materialize executes sql on q and reads every row. Any failure, including
// one surfaced while iterating, is returned as an *adapter.QueryError
// carrying sql. Nothing is retried.
func Materialize(ctx context.Context, q adapter.Querier, sql string) ([]Row, error) {
	if q == nil {
		return nil, adapter.NewQueryError(sql, adapter.ErrConnectionClosed)
	}

	cur, err := q.QueryCursor(ctx, sql)
	if err != nil {
		return nil, adapter.NewQueryError(sql, err)
	}
	defer cur.Close()

	columns := append([]string(nil), cur.Columns()...)
	rows := make([]Row, 0)
	for cur.Next() {
		raw, err := cur.Values()
		if err != nil {
			return nil, adapter.NewQueryError(sql, err)
		}
		if len(raw) != len(columns) {
			return nil, adapter.NewQueryError(sql,
				fmt.Errorf("row has %d values for %d columns", len(raw), len(columns)))
		}

		values := make([]string, len(raw))
		for i, v := range raw {
			s, err := Stringify(v)
			if err != nil {
				return nil, adapter.NewQueryError(sql, fmt.Errorf("column %s: %w", columns[i], err))
			}
			values[i] = s
		}
		rows = append(rows, Row{Columns: columns, Values: values})
	}
	if err := cur.Err(); err != nil {
		return nil, adapter.NewQueryError(sql, err)
	}
	if err := cur.Close(); err != nil {
		return nil, adapter.NewQueryError(sql, err)
	}
	return rows, nil
}

// Stringify converts a driver value to text. Null becomes "". Zero values
// of other types keep their textual form.
func Stringify(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case *string:
		if x == nil {
			return "", nil
		}
		return *x, nil
	case driver.Valuer:
		inner, err := x.Value()
		if err != nil {
			return "", err
		}
		if inner == nil {
			return "", nil
		}
		if _, again := inner.(driver.Valuer); again {
			return fmt.Sprint(inner), nil
		}
		return Stringify(inner)
	case io.Reader:
		b, err := io.ReadAll(x)
		if err != nil {
			return "", fmt.Errorf("reading LOB: %w", err)
		}
		return string(b), nil
	default:
		return fmt.Sprint(x), nil
	}
}
