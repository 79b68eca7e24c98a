package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/filter"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

func TestConnectString(t *testing.T) {
	assert.Equal(t, "localhost:1521/orcl", ConnectString(adapter.ConnectionConfig{
		Host: "localhost", Port: 1521, DatabaseName: "orcl",
	}))
	assert.Equal(t, "db.local:1522/XEPDB1?connect_timeout=5", ConnectString(adapter.ConnectionConfig{
		Host: "db.local", Port: 1522, DatabaseName: "XEPDB1", Parameters: map[string]string{"connect_timeout": "5"},
	}))
}

func TestQuerySet(t *testing.T) {
	qs := NewAdapter().Queries()
	require.NoError(t, qs.Validate())

	spec := (&filter.Spec{}).
		Add(filter.Equals, filter.FieldSchema, "HR").
		Add(filter.MatchesRegex, filter.FieldTableName, "^EMP").
		Add(filter.NotMatchesRegex, filter.FieldTableName, "_OLD$")

	q, err := qs.Query(catalog.KindTables, spec)
	require.NoError(t, err)
	assert.Contains(t, q.SQL(), "AND tab.OWNER = 'HR'\n")
	assert.Contains(t, q.SQL(), "AND REGEXP_LIKE(tab.TABLE_NAME, '^EMP')\n")
	assert.Contains(t, q.SQL(), "AND NOT REGEXP_LIKE(tab.TABLE_NAME, '_OLD$')\n")

	q, err = qs.Query(catalog.KindColumns, spec)
	require.NoError(t, err)
	assert.Contains(t, q.SQL(), "AND REGEXP_LIKE(col.TABLE_NAME, '^EMP')\n")

	q, err = qs.Query(catalog.KindTriggers, spec)
	require.NoError(t, err)
	assert.Contains(t, q.SQL(), "AND tr.OWNER = 'HR'\n")
	assert.NotContains(t, q.SQL(), "EMP")
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{"oracle", "oracledb"} {
		e, err := catalog.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, dbcapabilities.Oracle, e.Type())
	}
}
