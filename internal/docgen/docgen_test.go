package docgen

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/engine/sqlconn"
	"github.com/redbco/redb-dbdoc/internal/filter"
	"github.com/redbco/redb-dbdoc/internal/options"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
	"github.com/redbco/redb-dbdoc/pkg/logger"
)

// sqliteEngine serves a canned catalog from an in-memory SQLite database.
type sqliteEngine struct {
	connectErr error
	brokenView bool
	conns      []adapter.Connection
}

var catalogDDL = []string{
	`CREATE TABLE cat_tables (schemaname TEXT, relname TEXT, description TEXT)`,
	`CREATE TABLE cat_columns (table_schema TEXT, table_name TEXT, ordinal_position INTEGER,
		column_name TEXT, is_nullable TEXT, data_type TEXT, description TEXT)`,
	`CREATE TABLE cat_fks (table_schema TEXT, table_name TEXT, column_name TEXT,
		foreign_table_schema TEXT, foreign_table_name TEXT, foreign_column_name TEXT)`,
	`CREATE TABLE cat_views (schemaname TEXT, viewname TEXT, definition TEXT)`,
	`CREATE TABLE cat_functions (routine_schema TEXT, routine_name TEXT, specific_name TEXT)`,
	`CREATE TABLE cat_parameters (specific_schema TEXT, specific_name TEXT, parameter_name TEXT)`,
	`CREATE TABLE cat_triggers (trigger_schema TEXT, trigger_name TEXT, event_object_table TEXT)`,
	`INSERT INTO cat_tables VALUES ('public', 'users', NULL), ('public', 'orders', NULL)`,
	`INSERT INTO cat_columns VALUES
		('public', 'users', 1, 'id', 'NO', 'integer', NULL),
		('public', 'users', 2, 'name', 'YES', 'character varying', NULL),
		('public', 'users', 3, 'email', 'YES', 'character varying', NULL),
		('public', 'orders', 1, 'id', 'NO', 'integer', NULL)`,
}

func (e *sqliteEngine) Type() dbcapabilities.DatabaseID { return dbcapabilities.PostgreSQL }

func (e *sqliteEngine) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.PostgreSQL)
}

func (e *sqliteEngine) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	if e.connectErr != nil {
		return nil, e.connectErr
	}
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	conn, err := sqlconn.Attach(ctx, dbcapabilities.PostgreSQL, db, config)
	if err != nil {
		return nil, err
	}
	for _, stmt := range catalogDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, err
		}
	}
	e.conns = append(e.conns, conn)
	return conn, nil
}

func (e *sqliteEngine) Queries() catalog.QuerySet {
	schemaTable := filter.Fields{filter.FieldSchema: "schemaname", filter.FieldTableName: "relname"}
	columnFields := filter.Fields{filter.FieldSchema: "table_schema", filter.FieldTableName: "table_name"}
	views := "SELECT * FROM cat_views WHERE 1=1\n{filters}"
	if e.brokenView {
		views = "SELECT * FROM no_such_table WHERE name NOT LIKE '%FUNCTION%'\n{filters}"
	}
	return catalog.QuerySet{
		Dialect: filter.Dialect{Name: "sqlite"},
		Templates: map[catalog.Kind]catalog.Template{
			catalog.KindTables:      {SQL: "SELECT * FROM cat_tables WHERE 1=1\n{filters}ORDER BY relname DESC", Fields: schemaTable},
			catalog.KindColumns:     {SQL: "SELECT * FROM cat_columns WHERE 1=1\n{filters}ORDER BY ordinal_position", Fields: columnFields},
			catalog.KindForeignKeys: {SQL: "SELECT * FROM cat_fks WHERE 1=1\n{filters}"},
			catalog.KindViews:       {SQL: views, Fields: filter.Fields{filter.FieldSchema: "schemaname"}},
			catalog.KindFunctions:   {SQL: "SELECT * FROM cat_functions WHERE 1=1\n{filters}"},
			catalog.KindParameters:  {SQL: "SELECT * FROM cat_parameters WHERE 1=1\n{filters}"},
			catalog.KindTriggers:    {SQL: "SELECT * FROM cat_triggers WHERE 1=1\n{filters}"},
		},
		Labels: catalog.Labels{
			Tables:      catalog.TableLabels{Schema: "schemaname", Name: "relname", Comment: "description"},
			Columns:     catalog.ColumnLabels{Schema: "table_schema", Table: "table_name", Position: "ordinal_position", Name: "column_name", Nullable: "is_nullable", DataType: "data_type", Comment: "description"},
			ForeignKeys: catalog.ForeignKeyLabels{Schema: "table_schema", Table: "table_name", Column: "column_name", RefSchema: "foreign_table_schema", RefTable: "foreign_table_name", RefColumn: "foreign_column_name"},
			Views:       catalog.ViewLabels{Schema: "schemaname", Name: "viewname", Definition: "definition"},
			Functions:   catalog.FunctionLabels{Schema: "routine_schema", Name: "routine_name", SpecificName: "specific_name"},
			Parameters:  catalog.ParameterLabels{Schema: "specific_schema", SpecificName: "specific_name", Name: "parameter_name"},
			Triggers:    catalog.TriggerLabels{Schema: "trigger_schema", Name: "trigger_name", Table: "event_object_table"},
		},
	}
}

func newGenerator(t *testing.T, engine *sqliteEngine, config *options.Config) (*Generator, <-chan logger.LogEntry) {
	t.Helper()
	reg := catalog.NewRegistry()
	reg.Register(engine)

	log := logger.New("dbdoc-test", "")
	log.SetOutput(io.Discard)
	return New(reg, config, log), log.Subscribe()
}

func drain(ch <-chan logger.LogEntry) []logger.LogEntry {
	var out []logger.LogEntry
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

const usersMarkdown = "\n# Tables\n\n\n## users\n\n\n\n" +
	"column | nullable | type | descr | fkey\n" +
	"------ | -------- | ---- | ----- | ----\n" +
	"id | NO | integer |  |\n" +
	"name | YES | character varying |  |\n" +
	"email | YES | character varying |  |\n\n"

func usersTag() options.Options {
	return options.Options{
		DBMS:       options.Ptr("pgsql"),
		Scheme:     options.Ptr(false),
		Components: []string{"tables"},
		Filters:    (&filter.Spec{}).Add(filter.Equals, filter.FieldTableName, "users"),
	}
}

func TestGenerateUsers(t *testing.T) {
	engine := &sqliteEngine{}
	g, _ := newGenerator(t, engine, nil)

	out, err := g.Generate(context.Background(), usersTag())
	require.NoError(t, err)
	assert.Equal(t, usersMarkdown, out)

	require.Len(t, engine.conns, 1)
	assert.False(t, engine.conns[0].IsConnected(), "connection is closed after the block")
}

func TestGenerateYAML(t *testing.T) {
	engine := &sqliteEngine{}
	g, _ := newGenerator(t, engine, nil)

	tag := usersTag()
	tag.Format = options.Ptr("yaml")
	tag.DocTemplate = options.Ptr("/nonexistent/doc.tmpl")
	out, err := g.Generate(context.Background(), tag)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "filters:\n  eq:\n    table_name: users\n"), out)
	assert.Contains(t, out, "catalog:\n  engine: postgres\n")
	assert.Contains(t, out, "name: users\n")
	assert.NotContains(t, out, "orders")
	assert.NotContains(t, out, "# Tables")

	require.Len(t, engine.conns, 1)
	assert.False(t, engine.conns[0].IsConnected())
}

func TestGenerateDocAndScheme(t *testing.T) {
	g, _ := newGenerator(t, &sqliteEngine{}, nil)

	out, err := g.Generate(context.Background(), options.Options{DBMS: options.Ptr("postgres")})
	require.NoError(t, err)

	doc, scheme, ok := strings.Cut(out, "\n\n@startuml\n")
	require.True(t, ok, out)
	assert.Less(t, strings.Index(doc, "## users"), strings.Index(doc, "## orders"))
	assert.Contains(t, scheme, "entity \"orders\" as public_orders")
	assert.Contains(t, scheme, "entity \"users\" as public_users")
}

func TestGenerateConfigLayers(t *testing.T) {
	config, err := options.Parse([]byte(`
dbdoc:
  scheme: false
engines:
  postgres:
    components: [tables]
    filters:
      eq:
        table_name: orders
`))
	require.NoError(t, err)
	g, _ := newGenerator(t, &sqliteEngine{}, config)

	out, err := g.Generate(context.Background(), options.Options{DBMS: options.Ptr("pgsql")})
	require.NoError(t, err)
	assert.Contains(t, out, "## orders")
	assert.NotContains(t, out, "## users")
	assert.NotContains(t, out, "@startuml")

	out, err = g.Generate(context.Background(), usersTag())
	require.NoError(t, err)
	assert.Equal(t, usersMarkdown, out, "tag filters replace configured filters")
}

func TestGenerateConnectionFailure(t *testing.T) {
	refused := adapter.NewConnectionError(dbcapabilities.PostgreSQL, "localhost", 5432, errors.New("connection refused"))

	t.Run("lenient", func(t *testing.T) {
		g, logs := newGenerator(t, &sqliteEngine{connectErr: refused}, nil)

		out, err := g.Generate(context.Background(), usersTag())
		require.NoError(t, err)
		assert.Empty(t, out)

		var skipped bool
		for _, e := range drain(logs) {
			if e.Level == "DEBUG" && strings.HasSuffix(e.Message, ". Skipping.") {
				skipped = true
				assert.Contains(t, e.Message, "PostgreSQL database connection error")
				assert.NotEmpty(t, e.Fields["run"])
			}
		}
		assert.True(t, skipped)
	})

	t.Run("strict", func(t *testing.T) {
		g, logs := newGenerator(t, &sqliteEngine{connectErr: refused}, nil)

		tag := usersTag()
		tag.Strict = options.Ptr(true)
		_, err := g.Generate(context.Background(), tag)
		require.Error(t, err)
		assert.True(t, IsFatal(err))
		assert.True(t, adapter.IsConnectionError(err))
		assert.Contains(t, err.Error(), "PostgreSQL database connection error")

		var logged bool
		for _, e := range drain(logs) {
			logged = logged || e.Level == "ERROR"
		}
		assert.True(t, logged)
	})
}

func TestGenerateQueryFailure(t *testing.T) {
	g, _ := newGenerator(t, &sqliteEngine{brokenView: true}, nil)

	out, err := g.Generate(context.Background(), options.Options{DBMS: options.Ptr("pgsql")})
	require.NoError(t, err)
	assert.Empty(t, out)

	engine := &sqliteEngine{brokenView: true}
	g, logs := newGenerator(t, engine, nil)
	_, err = g.Generate(context.Background(), options.Options{DBMS: options.Ptr("pgsql"), Strict: options.Ptr(true)})
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.True(t, adapter.IsQueryError(err))
	assert.Contains(t, err.Error(), "no_such_table")
	require.Len(t, engine.conns, 1)
	assert.False(t, engine.conns[0].IsConnected())

	// The SQL in the message is logged verbatim.
	var logged []string
	for _, e := range drain(logs) {
		if e.Level == "ERROR" {
			logged = append(logged, e.Message)
		}
	}
	require.Len(t, logged, 1)
	assert.Equal(t, err.Error(), logged[0])
	assert.Contains(t, logged[0], "'%FUNCTION%'")
	assert.NotContains(t, logged[0], "%!")
}

func TestGenerateAlwaysReturned(t *testing.T) {
	tests := []struct {
		name   string
		engine *sqliteEngine
		tag    options.Options
		check  func(error) bool
	}{
		{
			name:   "missing dbms",
			engine: &sqliteEngine{},
			tag:    options.Options{},
			check:  adapter.IsConfigurationError,
		},
		{
			name:   "unregistered engine",
			engine: &sqliteEngine{},
			tag:    options.Options{DBMS: options.Ptr("oracle")},
			check:  adapter.IsConfigurationError,
		},
		{
			name:   "bad component",
			engine: &sqliteEngine{},
			tag:    options.Options{DBMS: options.Ptr("pgsql"), Components: []string{"indexes"}},
			check:  adapter.IsConfigurationError,
		},
		{
			name:   "bad filter operand",
			engine: &sqliteEngine{},
			tag:    options.Options{DBMS: options.Ptr("pgsql"), Filters: (&filter.Spec{}).Add(filter.InSet, filter.FieldSchema, []any{})},
			check:  adapter.IsConfigurationError,
		},
		{
			name:   "missing template",
			engine: &sqliteEngine{},
			tag:    options.Options{DBMS: options.Ptr("pgsql"), DocTemplate: options.Ptr("/nonexistent/doc.tmpl")},
			check:  adapter.IsConfigurationError,
		},
		{
			name:   "unknown format",
			engine: &sqliteEngine{},
			tag:    options.Options{DBMS: options.Ptr("pgsql"), Format: options.Ptr("html")},
			check:  adapter.IsConfigurationError,
		},
		{
			name:   "missing driver",
			engine: &sqliteEngine{connectErr: adapter.NewDependencyError(dbcapabilities.PostgreSQL, "driver", "install it", nil)},
			tag:    options.Options{DBMS: options.Ptr("pgsql")},
			check:  adapter.IsDependencyError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newGenerator(t, tt.engine, nil)
			_, err := g.Generate(context.Background(), tt.tag)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.False(t, IsFatal(err))
		})
	}
}

type fakePasswords map[string]string

func (f fakePasswords) Get(account string) (string, error) {
	pw, ok := f[account]
	if !ok {
		return "", errors.New("no password in keyring for " + account)
	}
	return pw, nil
}

func TestGenerateKeyring(t *testing.T) {
	engine := &sqliteEngine{}
	g, _ := newGenerator(t, engine, nil)
	g.WithPasswords(fakePasswords{"postgres://postgres@localhost:5432/postgres": "from-keyring"})

	tag := usersTag()
	tag.Keyring = options.Ptr(true)
	out, err := g.Generate(context.Background(), tag)
	require.NoError(t, err)
	assert.Equal(t, usersMarkdown, out)
	require.Len(t, engine.conns, 1)
	assert.Equal(t, "from-keyring", engine.conns[0].Config().Password)

	tag.User = options.Ptr("someone")
	_, err = g.Generate(context.Background(), tag)
	require.Error(t, err)
	assert.True(t, adapter.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "postgres://someone@localhost:5432/postgres")
}
