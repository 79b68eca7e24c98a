package preprocess

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/docgen"
	"github.com/redbco/redb-dbdoc/internal/engine/mysql"
	"github.com/redbco/redb-dbdoc/internal/engine/postgres"
	"github.com/redbco/redb-dbdoc/internal/options"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

type emptyCursor struct{}

func (emptyCursor) Columns() []string { return nil }
func (emptyCursor) Next() bool { return false }
func (emptyCursor) Values() ([]any, error) { return nil, nil }
func (emptyCursor) Err() error { return nil }
func (emptyCursor) Close() error { return nil }

// emptyConn answers every catalog query with no rows.
type emptyConn struct {
	dbType dbcapabilities.DatabaseID
	config adapter.ConnectionConfig
}

func (c *emptyConn) QueryCursor(context.Context, string) (adapter.Cursor, error) {
	return emptyCursor{}, nil
}
func (c *emptyConn) ID() string { return "empty" }
func (c *emptyConn) Type() dbcapabilities.DatabaseID { return c.dbType }
func (c *emptyConn) IsConnected() bool { return true }
func (c *emptyConn) Ping(context.Context) error { return nil }
func (c *emptyConn) Close() error { return nil }
func (c *emptyConn) Config() adapter.ConnectionConfig { return c.config }

// offlineEngine keeps a real engine's queries but never touches the network.
type offlineEngine struct {
	catalog.Engine
	err     error
	configs *[]adapter.ConnectionConfig
}

func (e offlineEngine) Connect(_ context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	*e.configs = append(*e.configs, config)
	if e.err != nil {
		return nil, e.err
	}
	return &emptyConn{dbType: e.Type(), config: config}, nil
}

func newProcessor(t *testing.T, connectErr error, config *options.Config) (*Processor, *[]adapter.ConnectionConfig) {
	t.Helper()
	var configs []adapter.ConnectionConfig
	reg := catalog.NewRegistry()
	reg.Register(offlineEngine{Engine: postgres.NewAdapter(), err: connectErr, configs: &configs})
	reg.Register(offlineEngine{Engine: mysql.NewAdapter(), err: connectErr, configs: &configs})
	return NewProcessor(docgen.New(reg, config, nil), nil), &configs
}

func TestScan(t *testing.T) {
	content := "# Doc\n\n" +
		"<pgsqldoc host=\"db\" port='5433'></pgsqldoc>\n" +
		"text <pgsql/> more\n" +
		"<dbdoc dbms=\"mysql\" filters=\"{eq: {schema: app}}\">\nbody\n</dbdoc>\n" +
		"<oracle components=\"[tables]\" />\n" +
		"<sqlserver>ignored</sqlserver>\n" +
		"<pgsqldocs>not a tag</pgsqldocs>\n"

	blocks := Scan(content)
	require.Len(t, blocks, 5)

	assert.Equal(t, "pgsqldoc", blocks[0].Tag)
	assert.Equal(t, 3, blocks[0].Line)
	assert.Equal(t, []options.Attr{{Key: "host", Value: "db"}, {Key: "port", Value: "5433"}}, blocks[0].Attrs)
	assert.Equal(t, "<pgsqldoc host=\"db\" port='5433'></pgsqldoc>", content[blocks[0].Start:blocks[0].End])

	assert.Equal(t, "pgsql", blocks[1].Tag)
	assert.Equal(t, "<pgsql/>", content[blocks[1].Start:blocks[1].End])
	assert.Empty(t, blocks[1].Attrs)

	assert.Equal(t, "dbdoc", blocks[2].Tag)
	assert.Equal(t, 5, blocks[2].Line)
	assert.Equal(t, []options.Attr{{Key: "dbms", Value: "mysql"}, {Key: "filters", Value: "{eq: {schema: app}}"}}, blocks[2].Attrs)

	assert.Equal(t, "oracle", blocks[3].Tag)
	assert.Equal(t, "sqlserver", blocks[4].Tag)
}

func TestBlockOptions(t *testing.T) {
	o, err := Block{Tag: "sqlserver", Attrs: []options.Attr{{Key: "dbms", Value: "oracle"}, {Key: "trusted_connection", Value: "true"}}}.Options()
	require.NoError(t, err)
	assert.Equal(t, "mssql", *o.DBMS, "the tag decides the engine")
	assert.True(t, *o.TrustedConnection)

	o, err = Block{Tag: "dbdoc", Attrs: []options.Attr{{Key: "dbms", Value: "oracle"}}}.Options()
	require.NoError(t, err)
	assert.Equal(t, "oracle", *o.DBMS)

	_, err = Block{Tag: "dbdoc", Line: 7, Attrs: []options.Attr{{Key: "colour", Value: "red"}}}.Options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<dbdoc> on line 7")
	assert.True(t, adapter.IsConfigurationError(err))
}

func TestProcess(t *testing.T) {
	p, configs := newProcessor(t, nil, nil)

	in := "# Database Documentation\n\n<pgsqldoc dbname=\"testdb\" doc=\"false\"></pgsqldoc>\n\n<mysql scheme=\"false\"/>end"
	out, err := p.Process(context.Background(), in)
	require.NoError(t, err)

	assert.Contains(t, out, "# Database Documentation\n\n\n\n@startuml\n")
	assert.NotContains(t, out, "<pgsqldoc")
	assert.NotContains(t, out, "<mysql")
	assert.Contains(t, out, "@enduml\n\n\nend", "an empty document renders nothing")

	require.Len(t, *configs, 2)
	assert.Equal(t, "testdb", (*configs)[0].DatabaseName)
	assert.Equal(t, 5432, (*configs)[0].Port)
	assert.Equal(t, 3306, (*configs)[1].Port)
}

func TestProcessNoTags(t *testing.T) {
	p, configs := newProcessor(t, nil, nil)
	out, err := p.Process(context.Background(), "plain <b>text</b>")
	require.NoError(t, err)
	assert.Equal(t, "plain <b>text</b>", out)
	assert.Empty(t, *configs)
}

func TestProcessErrors(t *testing.T) {
	refused := adapter.NewConnectionError(dbcapabilities.PostgreSQL, "localhost", 5432, errors.New("connection refused"))

	t.Run("lenient failure empties the block", func(t *testing.T) {
		p, _ := newProcessor(t, refused, nil)
		out, err := p.Process(context.Background(), "a<pgsqldoc></pgsqldoc>b")
		require.NoError(t, err)
		assert.Equal(t, "ab", out)
	})

	t.Run("strict failure stops", func(t *testing.T) {
		config := &options.Config{Defaults: options.Options{Strict: options.Ptr(true)}}
		p, configs := newProcessor(t, refused, config)
		_, err := p.Process(context.Background(), "a\n<pgsqldoc></pgsqldoc>\n<mysql></mysql>")
		require.Error(t, err)
		assert.True(t, docgen.IsFatal(err))
		assert.Contains(t, err.Error(), "<pgsqldoc> on line 2")
		assert.Len(t, *configs, 1, "later blocks are not attempted")
	})

	t.Run("generic tag needs dbms", func(t *testing.T) {
		p, _ := newProcessor(t, nil, nil)
		_, err := p.Process(context.Background(), "<dbdoc></dbdoc>")
		require.Error(t, err)
		assert.True(t, adapter.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "Please supply a valid dbms name in the dbms parameter")
	})

	t.Run("generic tag takes configured dbms", func(t *testing.T) {
		config := &options.Config{Defaults: options.Options{DBMS: options.Ptr("mysql")}}
		p, configs := newProcessor(t, nil, config)
		_, err := p.Process(context.Background(), "<dbdoc></dbdoc>")
		require.NoError(t, err)
		require.Len(t, *configs, 1)
		assert.Equal(t, "mysql", (*configs)[0].ConnectionType)
	})
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "index.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("x<pgsqldoc scheme=\"false\"></pgsqldoc>y"), 0o644))

	p, _ := newProcessor(t, nil, nil)
	dst := filepath.Join(dir, "out", "index.md")
	require.NoError(t, p.ProcessFile(context.Background(), src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "xy", string(data))

	err = p.ProcessFile(context.Background(), filepath.Join(dir, "missing.md"), dst)
	assert.ErrorContains(t, err, "failed to read")
}
