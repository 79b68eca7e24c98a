//go:build integration

package docgen

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	_ "github.com/redbco/redb-dbdoc/internal/engine/postgres"
	"github.com/redbco/redb-dbdoc/internal/filter"
	"github.com/redbco/redb-dbdoc/internal/options"
	"github.com/redbco/redb-dbdoc/pkg/logger"
)

func TestPostgresEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("password"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `CREATE TABLE users (id integer NOT NULL, name varchar, email varchar)`)
	require.NoError(t, err)
	require.NoError(t, conn.Close(ctx))

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	log := logger.New("dbdoc-test", "")
	log.SetLevel(logger.LevelDebug)

	tag := options.Options{
		DBMS:       options.Ptr("pgsqldoc"),
		Host:       options.Ptr(host),
		Port:       options.Ptr(port.Int()),
		DBName:     options.Ptr("testdb"),
		Password:   options.Ptr("password"),
		Scheme:     options.Ptr(false),
		Parameters: map[string]string{"sslmode": "disable"},
		Strict:     options.Ptr(true),
		Components: []string{"tables"},
		Filters:    (&filter.Spec{}).Add(filter.Equals, filter.FieldTableName, "users"),
	}

	out, err := New(nil, nil, log).Generate(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, usersMarkdown, out)
}
