package adapter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        error
		connection bool
		config     bool
		query      bool
		dependency bool
	}{
		{"connection", NewConnectionError(dbcapabilities.PostgreSQL, "db", 5432, cause), true, false, false, false},
		{"configuration", NewConfigurationError(dbcapabilities.MySQL, "port", "bad"), false, true, false, false},
		{"query", NewQueryError("SELECT 1", cause), false, false, true, false},
		{"dependency", NewDependencyError(dbcapabilities.Oracle, "godror", "rebuild", nil), false, false, false, true},
		{"wrapped connection", WrapError(dbcapabilities.PostgreSQL, "connect", NewConnectionError(dbcapabilities.PostgreSQL, "db", 1, cause)), true, false, false, false},
		{"fmt wrapped query", fmt.Errorf("tables: %w", NewQueryError("SELECT 1", cause)), false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.connection, IsConnectionError(tt.err))
			assert.Equal(t, tt.config, IsConfigurationError(tt.err))
			assert.Equal(t, tt.query, IsQueryError(tt.err))
			assert.Equal(t, tt.dependency, IsDependencyError(tt.err))
		})
	}
}

func TestQueryErrorCarriesSQL(t *testing.T) {
	cause := errors.New("relation does not exist")
	err := NewQueryError("SELECT * FROM nope", cause)

	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "SELECT * FROM nope", qe.SQL)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "SELECT * FROM nope")

	// no double wrapping
	assert.Same(t, qe, NewQueryError("other", err).(*QueryError))
	assert.NoError(t, NewQueryError("SELECT 1", nil))
}

func TestConfigurationErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid configuration: field 'dbms': unknown engine",
		NewConfigurationError("", "dbms", "unknown engine").Error())
	assert.Equal(t, "invalid configuration for mssql: field 'port': out of range: 0",
		NewConfigurationError(dbcapabilities.SQLServer, "port", "out of range: 0").Error())
}

func TestConnectionConfigValidate(t *testing.T) {
	valid := ConnectionConfig{Host: "localhost", Port: 5432, DatabaseName: "postgres", Username: "postgres"}
	require.NoError(t, valid.Validate(dbcapabilities.PostgreSQL))

	noHost := valid
	noHost.Host = ""
	assert.True(t, IsConfigurationError(noHost.Validate(dbcapabilities.PostgreSQL)))

	badPort := valid
	badPort.Port = 70000
	assert.True(t, IsConfigurationError(badPort.Validate(dbcapabilities.PostgreSQL)))

	trusted := valid
	trusted.Username = ""
	trusted.TrustedConnection = true
	assert.NoError(t, trusted.Validate(dbcapabilities.SQLServer))

	assert.NotContains(t, ConnectionConfig{Host: "h", Port: 1, Password: "secret"}.Redacted(), "secret")
}

func TestDatabaseError(t *testing.T) {
	cause := NewQueryError("SELECT 1", errors.New("boom"))
	err := NewDatabaseError(dbcapabilities.MySQL, "tables query", cause)

	assert.Equal(t, "tables query", err.Operation)
	assert.Equal(t, "[mysql] tables query: "+cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsQueryError(err))
}
