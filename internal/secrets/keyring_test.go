package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/redbco/redb-dbdoc/internal/adapter"
)

func TestAccount(t *testing.T) {
	config := adapter.ConnectionConfig{ConnectionType: "postgres", Host: "db", Port: 5432, Username: "doc", DatabaseName: "app"}
	assert.Equal(t, "postgres://doc@db:5432/app", Account(config))
}

func TestStore(t *testing.T) {
	keyring.MockInit()
	s := NewStore()

	_, err := s.Get("postgres://doc@db:5432/app")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "postgres://doc@db:5432/app")

	require.NoError(t, s.Set("postgres://doc@db:5432/app", "s3cret"))
	pw, err := s.Get("postgres://doc@db:5432/app")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	require.NoError(t, s.Delete("postgres://doc@db:5432/app"))
	require.NoError(t, s.Delete("postgres://doc@db:5432/app"))
	_, err = s.Get("postgres://doc@db:5432/app")
	assert.ErrorIs(t, err, ErrNotFound)
}
