// Package secrets keeps database passwords in the system keyring.
package secrets

import (
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/redbco/redb-dbdoc/internal/adapter"
)

// Service is the keyring service every dbdoc entry is stored under.
const Service = "dbdoc"

// DefaultTimeout bounds each keyring call. Some desktop keyrings block
// waiting for an unlock prompt that never comes on headless machines.
const DefaultTimeout = 5 * time.Second

// ErrNotFound is returned when no password is stored for an account.
var ErrNotFound = errors.New("no password in keyring")

// Account names the keyring entry of one connection.
func Account(config adapter.ConnectionConfig) string {
	return fmt.Sprintf("%s://%s@%s/%s", config.ConnectionType, config.Username, config.Address(), config.DatabaseName)
}

// Store reads and writes passwords in the system keyring.
type Store struct {
	service string
	timeout time.Duration
}

func NewStore() *Store {
	return &Store{service: Service, timeout: DefaultTimeout}
}

// Get returns the password stored for account.
func (s *Store) Get(account string) (string, error) {
	var password string
	err := s.call(func() error {
		var err error
		password, err = keyring.Get(s.service, account)
		return err
	})
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w for %s", ErrNotFound, account)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return password, nil
}

// Set stores password for account, replacing any previous value.
func (s *Store) Set(account, password string) error {
	if err := s.call(func() error { return keyring.Set(s.service, account, password) }); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// Delete removes the entry for account. A missing entry is not an error.
func (s *Store) Delete(account string) error {
	err := s.call(func() error { return keyring.Delete(s.service, account) })
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring entry: %w", err)
	}
	return nil
}

func (s *Store) call(fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-time.After(s.timeout):
		return fmt.Errorf("keyring did not answer within %s", s.timeout)
	}
}
