package adapter

import (
	"fmt"
	"strconv"

	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// ConnectionConfig contains the settings needed to open one catalog connection.
// Values are already merged from engine defaults, configuration and tag overrides.
type ConnectionConfig struct {
	// Database type, e.g. "postgres" or any alias known to dbcapabilities
	ConnectionType string `json:"connectionType" yaml:"connection_type"`

	// Connection details
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	Username     string `json:"username,omitempty" yaml:"user"`
	Password     string `json:"password,omitempty" yaml:"password"`
	DatabaseName string `json:"databaseName" yaml:"dbname"`

	// Driver overrides the engine's default driver name or client string.
	Driver string `json:"driver,omitempty" yaml:"driver"`

	// TrustedConnection uses integrated authentication (SQL Server only).
	TrustedConnection bool `json:"trustedConnection,omitempty" yaml:"trusted_connection"`

	// Driver-specific connection parameters appended to the DSN
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters"`
}

// Address returns host:port for logging and error messages.
func (c ConnectionConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Redacted returns a printable description of the configuration without the password.
func (c ConnectionConfig) Redacted() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s", c.Host, c.Port, c.DatabaseName, c.Username)
}

// Validate checks the fields every engine needs.
func (c ConnectionConfig) Validate(dbType dbcapabilities.DatabaseID) error {
	if c.Host == "" {
		return NewConfigurationError(dbType, "host", "must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return NewConfigurationError(dbType, "port", fmt.Sprintf("out of range: %d", c.Port))
	}
	if c.DatabaseName == "" {
		return NewConfigurationError(dbType, "dbname", "must not be empty")
	}
	if c.Username == "" && !c.TrustedConnection {
		return NewConfigurationError(dbType, "user", "must not be empty")
	}
	return nil
}
