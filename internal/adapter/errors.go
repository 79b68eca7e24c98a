package adapter

import (
	"errors"
	"fmt"

	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Standard adapter errors
var (
	// ErrConnectionFailed is returned when a connection attempt fails
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConnectionClosed is returned when attempting to use a closed connection
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrInvalidConfiguration is returned when the configuration is invalid
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrAdapterNotFound is returned when an engine is not registered
	ErrAdapterNotFound = errors.New("adapter not found")

	// ErrQueryFailed is returned when a catalog query cannot be executed or read
	ErrQueryFailed = errors.New("query failed")

	// ErrDependencyMissing is returned when a driver or client library is not available
	ErrDependencyMissing = errors.New("dependency not installed")
)

// DatabaseError wraps database-specific errors with additional context.
type DatabaseError struct {
	DatabaseType dbcapabilities.DatabaseID
	Operation    string
	Cause        error
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.DatabaseType, e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error.
func (e *DatabaseError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(dbType dbcapabilities.DatabaseID, operation string, cause error) *DatabaseError {
	return &DatabaseError{
		DatabaseType: dbType,
		Operation:    operation,
		Cause:        cause,
	}
}

// ConnectionError is returned when a connection error occurs.
type ConnectionError struct {
	DatabaseType dbcapabilities.DatabaseID
	Host         string
	Port         int
	Cause        error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s at %s:%d: %v", e.DatabaseType, e.Host, e.Port, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is ErrConnectionFailed.
func (e *ConnectionError) Is(target error) bool {
	if errors.Is(target, ErrConnectionFailed) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(dbType dbcapabilities.DatabaseID, host string, port int, cause error) *ConnectionError {
	return &ConnectionError{
		DatabaseType: dbType,
		Host:         host,
		Port:         port,
		Cause:        cause,
	}
}

// ConfigurationError is returned when a configuration error occurs.
type ConfigurationError struct {
	DatabaseType dbcapabilities.DatabaseID
	Field        string
	Reason       string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.DatabaseType == "" {
		if e.Field != "" {
			return fmt.Sprintf("invalid configuration: field '%s': %s", e.Field, e.Reason)
		}
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration for %s: field '%s': %s", e.DatabaseType, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration for %s: %s", e.DatabaseType, e.Reason)
}

// Is checks if the error is ErrInvalidConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(target, ErrInvalidConfiguration)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(dbType dbcapabilities.DatabaseID, field string, reason string) *ConfigurationError {
	return &ConfigurationError{
		DatabaseType: dbType,
		Field:        field,
		Reason:       reason,
	}
}

// QueryError is returned when a catalog query fails. It carries the SQL text
// that was sent so the failure can be diagnosed from logs.
type QueryError struct {
	SQL   string
	Cause error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v\n%s", e.Cause, e.SQL)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is ErrQueryFailed.
func (e *QueryError) Is(target error) bool {
	if errors.Is(target, ErrQueryFailed) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewQueryError creates a new QueryError. An error that already is a
// QueryError is returned unchanged.
func NewQueryError(sql string, cause error) error {
	if cause == nil {
		return nil
	}
	var qe *QueryError
	if errors.As(cause, &qe) {
		return cause
	}
	return &QueryError{SQL: sql, Cause: cause}
}

// DependencyError is returned when the driver or the native client library
// an engine needs is not available in this build or on this machine.
type DependencyError struct {
	DatabaseType dbcapabilities.DatabaseID
	Dependency   string
	Remediation  string
	Cause        error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	msg := fmt.Sprintf("%s not installed", e.Dependency)
	if e.Remediation != "" {
		msg += ". " + e.Remediation
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (%v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DependencyError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is ErrDependencyMissing.
func (e *DependencyError) Is(target error) bool {
	return errors.Is(target, ErrDependencyMissing)
}

// NewDependencyError creates a new DependencyError.
func NewDependencyError(dbType dbcapabilities.DatabaseID, dependency, remediation string, cause error) *DependencyError {
	return &DependencyError{
		DatabaseType: dbType,
		Dependency:   dependency,
		Remediation:  remediation,
		Cause:        cause,
	}
}

// WrapError wraps an error with database context.
// If the error is already a DatabaseError, it returns it as-is.
func WrapError(dbType dbcapabilities.DatabaseID, operation string, err error) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}

	return NewDatabaseError(dbType, operation, err)
}

// IsConnectionError checks if an error is a connection error.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsConfigurationError checks if an error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsQueryError checks if an error is a query error.
func IsQueryError(err error) bool {
	return errors.Is(err, ErrQueryFailed)
}

// IsDependencyError checks if an error reports a missing driver or library.
func IsDependencyError(err error) bool {
	return errors.Is(err, ErrDependencyMissing)
}
