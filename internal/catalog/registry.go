package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Engine is a connector together with the catalog queries of its database.
type Engine interface {
	adapter.DatabaseAdapter

	// Queries returns the engine's catalog query set
	Queries() QuerySet
}

// Registry manages the registration and retrieval of engines.
type Registry struct {
	engines map[dbcapabilities.DatabaseID]Engine
	mu      sync.RWMutex
}

// NewRegistry creates a new engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[dbcapabilities.DatabaseID]Engine),
	}
}

// Register registers an engine.
// If an engine for the same database type is already registered, it will be replaced.
func (r *Registry) Register(engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.engines[engine.Type()] = engine
}

// Get retrieves a registered engine by database type.
func (r *Registry) Get(dbType dbcapabilities.DatabaseID) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, exists := r.engines[dbType]
	if !exists {
		return nil, fmt.Errorf("%w: %w", adapter.ErrAdapterNotFound,
			adapter.NewConfigurationError(dbType, "dbms", "engine is not registered in this build"))
	}

	return engine, nil
}

// GetByName retrieves a registered engine by database name or alias.
// An empty or unknown name is a configuration error.
func (r *Registry) GetByName(name string) (Engine, error) {
	if strings.TrimSpace(name) == "" {
		return nil, adapter.NewConfigurationError("", "dbms", "missing engine identifier. Supported values: "+strings.Join(dbcapabilities.Names(), ", "))
	}
	dbType, ok := dbcapabilities.ParseID(name)
	if !ok {
		return nil, adapter.NewConfigurationError("", "dbms",
			fmt.Sprintf("unknown engine '%s'. Supported values: %s", name, strings.Join(dbcapabilities.Names(), ", ")))
	}

	return r.Get(dbType)
}

// IsRegistered checks if an engine is registered for the given database type.
func (r *Registry) IsRegistered(dbType dbcapabilities.DatabaseID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.engines[dbType]
	return exists
}

// ListRegistered returns the registered database types, sorted.
func (r *Registry) ListRegistered() []dbcapabilities.DatabaseID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]dbcapabilities.DatabaseID, 0, len(r.engines))
	for dbType := range r.engines {
		types = append(types, dbType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Unregister removes an engine from the registry.
func (r *Registry) Unregister(dbType dbcapabilities.DatabaseID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.engines, dbType)
}

// Connect opens a connection through the engine named by config.ConnectionType.
func (r *Registry) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	engine, err := r.GetByName(config.ConnectionType)
	if err != nil {
		return nil, err
	}

	conn, err := engine.Connect(ctx, config)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// globalRegistry is the default engine registry. Engine packages register
// themselves from init.
var globalRegistry = NewRegistry()

// Register registers an engine in the global registry.
func Register(engine Engine) {
	globalRegistry.Register(engine)
}

// Lookup retrieves an engine from the global registry by name or alias.
func Lookup(name string) (Engine, error) {
	return globalRegistry.GetByName(name)
}

// ListRegistered returns all registered database types from the global registry.
func ListRegistered() []dbcapabilities.DatabaseID {
	return globalRegistry.ListRegistered()
}

// GlobalRegistry returns the global engine registry.
func GlobalRegistry() *Registry {
	return globalRegistry
}
