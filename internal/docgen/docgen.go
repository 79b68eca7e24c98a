// Package docgen runs one documentation block: resolve options, connect,
// collect the catalog and render it.
package docgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/options"
	"github.com/redbco/redb-dbdoc/internal/render"
	"github.com/redbco/redb-dbdoc/internal/secrets"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
	"github.com/redbco/redb-dbdoc/pkg/logger"
)

// FatalError stops the whole run. It is only produced in strict mode.
type FatalError struct {
	Msg string
	Err error
}

func (e *FatalError) Error() string { return e.Msg }

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err is, or wraps, a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// Passwords looks up stored passwords by keyring account.
type Passwords interface {
	Get(account string) (string, error)
}

// Generator produces documentation blocks from registered engines.
type Generator struct {
	registry  *catalog.Registry
	config    *options.Config
	log       *logger.Logger
	passwords Passwords
}

// New creates a Generator. A nil registry means the global one; a nil config
// means no configured layers.
func New(registry *catalog.Registry, config *options.Config, log *logger.Logger) *Generator {
	if registry == nil {
		registry = catalog.GlobalRegistry()
	}
	if config == nil {
		config = &options.Config{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Generator{registry: registry, config: config, log: log, passwords: secrets.NewStore()}
}

// WithPasswords replaces the system keyring consulted by blocks that set
// keyring.
func (g *Generator) WithPasswords(p Passwords) *Generator {
	g.passwords = p
	return g
}

// Generate renders one block. tag is the most specific layer and must name
// the engine unless the configuration does.
func (g *Generator) Generate(ctx context.Context, tag options.Options) (string, error) {
	id, err := options.Merge(g.config.Defaults, tag).Engine()
	if err != nil {
		return "", err
	}
	return g.GenerateFor(ctx, id, tag)
}

// GenerateFor renders one block for a known engine.
//
// Configuration and dependency errors are always returned. Connection and
// query failures depend on the strict option: strict returns a *FatalError,
// otherwise the block is skipped with a debug message and renders empty.
func (g *Generator) GenerateFor(ctx context.Context, id dbcapabilities.DatabaseID, tag options.Options) (string, error) {
	engine, err := g.registry.Get(id)
	if err != nil {
		return "", err
	}

	resolved, err := options.Merge(g.config.For(id), tag).Resolve(id)
	if err != nil {
		return "", err
	}
	if resolved.Keyring {
		pw, err := g.passwords.Get(secrets.Account(resolved.Connection))
		if err != nil {
			return "", adapter.NewConfigurationError(id, "keyring", err.Error())
		}
		resolved.Connection.Password = pw
	}

	runID := uuid.NewString()
	log := g.log.WithFields(map[string]string{"run": runID, "dbms": string(id)})
	log.Debugf("Connecting to %s", resolved.Connection.Redacted())

	var renderer *render.Renderer
	if resolved.Format == options.FormatMarkdown {
		renderer, err = render.New(id, render.Options{
			Doc:            resolved.Doc,
			Scheme:         resolved.Scheme,
			DocTemplate:    resolved.DocTemplate,
			SchemeTemplate: resolved.SchemeTemplate,
		})
		if err != nil {
			return "", adapter.NewConfigurationError(id, "template", err.Error())
		}
	}

	name := engine.Capabilities().Name

	connectCtx, cancel := context.WithTimeout(ctx, resolved.ConnectTimeout)
	conn, err := engine.Connect(connectCtx, resolved.Connection)
	cancel()
	if err != nil {
		if passThrough(err) {
			return "", err
		}
		return g.fail(log, resolved.Strict, fmt.Sprintf("%s database connection error: %v", name, err), err)
	}
	defer conn.Close()
	log.Debugf("Successfully connected to the database")

	doc, err := catalog.Collect(ctx, engine, conn, resolved.Components, resolved.Filters, log)
	if err != nil {
		if passThrough(err) {
			return "", err
		}
		return g.fail(log, resolved.Strict, fmt.Sprintf("%s catalog query error: %v", name, err), err)
	}

	if renderer == nil {
		return render.YAML(doc, resolved.Filters)
	}
	return renderer.Render(doc)
}

func passThrough(err error) bool {
	return adapter.IsConfigurationError(err) || adapter.IsDependencyError(err)
}

func (g *Generator) fail(log *logger.Logger, strict bool, msg string, err error) (string, error) {
	if strict {
		log.Error("%s", msg)
		return "", &FatalError{Msg: msg, Err: err}
	}
	log.Debugf("%s. Skipping.", msg)
	return "", nil
}
