package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Config is the dbdoc configuration file.
type Config struct {
	// Defaults apply to every block.
	Defaults Options `yaml:"dbdoc"`
	// Engines hold per-engine layers keyed by any engine name or alias.
	Engines map[string]Options `yaml:"engines"`
	Logging LoggingConfig      `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// For returns the configured layers for an engine: the shared defaults, then
// the engine section.
func (c *Config) For(id dbcapabilities.DatabaseID) Options {
	if c == nil {
		return Options{}
	}
	layers := []Options{c.Defaults}
	for _, name := range engineNames(c.Engines) {
		if eid, ok := dbcapabilities.ParseID(name); ok && eid == id {
			layers = append(layers, c.Engines[name])
		}
	}
	return Merge(layers...)
}

// engineNames returns the keys of engines in sorted order.
func engineNames(engines map[string]Options) []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve merges the configured layers under tag. The engine comes from the
// dbms of tag or, failing that, of the shared defaults.
func (c *Config) Resolve(tag Options) (*Resolved, error) {
	var defaults Options
	if c != nil {
		defaults = c.Defaults
	}
	id, err := Merge(defaults, tag).Engine()
	if err != nil {
		return nil, err
	}
	return Merge(c.For(id), tag).Resolve(id)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand replaces ${VAR} references with environment values. Bare $VAR is
// left untouched so passwords containing '$' survive.
func Expand(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// LoadEnv loads .env files that exist. Variables already set in the
// environment are kept.
func LoadEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads a configuration file. A .env next to it, or in the working
// directory, is loaded first so ${VAR} references can use it. An empty path
// yields an empty configuration.
func Load(path string) (*Config, error) {
	envFiles := []string{".env"}
	if path != "" {
		envFiles = append([]string{filepath.Join(filepath.Dir(path), ".env")}, envFiles...)
	}
	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration YAML after ${VAR} expansion.
func Parse(data []byte) (*Config, error) {
	var config Config
	dec := yaml.NewDecoder(bytes.NewReader(Expand(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	seen := make(map[dbcapabilities.DatabaseID]string, len(config.Engines))
	for _, name := range engineNames(config.Engines) {
		id, ok := dbcapabilities.ParseID(name)
		if !ok {
			return nil, fmt.Errorf("failed to parse config: unknown engine %q in engines", name)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("failed to parse config: engines %q and %q both configure %s", prev, name, id)
		}
		seen[id] = name
	}
	return &config, nil
}
