package dbcapabilities

import (
	"sort"
	"strings"
)

// DatabaseID is the canonical identifier for a database engine dbdoc can document.
type DatabaseID string

const (
	PostgreSQL DatabaseID = "postgres"
	MySQL      DatabaseID = "mysql"
	SQLServer  DatabaseID = "mssql"
	Oracle     DatabaseID = "oracle"
)

// Component is a documentable group of catalog objects.
type Component string

const (
	ComponentTables    Component = "tables"
	ComponentViews     Component = "views"
	ComponentFunctions Component = "functions"
	ComponentTriggers  Component = "triggers"
)

// AllComponents lists every component in rendering order.
var AllComponents = []Component{ComponentTables, ComponentViews, ComponentFunctions, ComponentTriggers}

// Capability describes an engine in a way the rest of dbdoc can consume uniformly.
type Capability struct {
	// Human-friendly product name, e.g., "PostgreSQL".
	Name string `json:"name"`

	// Canonical ID used across the codebase (see DatabaseID constants), e.g., "postgres".
	ID DatabaseID `json:"id"`

	// database/sql (or pgx) driver used when the configuration does not name one.
	DefaultDriver string `json:"defaultDriver"`

	// Connection defaults applied below any configured value.
	DefaultPort     int    `json:"defaultPort"`
	DefaultDatabase string `json:"defaultDatabase"`
	DefaultUser     string `json:"defaultUser"`
	DefaultPassword string `json:"-"`

	// Whether the engine's filter dialect can express regex predicates.
	SupportsRegex bool `json:"supportsRegex"`

	// Whether Windows/Kerberos integrated authentication can replace user/password.
	SupportsTrustedConnection bool `json:"supportsTrustedConnection"`

	// Build tag required to compile the connector in, if any.
	BuildTag string `json:"buildTag,omitempty"`

	// Tag names, URL schemes and other labels that map to this engine.
	Aliases []string `json:"aliases,omitempty"`
}

// All is a registry of capabilities keyed by the canonical database ID.
var All = map[DatabaseID]Capability{
	PostgreSQL: {
		Name:            "PostgreSQL",
		ID:              PostgreSQL,
		DefaultDriver:   "pgx",
		DefaultPort:     5432,
		DefaultDatabase: "postgres",
		DefaultUser:     "postgres",
		DefaultPassword: "postgres",
		SupportsRegex:   true,
		Aliases:         []string{"postgresql", "pgsql", "pgsqldoc"},
	},
	MySQL: {
		Name:            "MySQL",
		ID:              MySQL,
		DefaultDriver:   "mysql",
		DefaultPort:     3306,
		DefaultDatabase: "mysql",
		DefaultUser:     "root",
		DefaultPassword: "",
		SupportsRegex:   true,
		Aliases:         []string{"mariadb", "aurora-mysql"},
	},
	SQLServer: {
		Name:                      "Microsoft SQL Server",
		ID:                        SQLServer,
		DefaultDriver:             "sqlserver",
		DefaultPort:               1433,
		DefaultDatabase:           "mssql",
		DefaultUser:               "SA",
		DefaultPassword:           "<YourStrong@Passw0rd>",
		SupportsRegex:             false,
		SupportsTrustedConnection: true,
		Aliases:                   []string{"sqlserver", "azure-sql"},
	},
	Oracle: {
		Name:            "Oracle Database",
		ID:              Oracle,
		DefaultDriver:   "godror",
		DefaultPort:     1521,
		DefaultDatabase: "orcl",
		DefaultUser:     "hr",
		DefaultPassword: "oracle",
		SupportsRegex:   true,
		BuildTag:        "oracle",
		Aliases:         []string{"oracledb"},
	},
}

// nameToID is a normalized lookup index from any known name/alias to the canonical DatabaseID.
var nameToID map[string]DatabaseID

func init() {
	nameToID = make(map[string]DatabaseID, len(All)*4)
	for id, cap := range All {
		nameToID[strings.ToLower(string(id))] = id
		if cap.Name != "" {
			nameToID[strings.ToLower(cap.Name)] = id
		}
		for _, a := range cap.Aliases {
			if a == "" {
				continue
			}
			nameToID[strings.ToLower(a)] = id
		}
	}
}

// ParseID attempts to resolve an arbitrary engine name (canonical id, alias, or product name)
// to a canonical DatabaseID. Returns false if unknown.
func ParseID(name string) (DatabaseID, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}
	id, ok := nameToID[n]
	return id, ok
}

// GetByName returns the Capability by looking up using a free-form name (id or alias).
func GetByName(name string) (Capability, bool) {
	if id, ok := ParseID(name); ok {
		return Get(id)
	}
	return Capability{}, false
}

// Names returns every accepted engine name (ids and aliases), sorted.
func Names() []string {
	out := make([]string, 0, len(nameToID))
	for n := range nameToID {
		if strings.Contains(n, " ") {
			continue
		}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IDs returns the list of all known database IDs, sorted.
func IDs() []DatabaseID {
	out := make([]DatabaseID, 0, len(All))
	for id := range All {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Get returns capabilities for the given ID and a boolean indicating existence.
func Get(id DatabaseID) (Capability, bool) {
	c, ok := All[id]
	return c, ok
}

// MustGet returns capabilities for the given ID and panics if not found.
func MustGet(id DatabaseID) Capability {
	c, ok := Get(id)
	if !ok {
		panic("dbcapabilities: unknown database id: " + string(id))
	}
	return c
}

// ParseComponent resolves a component name, accepting singular forms.
func ParseComponent(name string) (Component, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range AllComponents {
		if n == string(c) || n+"s" == string(c) {
			return c, true
		}
	}
	return "", false
}
