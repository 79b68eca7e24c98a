// Package options holds the per-block settings of a documentation run and
// merges them from engine defaults, the config file and tag attributes.
package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/filter"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Options is one layer of settings. Nil fields are unset and leave lower
// layers in place.
type Options struct {
	DBMS              *string           `yaml:"dbms,omitempty"`
	URL               *string           `yaml:"url,omitempty"`
	Host              *string           `yaml:"host,omitempty"`
	Port              *int              `yaml:"port,omitempty"`
	DBName            *string           `yaml:"dbname,omitempty"`
	User              *string           `yaml:"user,omitempty"`
	Password          *string           `yaml:"password,omitempty"`
	Driver            *string           `yaml:"driver,omitempty"`
	TrustedConnection *bool             `yaml:"trusted_connection,omitempty"`
	Parameters        map[string]string `yaml:"parameters,omitempty"`
	ConnectTimeout    *string           `yaml:"connect_timeout,omitempty"`
	Keyring           *bool             `yaml:"keyring,omitempty"`

	Format         *string `yaml:"format,omitempty"`
	Doc            *bool   `yaml:"doc,omitempty"`
	Scheme         *bool   `yaml:"scheme,omitempty"`
	DocTemplate    *string `yaml:"doc_template,omitempty"`
	SchemeTemplate *string `yaml:"scheme_template,omitempty"`

	Components []string     `yaml:"components,omitempty"`
	Filters    *filter.Spec `yaml:"filters,omitempty"`
	Strict     *bool        `yaml:"strict,omitempty"`
}

// DefaultConnectTimeout bounds connecting when connect_timeout is unset.
const DefaultConnectTimeout = 30 * time.Second

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Resolved is the fully merged, validated settings for one block.
type Resolved struct {
	Engine         dbcapabilities.DatabaseID
	Connection     adapter.ConnectionConfig
	ConnectTimeout time.Duration
	Keyring        bool

	Format         string
	Doc            bool
	Scheme         bool
	DocTemplate    string
	SchemeTemplate string

	Components []dbcapabilities.Component
	Filters    *filter.Spec
	Strict     bool
}

// Merge layers the given options in order; later non-nil fields win.
// Parameters are merged key by key.
func Merge(layers ...Options) Options {
	var out Options
	for _, l := range layers {
		pick(&out.DBMS, l.DBMS)
		pick(&out.URL, l.URL)
		pick(&out.Host, l.Host)
		pick(&out.Port, l.Port)
		pick(&out.DBName, l.DBName)
		pick(&out.User, l.User)
		pick(&out.Password, l.Password)
		pick(&out.Driver, l.Driver)
		pick(&out.TrustedConnection, l.TrustedConnection)
		pick(&out.ConnectTimeout, l.ConnectTimeout)
		pick(&out.Keyring, l.Keyring)
		pick(&out.Format, l.Format)
		pick(&out.Doc, l.Doc)
		pick(&out.Scheme, l.Scheme)
		pick(&out.DocTemplate, l.DocTemplate)
		pick(&out.SchemeTemplate, l.SchemeTemplate)
		pick(&out.Filters, l.Filters)
		pick(&out.Strict, l.Strict)

		if l.Components != nil {
			out.Components = append([]string(nil), l.Components...)
		}
		if len(l.Parameters) > 0 {
			if out.Parameters == nil {
				out.Parameters = make(map[string]string, len(l.Parameters))
			}
			for k, v := range l.Parameters {
				out.Parameters[k] = v
			}
		}
	}
	return out
}

func pick[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Defaults returns the engine's default layer.
func Defaults(id dbcapabilities.DatabaseID) Options {
	c := dbcapabilities.MustGet(id)
	components := make([]string, 0, len(dbcapabilities.AllComponents))
	for _, comp := range dbcapabilities.AllComponents {
		components = append(components, string(comp))
	}
	return Options{
		Host:              Ptr("localhost"),
		Port:              Ptr(c.DefaultPort),
		DBName:            Ptr(c.DefaultDatabase),
		User:              Ptr(c.DefaultUser),
		Password:          Ptr(c.DefaultPassword),
		Driver:            Ptr(c.DefaultDriver),
		TrustedConnection: Ptr(false),
		Doc:               Ptr(true),
		Scheme:            Ptr(true),
		Components:        components,
		Strict:            Ptr(false),
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Engine resolves the dbms option.
func (o Options) Engine() (dbcapabilities.DatabaseID, error) {
	if o.DBMS == nil || strings.TrimSpace(*o.DBMS) == "" {
		return "", adapter.NewConfigurationError("", "dbms", "Please supply a valid dbms name in the dbms parameter. "+supported())
	}
	id, ok := dbcapabilities.ParseID(*o.DBMS)
	if !ok {
		return "", adapter.NewConfigurationError("", "dbms",
			fmt.Sprintf("Please supply a valid dbms name in the dbms parameter (got %q). %s", *o.DBMS, supported()))
	}
	return id, nil
}

func supported() string {
	return "Supported values: " + strings.Join(dbcapabilities.Names(), ", ")
}

// Resolve merges o over the engine defaults and validates the result.
func (o Options) Resolve(id dbcapabilities.DatabaseID) (*Resolved, error) {
	m := Merge(Defaults(id), o)

	r := &Resolved{
		Engine: id,
		Connection: adapter.ConnectionConfig{
			ConnectionType:    string(id),
			Host:              *m.Host,
			Port:              *m.Port,
			Username:          *m.User,
			Password:          *m.Password,
			DatabaseName:      *m.DBName,
			Driver:            *m.Driver,
			TrustedConnection: *m.TrustedConnection,
			Parameters:        m.Parameters,
		},
		ConnectTimeout: DefaultConnectTimeout,
		Keyring:        m.Keyring != nil && *m.Keyring,
		Doc:            *m.Doc,
		Scheme:         *m.Scheme,
		DocTemplate:    deref(m.DocTemplate),
		SchemeTemplate: deref(m.SchemeTemplate),
		Filters:        m.Filters,
		Strict:         *m.Strict,
	}

	if m.URL != nil && *m.URL != "" {
		if err := r.applyURL(*m.URL); err != nil {
			return nil, err
		}
	}

	switch f := strings.ToLower(strings.TrimSpace(deref(m.Format))); f {
	case "", "md", FormatMarkdown:
		r.Format = FormatMarkdown
	case "yml", FormatYAML:
		r.Format = FormatYAML
	default:
		return nil, adapter.NewConfigurationError(id, "format",
			fmt.Sprintf("unknown format %q, expected %s or %s", f, FormatMarkdown, FormatYAML))
	}

	if m.ConnectTimeout != nil {
		d, err := parseTimeout(*m.ConnectTimeout)
		if err != nil {
			return nil, adapter.NewConfigurationError(id, "connect_timeout", err.Error())
		}
		r.ConnectTimeout = d
	}

	for _, name := range m.Components {
		c, ok := dbcapabilities.ParseComponent(name)
		if !ok {
			return nil, adapter.NewConfigurationError(id, "components",
				fmt.Sprintf("unknown component %q, expected one of %v", name, dbcapabilities.AllComponents))
		}
		r.Components = append(r.Components, c)
	}

	if err := r.Connection.Validate(id); err != nil {
		return nil, err
	}
	return r, nil
}

// applyURL lets a connection URL override the individual connection keys.
func (r *Resolved) applyURL(raw string) error {
	d, err := dbcapabilities.ParseConnectionString(raw)
	if err != nil {
		return adapter.NewConfigurationError(r.Engine, "url", err.Error())
	}
	if d.DatabaseID != r.Engine {
		return adapter.NewConfigurationError(r.Engine, "url",
			fmt.Sprintf("url is for %s, block is for %s", d.DatabaseID, r.Engine))
	}

	c := &r.Connection
	c.Host = d.Host
	c.Port = d.Port
	if d.Username != "" {
		c.Username = d.Username
		c.Password = d.Password
	}
	if d.DatabaseName != "" {
		c.DatabaseName = d.DatabaseName
	}
	if len(d.Parameters) > 0 {
		params := make(map[string]string, len(c.Parameters)+len(d.Parameters))
		for k, v := range c.Parameters {
			params[k] = v
		}
		for k, v := range d.Parameters {
			params[k] = v
		}
		c.Parameters = params
	}
	return nil
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("timeout must not be negative")
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative")
	}
	return d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Decode parses a YAML mapping into Options. Unknown keys are an error.
func Decode(data []byte) (Options, error) {
	var o Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return Options{}, nil
		}
		return Options{}, adapter.NewConfigurationError("", "options", err.Error())
	}
	return o, nil
}

// Attr is a raw key/value pair such as a tag attribute or a --set argument.
type Attr struct {
	Key   string
	Value string
}

// FromAttrs decodes attributes in order. Each value is read as YAML so
// numbers, booleans, lists and mappings keep their type; a value that is not
// valid YAML is taken as a plain string.
func FromAttrs(attrs []Attr) (Options, error) {
	if len(attrs) == 0 {
		return Options{}, nil
	}

	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, a := range attrs {
		val := valueNode(a.Value)
		if stringKeys[a.Key] {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Value}
		}
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Key},
			val)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return Options{}, adapter.NewConfigurationError("", "options", err.Error())
	}
	return Decode(data)
}

// stringKeys are taken verbatim, so values such as "~", "null" or "&x" are
// not read as YAML nulls or anchors.
var stringKeys = map[string]bool{
	"dbms":            true,
	"url":             true,
	"host":            true,
	"dbname":          true,
	"user":            true,
	"password":        true,
	"driver":          true,
	"connect_timeout": true,
	"format":          true,
	"doc_template":    true,
	"scheme_template": true,
}

func valueNode(raw string) *yaml.Node {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err == nil && len(doc.Content) == 1 {
		return doc.Content[0]
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: raw}
}

// ParseAssignment turns key=value into a one-key layer.
func ParseAssignment(s string) (Options, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return Options{}, adapter.NewConfigurationError("", "set", fmt.Sprintf("expected key=value, got %q", s))
	}
	return FromAttrs([]Attr{{Key: key, Value: value}})
}
