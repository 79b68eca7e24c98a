// Package render turns a collected model.Document into Markdown and a
// PlantUML diagram using text/template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/redbco/redb-dbdoc/internal/model"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Default template names. An engine may override either one by shipping
// templates/<engine>/<name>.
const (
	DocTemplate    = "doc.md.tmpl"
	SchemeTemplate = "scheme.puml.tmpl"
)

//go:embed templates
var embedded embed.FS

// Templates is the template tree lookups fall back to.
var Templates fs.FS = embedded

// Options selects the outputs and optional template files.
type Options struct {
	Doc            bool
	Scheme         bool
	DocTemplate    string
	SchemeTemplate string

	// FS replaces Templates when set.
	FS fs.FS
}

// Renderer renders documents for one engine.
type Renderer struct {
	opts   Options
	doc    *template.Template
	scheme *template.Template
}

// New resolves and parses the templates the options ask for.
func New(engine dbcapabilities.DatabaseID, opts Options) (*Renderer, error) {
	if opts.FS == nil {
		opts.FS = Templates
	}
	r := &Renderer{opts: opts}

	var err error
	if opts.Doc {
		if r.doc, err = load(opts.FS, engine, opts.DocTemplate, DocTemplate); err != nil {
			return nil, err
		}
	}
	if opts.Scheme {
		if r.scheme, err = load(opts.FS, engine, opts.SchemeTemplate, SchemeTemplate); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render returns the Markdown document followed by the diagram, separated by
// a blank line.
func (r *Renderer) Render(doc *model.Document) (string, error) {
	var out strings.Builder
	if r.doc != nil {
		s, err := execute(r.doc, doc)
		if err != nil {
			return "", err
		}
		out.WriteString(s)
	}
	if r.scheme != nil {
		s, err := execute(r.scheme, doc)
		if err != nil {
			return "", err
		}
		out.WriteString("\n\n")
		out.WriteString(s)
	}
	return out.String(), nil
}

// Resolve reports where a template would be loaded from: the explicit path,
// an engine-specific embedded template, or the shared default.
func Resolve(fsys fs.FS, engine dbcapabilities.DatabaseID, explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	if fsys == nil {
		fsys = Templates
	}
	specific := path.Join("templates", string(engine), name)
	if _, err := fs.Stat(fsys, specific); err == nil {
		return specific
	}
	return path.Join("templates", name)
}

func load(fsys fs.FS, engine dbcapabilities.DatabaseID, explicit, name string) (*template.Template, error) {
	var (
		src []byte
		err error
	)
	where := Resolve(fsys, engine, explicit, name)
	if explicit != "" {
		src, err = os.ReadFile(explicit)
	} else {
		src, err = fs.ReadFile(fsys, where)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", where, err)
	}

	t, err := template.New(path.Base(where)).Funcs(Funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", where, err)
	}
	return t, nil
}

func execute(t *template.Template, doc *model.Document) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return trimTrailing(buf.String()), nil
}

// trimTrailing strips spaces and tabs at the end of every line.
func trimTrailing(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"yesno": func(b bool) string {
		if b {
			return "YES"
		}
		return "NO"
	},
	"fkeys": func(fks []model.ForeignKey) string {
		targets := make([]string, 0, len(fks))
		for _, fk := range fks {
			targets = append(targets, fk.Target())
		}
		return strings.Join(targets, ", ")
	},
	"oneline": func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	},
	// alias builds a PlantUML identifier for schema.name.
	"alias": func(schema, name string) string {
		if schema == "" {
			return nonIdent.ReplaceAllString(name, "_")
		}
		return nonIdent.ReplaceAllString(schema+"_"+name, "_")
	},
	"lower": strings.ToLower,
	"deref": func(b *bool) bool { return b != nil && *b },
}
