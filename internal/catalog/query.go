// Package catalog turns an engine's catalog query set into the document model.
//
// Engines register a QuerySet (SQL templates, the filter field table of each
// query, a regex dialect and the labels of the columns they return). The
// package compiles filters into the templates, runs the queries through
// rowset, decodes rows with the labels and nests children under parents.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/filter"
	"github.com/redbco/redb-dbdoc/internal/rowset"
)

// Kind names one catalog query.
type Kind string

const (
	KindTables      Kind = "tables"
	KindColumns     Kind = "columns"
	KindForeignKeys Kind = "foreign_keys"
	KindViews       Kind = "views"
	KindFunctions   Kind = "functions"
	KindParameters  Kind = "parameters"
	KindTriggers    Kind = "triggers"
)

// Kinds lists every query kind an engine must supply.
var Kinds = []Kind{KindTables, KindColumns, KindForeignKeys, KindViews, KindFunctions, KindParameters, KindTriggers}

// Placeholder is where compiled filter clauses are substituted into a template.
const Placeholder = "{filters}"

// Template is the SQL text of one query with the filter fields it recognizes.
// A template with no fields ignores every filter.
type Template struct {
	SQL    string
	Fields filter.Fields
}

// Query is a template compiled against one filter spec.
type Query struct {
	kind Kind
	sql  string
}

// Kind returns the query kind.
func (q *Query) Kind() Kind { return q.kind }

// SQL returns the final SQL text.
func (q *Query) SQL() string { return q.sql }

// Run executes the query and returns its rows.
func (q *Query) Run(ctx context.Context, db adapter.Querier) ([]rowset.Row, error) {
	return rowset.Materialize(ctx, db, q.sql)
}

// QuerySet is everything an engine contributes to catalog collection.
type QuerySet struct {
	Dialect   filter.Dialect
	Templates map[Kind]Template
	Labels    Labels
}

// Query compiles the template of the given kind against spec.
func (s QuerySet) Query(kind Kind, spec *filter.Spec) (*Query, error) {
	t, ok := s.Templates[kind]
	if !ok {
		return nil, fmt.Errorf("%s: no %s query", s.Dialect.Name, kind)
	}
	clauses, err := filter.Compile(spec, t.Fields, s.Dialect)
	if err != nil {
		return nil, &adapter.ConfigurationError{Field: "filters", Reason: err.Error()}
	}
	return &Query{kind: kind, sql: strings.ReplaceAll(t.SQL, Placeholder, clauses)}, nil
}

// Validate checks that every kind is present and carries the placeholder.
func (s QuerySet) Validate() error {
	for _, k := range Kinds {
		t, ok := s.Templates[k]
		if !ok {
			return fmt.Errorf("%s: missing %s query", s.Dialect.Name, k)
		}
		if strings.Count(t.SQL, Placeholder) != 1 {
			return fmt.Errorf("%s: %s query must contain %s exactly once", s.Dialect.Name, k, Placeholder)
		}
	}
	return nil
}
