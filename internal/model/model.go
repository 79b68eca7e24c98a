// Package model holds the engine-neutral document assembled from catalog
// queries and handed to rendering.
package model

import "github.com/redbco/redb-dbdoc/pkg/dbcapabilities"

// Document is everything collected for one invocation.
type Document struct {
	Engine     dbcapabilities.DatabaseID  `yaml:"engine"`
	Components []dbcapabilities.Component `yaml:"components"`

	Tables    []Table    `yaml:"tables,omitempty"`
	Views     []View     `yaml:"views,omitempty"`
	Functions []Function `yaml:"functions,omitempty"`
	Triggers  []Trigger  `yaml:"triggers,omitempty"`
}

// Has reports whether the component was requested for this document.
func (d *Document) Has(c dbcapabilities.Component) bool {
	for _, x := range d.Components {
		if x == c {
			return true
		}
	}
	return false
}

// Table is identified by (Schema, Name).
type Table struct {
	Schema  string   `yaml:"schema"`
	Name    string   `yaml:"name"`
	Comment string   `yaml:"comment,omitempty"`
	Columns []Column `yaml:"columns"`
}

// Column belongs to exactly one table. Schema and Table name its owner.
type Column struct {
	Schema    string `yaml:"-"`
	Table     string `yaml:"-"`
	Position  int    `yaml:"position"`
	Name      string `yaml:"name"`
	Nullable  bool   `yaml:"nullable"`
	DataType  string `yaml:"data_type"`
	Default   string `yaml:"default,omitempty"`
	Length    string `yaml:"length,omitempty"`
	Precision string `yaml:"precision,omitempty"`
	Comment   string `yaml:"comment,omitempty"`

	// ForeignKeys whose source is this column.
	ForeignKeys []ForeignKey `yaml:"foreign_keys"`
}

// ForeignKey links a source column to a referenced column.
type ForeignKey struct {
	Constraint string `yaml:"constraint,omitempty"`

	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
	Column string `yaml:"column"`

	RefSchema string `yaml:"ref_schema"`
	RefTable  string `yaml:"ref_table"`
	RefColumn string `yaml:"ref_column,omitempty"`
}

// Target returns the referenced table, schema-qualified when the schema is known.
func (fk ForeignKey) Target() string {
	t := fk.RefTable
	if fk.RefSchema != "" {
		t = fk.RefSchema + "." + t
	}
	if fk.RefColumn != "" {
		t += "." + fk.RefColumn
	}
	return t
}

// View is a stored query.
type View struct {
	Schema     string `yaml:"schema"`
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
	Updatable  string `yaml:"updatable,omitempty"`
}

// Function is a function or procedure. SpecificName disambiguates overloads
// and correlates parameters.
type Function struct {
	Schema       string      `yaml:"schema"`
	Name         string      `yaml:"name"`
	SpecificName string      `yaml:"specific_name"`
	Kind         string      `yaml:"kind,omitempty"`
	ReturnType   string      `yaml:"return_type,omitempty"`
	Language     string      `yaml:"language,omitempty"`
	Definition   string      `yaml:"definition"`
	Comment      string      `yaml:"comment,omitempty"`
	Parameters   []Parameter `yaml:"parameters"`
}

// Parameter belongs to exactly one function.
type Parameter struct {
	Schema       string `yaml:"-"`
	SpecificName string `yaml:"-"`
	Position     int    `yaml:"position"`
	Name         string `yaml:"name"`
	Mode         string `yaml:"mode,omitempty"`
	DataType     string `yaml:"data_type"`
	Default      string `yaml:"default,omitempty"`
}

// Trigger fires on a table event. Enabled is nil when the engine does not
// report it.
type Trigger struct {
	Schema      string `yaml:"schema"`
	Name        string `yaml:"name"`
	Timing      string `yaml:"timing,omitempty"`
	Event       string `yaml:"event,omitempty"`
	Orientation string `yaml:"orientation,omitempty"`
	TableSchema string `yaml:"table_schema,omitempty"`
	Table       string `yaml:"table"`
	Description string `yaml:"description,omitempty"`
	Definition  string `yaml:"definition"`
	Enabled     *bool  `yaml:"enabled,omitempty"`
}
