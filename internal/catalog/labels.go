package catalog

import (
	"strconv"
	"strings"

	"github.com/redbco/redb-dbdoc/internal/model"
	"github.com/redbco/redb-dbdoc/internal/rowset"
)

// Labels names, per query kind, the result column that feeds each model
// field. An empty label leaves the field unset.
type Labels struct {
	Tables      TableLabels
	Columns     ColumnLabels
	ForeignKeys ForeignKeyLabels
	Views       ViewLabels
	Functions   FunctionLabels
	Parameters  ParameterLabels
	Triggers    TriggerLabels
}

type TableLabels struct {
	Schema, Name, Comment string
}

type ColumnLabels struct {
	Schema, Table, Position, Name, Nullable, DataType, Default, Length, Precision, Comment string
}

type ForeignKeyLabels struct {
	Constraint, Schema, Table, Column, RefSchema, RefTable, RefColumn string
}

type ViewLabels struct {
	Schema, Name, Definition, Updatable string
}

type FunctionLabels struct {
	Schema, Name, SpecificName, Kind, ReturnType, Language, Definition, Comment string
}

type ParameterLabels struct {
	Schema, SpecificName, Position, Name, Mode, DataType, Default string
}

// TriggerLabels maps trigger fields. Enabled and Disabled are alternatives;
// engines report one or the other.
type TriggerLabels struct {
	Schema, Name, Timing, Event, Orientation, TableSchema, Table, Description, Definition string
	Enabled, Disabled                                                                     string
}

func get(r rowset.Row, label string) string {
	if label == "" {
		return ""
	}
	return r.Get(label)
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// truthy reads the flag spellings used across catalogs.
func truthy(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "Y", "1", "TRUE", "T", "ENABLED":
		return true
	}
	return false
}

func flag(r rowset.Row, label string) *bool {
	if label == "" || !r.Has(label) {
		return nil
	}
	v := truthy(r.Get(label))
	return &v
}

// DecodeTables maps table rows. Columns is left nil for the assembler.
func DecodeTables(rows []rowset.Row, l TableLabels) []model.Table {
	out := make([]model.Table, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Table{
			Schema:  get(r, l.Schema),
			Name:    get(r, l.Name),
			Comment: get(r, l.Comment),
		})
	}
	return out
}

func DecodeColumns(rows []rowset.Row, l ColumnLabels) []model.Column {
	out := make([]model.Column, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Column{
			Schema:    get(r, l.Schema),
			Table:     get(r, l.Table),
			Position:  atoi(get(r, l.Position)),
			Name:      get(r, l.Name),
			Nullable:  truthy(get(r, l.Nullable)),
			DataType:  get(r, l.DataType),
			Default:   get(r, l.Default),
			Length:    get(r, l.Length),
			Precision: get(r, l.Precision),
			Comment:   get(r, l.Comment),
		})
	}
	return out
}

func DecodeForeignKeys(rows []rowset.Row, l ForeignKeyLabels) []model.ForeignKey {
	out := make([]model.ForeignKey, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.ForeignKey{
			Constraint: get(r, l.Constraint),
			Schema:     get(r, l.Schema),
			Table:      get(r, l.Table),
			Column:     get(r, l.Column),
			RefSchema:  get(r, l.RefSchema),
			RefTable:   get(r, l.RefTable),
			RefColumn:  get(r, l.RefColumn),
		})
	}
	return out
}

func DecodeViews(rows []rowset.Row, l ViewLabels) []model.View {
	out := make([]model.View, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.View{
			Schema:     get(r, l.Schema),
			Name:       get(r, l.Name),
			Definition: get(r, l.Definition),
			Updatable:  get(r, l.Updatable),
		})
	}
	return out
}

// DecodeFunctions maps routine rows. Without a specific-name column the
// routine name is used as the correlation key.
func DecodeFunctions(rows []rowset.Row, l FunctionLabels) []model.Function {
	out := make([]model.Function, 0, len(rows))
	for _, r := range rows {
		f := model.Function{
			Schema:       get(r, l.Schema),
			Name:         get(r, l.Name),
			SpecificName: get(r, l.SpecificName),
			Kind:         get(r, l.Kind),
			ReturnType:   get(r, l.ReturnType),
			Language:     get(r, l.Language),
			Definition:   get(r, l.Definition),
			Comment:      get(r, l.Comment),
		}
		if f.SpecificName == "" {
			f.SpecificName = f.Name
		}
		out = append(out, f)
	}
	return out
}

func DecodeParameters(rows []rowset.Row, l ParameterLabels) []model.Parameter {
	out := make([]model.Parameter, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Parameter{
			Schema:       get(r, l.Schema),
			SpecificName: get(r, l.SpecificName),
			Position:     atoi(get(r, l.Position)),
			Name:         get(r, l.Name),
			Mode:         get(r, l.Mode),
			DataType:     get(r, l.DataType),
			Default:      get(r, l.Default),
		})
	}
	return out
}

func DecodeTriggers(rows []rowset.Row, l TriggerLabels) []model.Trigger {
	out := make([]model.Trigger, 0, len(rows))
	for _, r := range rows {
		t := model.Trigger{
			Schema:      get(r, l.Schema),
			Name:        get(r, l.Name),
			Timing:      strings.TrimSpace(get(r, l.Timing)),
			Event:       get(r, l.Event),
			Orientation: get(r, l.Orientation),
			TableSchema: get(r, l.TableSchema),
			Table:       get(r, l.Table),
			Description: get(r, l.Description),
			Definition:  get(r, l.Definition),
			Enabled:     flag(r, l.Enabled),
		}
		if t.Enabled == nil {
			if disabled := flag(r, l.Disabled); disabled != nil {
				enabled := !*disabled
				t.Enabled = &enabled
			}
		}
		out = append(out, t)
	}
	return out
}
