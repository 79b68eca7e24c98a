// Package rowset runs one catalog query and turns the driver's cursor into
// engine-neutral rows of string values.
package rowset

import "strings"

// Row is one result row. Columns and Values are parallel and keep the
// column order reported by the driver. Null values are stored as "".
type Row struct {
	Columns []string
	Values  []string
}

// Get returns the value of the column with the given label. An exact match
// wins; otherwise labels are compared case-insensitively, since engines
// differ in how they fold unquoted identifiers.
func (r Row) Get(label string) string {
	for i, c := range r.Columns {
		if c == label {
			return r.Values[i]
		}
	}
	for i, c := range r.Columns {
		if strings.EqualFold(c, label) {
			return r.Values[i]
		}
	}
	return ""
}

// Has reports whether the row carries a column with the given label.
func (r Row) Has(label string) bool {
	for _, c := range r.Columns {
		if strings.EqualFold(c, label) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	return Row{
		Columns: append([]string(nil), r.Columns...),
		Values:  append([]string(nil), r.Values...),
	}
}
