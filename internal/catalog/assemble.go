package catalog

import "github.com/redbco/redb-dbdoc/internal/model"

// Nest attaches to each parent the children whose key equals the parent's key.
// Children are indexed once, so the join is linear. Output follows parent
// order and each child group keeps the order of children. A parent without
// children receives an empty, non-nil slice. Inputs are not modified: attach
// gets a copy of the parent and a freshly allocated child slice.
func Nest[P, C any, K comparable](
	parents []P,
	children []C,
	parentKey func(P) K,
	childKey func(C) K,
	attach func(P, []C) P,
) []P {
	index := make(map[K][]C, len(parents))
	for _, c := range children {
		k := childKey(c)
		index[k] = append(index[k], c)
	}

	out := make([]P, 0, len(parents))
	for _, p := range parents {
		group := index[parentKey(p)]
		kids := make([]C, len(group))
		copy(kids, group)
		out = append(out, attach(p, kids))
	}
	return out
}

type tableKey struct{ schema, table string }

type columnKey struct{ schema, table, column string }

type routineKey struct{ schema, specific string }

// AssembleTables nests foreign keys under their source column and columns
// under their table. Joins are keyed by schema as well as name.
func AssembleTables(tables []model.Table, columns []model.Column, fks []model.ForeignKey) []model.Table {
	withKeys := Nest(columns, fks,
		func(c model.Column) columnKey { return columnKey{c.Schema, c.Table, c.Name} },
		func(fk model.ForeignKey) columnKey { return columnKey{fk.Schema, fk.Table, fk.Column} },
		func(c model.Column, kids []model.ForeignKey) model.Column {
			c.ForeignKeys = kids
			return c
		},
	)

	return Nest(tables, withKeys,
		func(t model.Table) tableKey { return tableKey{t.Schema, t.Name} },
		func(c model.Column) tableKey { return tableKey{c.Schema, c.Table} },
		func(t model.Table, kids []model.Column) model.Table {
			t.Columns = kids
			return t
		},
	)
}

// AssembleFunctions nests parameters under their function by (schema, specific name).
func AssembleFunctions(functions []model.Function, params []model.Parameter) []model.Function {
	return Nest(functions, params,
		func(f model.Function) routineKey { return routineKey{f.Schema, f.SpecificName} },
		func(p model.Parameter) routineKey { return routineKey{p.Schema, p.SpecificName} },
		func(f model.Function, kids []model.Parameter) model.Function {
			f.Parameters = kids
			return f
		},
	)
}
