package postgres

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/filter"
)

// Dialect renders regex filters with the ~ and !~ operators.
var Dialect = filter.Dialect{Name: "postgres", Regex: filter.RegexInfix, Match: "~", NotMatch: "!~"}

const tablesSQL = `SELECT
      st.schemaname,
      st.relname,
      pd.description
    FROM pg_catalog.pg_statio_all_tables AS st
    LEFT JOIN pg_catalog.pg_description pd
           ON st.relid = pd.objoid
          AND pd.objsubid = 0
    WHERE 1 = 1
    {filters}
    ORDER BY st.relname`

const columnsSQL = `SELECT
      c.table_schema,
      c.table_name,
      c.ordinal_position,
      c.column_name,
      c.is_nullable,
      c.data_type,
      c.column_default,
      c.character_maximum_length,
      c.numeric_precision,
      pd.description
    FROM information_schema.columns c
    JOIN pg_catalog.pg_statio_all_tables st
      ON st.schemaname = c.table_schema
     AND st.relname = c.table_name
    LEFT JOIN pg_catalog.pg_description pd
           ON pd.objoid = st.relid
          AND pd.objsubid = c.ordinal_position
    WHERE 1=1
    {filters}
    ORDER BY c.table_name, c.ordinal_position`

const foreignKeysSQL = `SELECT
        tc.table_schema,
        tc.constraint_name,
        tc.table_name,
        kcu.column_name,
        ccu.table_schema AS foreign_table_schema,
        ccu.table_name AS foreign_table_name,
        ccu.column_name AS foreign_column_name
    FROM
        information_schema.table_constraints AS tc
        JOIN information_schema.key_column_usage AS kcu
          ON tc.constraint_name = kcu.constraint_name
          AND tc.table_schema = kcu.table_schema
        JOIN information_schema.constraint_column_usage AS ccu
          ON ccu.constraint_name = tc.constraint_name
          AND ccu.constraint_schema = tc.constraint_schema
    WHERE constraint_type = 'FOREIGN KEY'
    {filters}`

const viewsSQL = `SELECT
        schemaname,
        viewname,
        definition
    FROM pg_catalog.pg_views
    WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
    {filters}
    ORDER BY schemaname, viewname`

// pg_proc is matched through the specific name (proname_oid) so that
// overloaded routines do not multiply rows.
const functionsSQL = `SELECT
        r.routine_schema,
        r.routine_name,
        r.specific_name,
        r.routine_type,
        r.data_type,
        r.routine_definition,
        r.external_language,
        pd.description
    FROM information_schema.routines r
    JOIN pg_catalog.pg_namespace n ON r.routine_schema = n.nspname
    JOIN pg_catalog.pg_proc pgp
      ON pgp.pronamespace = n.oid
     AND pgp.proname || '_' || pgp.oid = r.specific_name
    LEFT JOIN pg_catalog.pg_description pd
        ON pd.objoid = pgp.oid
    WHERE 1=1
    {filters}
    ORDER BY routine_name`

const parametersSQL = `SELECT
        specific_schema,
        specific_name,
        ordinal_position,
        parameter_name,
        parameter_mode,
        data_type,
        parameter_default
    FROM information_schema.parameters
    WHERE 1=1
    {filters}
    ORDER BY specific_name, ordinal_position`

const triggersSQL = `SELECT
       event_object_schema,
       event_object_table,
       trigger_name,
       event_manipulation,
       trigger_schema,
       action_timing,
       action_orientation,
       action_statement
    FROM information_schema.triggers
    WHERE 1=1
    {filters}
    ORDER BY event_object_table, trigger_name`

var querySet = catalog.QuerySet{
	Dialect: Dialect,
	Templates: map[catalog.Kind]catalog.Template{
		catalog.KindTables: {SQL: tablesSQL, Fields: filter.Fields{
			filter.FieldSchema:    "schemaname",
			filter.FieldTableName: "st.relname",
		}},
		catalog.KindColumns: {SQL: columnsSQL, Fields: filter.Fields{
			filter.FieldSchema:    "c.table_schema",
			filter.FieldTableName: "c.table_name",
		}},
		catalog.KindForeignKeys: {SQL: foreignKeysSQL},
		catalog.KindViews: {SQL: viewsSQL, Fields: filter.Fields{
			filter.FieldSchema: "schemaname",
		}},
		catalog.KindFunctions: {SQL: functionsSQL, Fields: filter.Fields{
			filter.FieldSchema: "routine_schema",
		}},
		catalog.KindParameters: {SQL: parametersSQL, Fields: filter.Fields{
			filter.FieldSchema: "specific_schema",
		}},
		catalog.KindTriggers: {SQL: triggersSQL, Fields: filter.Fields{
			filter.FieldSchema: "trigger_schema",
		}},
	},
	Labels: catalog.Labels{
		Tables: catalog.TableLabels{Schema: "schemaname", Name: "relname", Comment: "description"},
		Columns: catalog.ColumnLabels{
			Schema: "table_schema", Table: "table_name", Position: "ordinal_position", Name: "column_name",
			Nullable: "is_nullable", DataType: "data_type", Default: "column_default",
			Length: "character_maximum_length", Precision: "numeric_precision", Comment: "description",
		},
		ForeignKeys: catalog.ForeignKeyLabels{
			Constraint: "constraint_name", Schema: "table_schema", Table: "table_name", Column: "column_name",
			RefSchema: "foreign_table_schema", RefTable: "foreign_table_name", RefColumn: "foreign_column_name",
		},
		Views: catalog.ViewLabels{Schema: "schemaname", Name: "viewname", Definition: "definition"},
		Functions: catalog.FunctionLabels{
			Schema: "routine_schema", Name: "routine_name", SpecificName: "specific_name", Kind: "routine_type",
			ReturnType: "data_type", Language: "external_language", Definition: "routine_definition", Comment: "description",
		},
		Parameters: catalog.ParameterLabels{
			Schema: "specific_schema", SpecificName: "specific_name", Position: "ordinal_position",
			Name: "parameter_name", Mode: "parameter_mode", DataType: "data_type", Default: "parameter_default",
		},
		Triggers: catalog.TriggerLabels{
			Schema: "trigger_schema", Name: "trigger_name", Timing: "action_timing", Event: "event_manipulation",
			Orientation: "action_orientation", TableSchema: "event_object_schema", Table: "event_object_table",
			Definition: "action_statement",
		},
	},
}
