package mysql

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/filter"
)

// Dialect renders regex filters with REGEXP and NOT REGEXP.
var Dialect = filter.Dialect{Name: "mysql", Regex: filter.RegexInfix, Match: "REGEXP", NotMatch: "NOT REGEXP"}

const tablesSQL = `SELECT
    TABLE_SCHEMA,
    TABLE_NAME,
    TABLE_COMMENT
    FROM information_schema.tables
    WHERE TABLE_TYPE  = 'BASE TABLE'
    {filters}
    ORDER BY TABLE_NAME`

const columnsSQL = `SELECT
        c.TABLE_SCHEMA,
        c.TABLE_NAME,
        c.COLUMN_NAME,
        c.ORDINAL_POSITION,
        c.IS_NULLABLE,
        c.DATA_TYPE,
        c.COLUMN_DEFAULT,
        c.CHARACTER_MAXIMUM_LENGTH,
        c.NUMERIC_PRECISION,
        c.COLUMN_COMMENT
    FROM information_schema.tables t
    JOIN information_schema.` + "`COLUMNS`" + ` c
      ON c.TABLE_SCHEMA = t.TABLE_SCHEMA
     AND c.TABLE_NAME = t.TABLE_NAME
    WHERE t.TABLE_TYPE = 'BASE TABLE'
    {filters}
    ORDER BY c.TABLE_SCHEMA, c.TABLE_NAME, c.ORDINAL_POSITION`

const foreignKeysSQL = `SELECT
        TABLE_SCHEMA,
        CONSTRAINT_NAME,
        TABLE_NAME,
        COLUMN_NAME,
        REFERENCED_TABLE_SCHEMA,
        REFERENCED_TABLE_NAME,
        REFERENCED_COLUMN_NAME
    FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
    WHERE REFERENCED_COLUMN_NAME IS NOT NULL
    {filters}`

const viewsSQL = `SELECT
        TABLE_SCHEMA,
        TABLE_NAME,
        VIEW_DEFINITION,
        IS_UPDATABLE
    FROM information_schema.VIEWS v
    WHERE 1=1
    {filters}
    ORDER BY TABLE_SCHEMA, TABLE_NAME`

const functionsSQL = `SELECT
        ROUTINE_SCHEMA,
        ROUTINE_NAME,
        SPECIFIC_NAME,
        ROUTINE_TYPE,
        DTD_IDENTIFIER,
        ROUTINE_BODY,
        ROUTINE_DEFINITION,
        ROUTINE_COMMENT
    FROM information_schema.ROUTINES r
    WHERE 1=1
    {filters}
    ORDER BY ROUTINE_NAME`

// ORDINAL_POSITION 0 is a function's return value, already reported by the routine.
const parametersSQL = `SELECT
        SPECIFIC_SCHEMA,
        SPECIFIC_NAME,
        ORDINAL_POSITION,
        PARAMETER_NAME,
        PARAMETER_MODE,
        DTD_IDENTIFIER
    FROM information_schema.PARAMETERS
    WHERE ORDINAL_POSITION > 0
    {filters}
    ORDER BY SPECIFIC_SCHEMA, SPECIFIC_NAME, ORDINAL_POSITION`

const triggersSQL = `SELECT
        TRIGGER_SCHEMA,
        TRIGGER_NAME,
        ACTION_TIMING,
        EVENT_MANIPULATION,
        ACTION_ORIENTATION,
        EVENT_OBJECT_SCHEMA,
        EVENT_OBJECT_TABLE,
        ACTION_STATEMENT
    FROM information_schema.TRIGGERS t
    WHERE 1=1
    {filters}
    ORDER BY TRIGGER_SCHEMA, TRIGGER_NAME`

var querySet = catalog.QuerySet{
	Dialect: Dialect,
	Templates: map[catalog.Kind]catalog.Template{
		catalog.KindTables: {SQL: tablesSQL, Fields: filter.Fields{
			filter.FieldSchema:    "TABLE_SCHEMA",
			filter.FieldTableName: "TABLE_NAME",
		}},
		catalog.KindColumns: {SQL: columnsSQL, Fields: filter.Fields{
			filter.FieldSchema:    "c.TABLE_SCHEMA",
			filter.FieldTableName: "c.TABLE_NAME",
		}},
		catalog.KindForeignKeys: {SQL: foreignKeysSQL},
		catalog.KindViews: {SQL: viewsSQL, Fields: filter.Fields{
			filter.FieldSchema: "TABLE_SCHEMA",
		}},
		catalog.KindFunctions: {SQL: functionsSQL, Fields: filter.Fields{
			filter.FieldSchema: "ROUTINE_SCHEMA",
		}},
		catalog.KindParameters: {SQL: parametersSQL, Fields: filter.Fields{
			filter.FieldSchema: "SPECIFIC_SCHEMA",
		}},
		catalog.KindTriggers: {SQL: triggersSQL, Fields: filter.Fields{
			filter.FieldSchema: "TRIGGER_SCHEMA",
		}},
	},
	Labels: catalog.Labels{
		Tables: catalog.TableLabels{Schema: "TABLE_SCHEMA", Name: "TABLE_NAME", Comment: "TABLE_COMMENT"},
		Columns: catalog.ColumnLabels{
			Schema: "TABLE_SCHEMA", Table: "TABLE_NAME", Position: "ORDINAL_POSITION", Name: "COLUMN_NAME",
			Nullable: "IS_NULLABLE", DataType: "DATA_TYPE", Default: "COLUMN_DEFAULT",
			Length: "CHARACTER_MAXIMUM_LENGTH", Precision: "NUMERIC_PRECISION", Comment: "COLUMN_COMMENT",
		},
		ForeignKeys: catalog.ForeignKeyLabels{
			Constraint: "CONSTRAINT_NAME", Schema: "TABLE_SCHEMA", Table: "TABLE_NAME", Column: "COLUMN_NAME",
			RefSchema: "REFERENCED_TABLE_SCHEMA", RefTable: "REFERENCED_TABLE_NAME", RefColumn: "REFERENCED_COLUMN_NAME",
		},
		Views: catalog.ViewLabels{Schema: "TABLE_SCHEMA", Name: "TABLE_NAME", Definition: "VIEW_DEFINITION", Updatable: "IS_UPDATABLE"},
		Functions: catalog.FunctionLabels{
			Schema: "ROUTINE_SCHEMA", Name: "ROUTINE_NAME", SpecificName: "SPECIFIC_NAME", Kind: "ROUTINE_TYPE",
			ReturnType: "DTD_IDENTIFIER", Language: "ROUTINE_BODY", Definition: "ROUTINE_DEFINITION", Comment: "ROUTINE_COMMENT",
		},
		Parameters: catalog.ParameterLabels{
			Schema: "SPECIFIC_SCHEMA", SpecificName: "SPECIFIC_NAME", Position: "ORDINAL_POSITION",
			Name: "PARAMETER_NAME", Mode: "PARAMETER_MODE", DataType: "DTD_IDENTIFIER",
		},
		Triggers: catalog.TriggerLabels{
			Schema: "TRIGGER_SCHEMA", Name: "TRIGGER_NAME", Timing: "ACTION_TIMING", Event: "EVENT_MANIPULATION",
			Orientation: "ACTION_ORIENTATION", TableSchema: "EVENT_OBJECT_SCHEMA", Table: "EVENT_OBJECT_TABLE",
			Definition: "ACTION_STATEMENT",
		},
	},
}
