package oracle

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/filter"
)

// Dialect renders regex filters as REGEXP_LIKE calls.
var Dialect = filter.Dialect{Name: "oracle", Regex: filter.RegexFunc, Func: "REGEXP_LIKE"}

const tablesSQL = `SELECT
      tab.OWNER,
      tab.TABLE_NAME,
      com.COMMENTS
    FROM all_tables tab
    LEFT JOIN all_tab_comments com
           ON tab.OWNER = com.OWNER
          AND tab.TABLE_NAME = com.TABLE_NAME
    WHERE 1 = 1
    {filters}
    ORDER BY tab.TABLE_NAME`

const columnsSQL = `SELECT
      col.OWNER,
      col.TABLE_NAME,
      col.COLUMN_ID,
      col.COLUMN_NAME,
      col.NULLABLE,
      col.DATA_TYPE,
      col.DATA_DEFAULT,
      col.DATA_LENGTH,
      col.DATA_PRECISION,
      com.COMMENTS
    FROM all_tab_columns col
    JOIN all_tables tab
      ON col.OWNER = tab.OWNER
     AND col.TABLE_NAME = tab.TABLE_NAME
    LEFT JOIN all_col_comments com
           ON col.OWNER = com.OWNER
          AND col.TABLE_NAME = com.TABLE_NAME
          AND col.COLUMN_NAME = com.COLUMN_NAME
    WHERE 1=1
    {filters}
    ORDER BY col.OWNER, col.TABLE_NAME, col.COLUMN_ID`

const foreignKeysSQL = `SELECT
        c.OWNER,
        a.CONSTRAINT_NAME,
        a.TABLE_NAME,
        a.COLUMN_NAME,
        c.R_OWNER AS F_OWNER,
        c_pk.TABLE_NAME AS F_TABLE_NAME,
        b.COLUMN_NAME AS F_COLUMN_NAME
    FROM all_cons_columns a
        JOIN all_constraints c
          ON a.OWNER = c.OWNER
         AND a.CONSTRAINT_NAME = c.CONSTRAINT_NAME
        JOIN all_constraints c_pk
          ON c.R_OWNER = c_pk.OWNER
         AND c.R_CONSTRAINT_NAME = c_pk.CONSTRAINT_NAME
        JOIN all_cons_columns b
          ON b.OWNER = c_pk.OWNER
         AND b.CONSTRAINT_NAME = c_pk.CONSTRAINT_NAME
         AND b.POSITION = a.POSITION
    WHERE c.CONSTRAINT_TYPE = 'R'
    {filters}`

const viewsSQL = `SELECT
        OWNER,
        VIEW_NAME,
        TEXT
    FROM ALL_VIEWS
    WHERE 1=1
    {filters}
    ORDER BY VIEW_NAME`

const functionsSQL = `SELECT
        NAME,
        TYPE,
        OWNER,
        RTRIM(XMLAGG(XMLELEMENT(E,TEXT).EXTRACT('//text()') ORDER BY LINE).GetClobVal(),',') AS SOURCE
    FROM ALL_SOURCE
    WHERE TYPE in ('FUNCTION', 'PROCEDURE')
    {filters}
    GROUP BY NAME, TYPE, OWNER
    ORDER BY NAME`

// Packaged routines and the unnamed return value row are left out.
const parametersSQL = `SELECT
        OWNER,
        OBJECT_NAME,
        POSITION,
        ARGUMENT_NAME,
        IN_OUT,
        DATA_TYPE,
        DEFAULT_VALUE
    FROM ALL_ARGUMENTS
    WHERE PACKAGE_NAME IS NULL
      AND ARGUMENT_NAME IS NOT NULL
      AND DATA_LEVEL = 0
    {filters}
    ORDER BY OWNER, OBJECT_NAME, POSITION`

const triggersSQL = `SELECT
        tr.OWNER,
        tr.TRIGGER_NAME,
        tr.TRIGGER_TYPE,
        tr.TRIGGERING_EVENT,
        tr.TABLE_OWNER,
        tr.TABLE_NAME,
        tr.DESCRIPTION,
        tr.STATUS,
        (SELECT
            RTRIM(XMLAGG(XMLELEMENT(E,TEXT).EXTRACT('//text()') ORDER BY LINE).GetClobVal(),',') AS SOURCE
        FROM all_source
        WHERE TYPE = 'TRIGGER'
          AND owner = tr.owner
          AND name = tr.TRIGGER_NAME
        GROUP BY name, TYPE, owner) AS SOURCE
    FROM ALL_TRIGGERS tr
    WHERE 1=1
    {filters}
    ORDER BY TABLE_NAME, TRIGGER_NAME`

var querySet = catalog.QuerySet{
	Dialect: Dialect,
	Templates: map[catalog.Kind]catalog.Template{
		catalog.KindTables: {SQL: tablesSQL, Fields: filter.Fields{
			filter.FieldSchema:    "tab.OWNER",
			filter.FieldTableName: "tab.TABLE_NAME",
		}},
		catalog.KindColumns: {SQL: columnsSQL, Fields: filter.Fields{
			filter.FieldSchema:    "tab.OWNER",
			filter.FieldTableName: "col.TABLE_NAME",
		}},
		catalog.KindForeignKeys: {SQL: foreignKeysSQL},
		catalog.KindViews: {SQL: viewsSQL, Fields: filter.Fields{
			filter.FieldSchema: "OWNER",
		}},
		catalog.KindFunctions: {SQL: functionsSQL, Fields: filter.Fields{
			filter.FieldSchema: "OWNER",
		}},
		catalog.KindParameters: {SQL: parametersSQL, Fields: filter.Fields{
			filter.FieldSchema: "OWNER",
		}},
		catalog.KindTriggers: {SQL: triggersSQL, Fields: filter.Fields{
			filter.FieldSchema: "tr.OWNER",
		}},
	},
	Labels: catalog.Labels{
		Tables: catalog.TableLabels{Schema: "OWNER", Name: "TABLE_NAME", Comment: "COMMENTS"},
		Columns: catalog.ColumnLabels{
			Schema: "OWNER", Table: "TABLE_NAME", Position: "COLUMN_ID", Name: "COLUMN_NAME",
			Nullable: "NULLABLE", DataType: "DATA_TYPE", Default: "DATA_DEFAULT",
			Length: "DATA_LENGTH", Precision: "DATA_PRECISION", Comment: "COMMENTS",
		},
		ForeignKeys: catalog.ForeignKeyLabels{
			Constraint: "CONSTRAINT_NAME", Schema: "OWNER", Table: "TABLE_NAME", Column: "COLUMN_NAME",
			RefSchema: "F_OWNER", RefTable: "F_TABLE_NAME", RefColumn: "F_COLUMN_NAME",
		},
		Views: catalog.ViewLabels{Schema: "OWNER", Name: "VIEW_NAME", Definition: "TEXT"},
		Functions: catalog.FunctionLabels{
			Schema: "OWNER", Name: "NAME", Kind: "TYPE", Definition: "SOURCE",
		},
		Parameters: catalog.ParameterLabels{
			Schema: "OWNER", SpecificName: "OBJECT_NAME", Position: "POSITION",
			Name: "ARGUMENT_NAME", Mode: "IN_OUT", DataType: "DATA_TYPE", Default: "DEFAULT_VALUE",
		},
		Triggers: catalog.TriggerLabels{
			Schema: "OWNER", Name: "TRIGGER_NAME", Timing: "TRIGGER_TYPE", Event: "TRIGGERING_EVENT",
			TableSchema: "TABLE_OWNER", Table: "TABLE_NAME", Description: "DESCRIPTION",
			Definition: "SOURCE", Enabled: "STATUS",
		},
	},
}
