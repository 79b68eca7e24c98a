package mssql

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/internal/filter"
)

// Dialect has no regex support; regex and not_regex filters are dropped.
var Dialect = filter.Dialect{Name: "mssql", Regex: filter.RegexUnsupported}

const tablesSQL = `SELECT
      T.TABLE_SCHEMA,
      T.TABLE_NAME,
      CAST(prop.value AS nvarchar(4000)) AS COMMENT
    FROM INFORMATION_SCHEMA.TABLES T
    LEFT JOIN sys.extended_properties prop
        ON prop.major_id = OBJECT_ID(QUOTENAME(T.TABLE_SCHEMA) + '.' + QUOTENAME(T.TABLE_NAME))
        AND prop.minor_id = 0
        AND prop.name = 'MS_Description'
    WHERE TABLE_TYPE = 'BASE TABLE'
    {filters}
    ORDER BY TABLE_SCHEMA, TABLE_NAME`

const columnsSQL = `SELECT
      c.TABLE_SCHEMA,
      c.TABLE_NAME,
      sc.COLUMN_ID,
      c.COLUMN_NAME,
      c.IS_NULLABLE,
      c.DATA_TYPE,
      c.COLUMN_DEFAULT,
      c.CHARACTER_MAXIMUM_LENGTH,
      c.NUMERIC_PRECISION,
      CAST(prop.value AS nvarchar(4000)) AS COMMENT
    FROM INFORMATION_SCHEMA.TABLES AS tbl
    INNER JOIN INFORMATION_SCHEMA.COLUMNS AS c
        ON c.TABLE_SCHEMA = tbl.TABLE_SCHEMA
        AND c.TABLE_NAME = tbl.TABLE_NAME
    INNER JOIN sys.columns AS sc
        ON sc.object_id = OBJECT_ID(QUOTENAME(tbl.TABLE_SCHEMA) + '.' + QUOTENAME(tbl.TABLE_NAME))
        AND sc.name = c.COLUMN_NAME
    LEFT JOIN sys.extended_properties prop
        ON prop.major_id = sc.object_id
        AND prop.minor_id = sc.column_id
        AND prop.name = 'MS_Description'
    WHERE tbl.TABLE_TYPE = 'BASE TABLE'
    {filters}
    ORDER BY c.TABLE_SCHEMA, c.TABLE_NAME, sc.COLUMN_ID`

const foreignKeysSQL = `SELECT
      OBJECT_NAME(f.constraint_object_id) AS CONSTRAINT_NAME,
      s.name AS SCHEMA_NAME,
      p.name AS TABLE_NAME,
      pc.name AS COLUMN_NAME,
      rs.name AS REF_SCHEMA_NAME,
      r.name AS REF_TABLE_NAME,
      rc.name AS REF_COLUMN_NAME
    FROM sys.foreign_key_columns f
    JOIN sys.objects p
      ON p.object_id = f.parent_object_id
    JOIN sys.schemas s
      ON p.schema_id = s.schema_id
    JOIN sys.columns pc
      ON pc.object_id = f.parent_object_id
      AND f.parent_column_id = pc.column_id
    JOIN sys.objects r
      ON r.object_id = f.referenced_object_id
    JOIN sys.schemas rs
      ON r.schema_id = rs.schema_id
    JOIN sys.columns rc
      ON rc.object_id = f.referenced_object_id
      AND rc.column_id = f.referenced_column_id
    WHERE 1 = 1
    {filters}`

const viewsSQL = `SELECT
      s.name AS SCHEMA_NAME,
      v.name AS VIEW_NAME,
      sm.definition AS DEFINITION
    FROM sys.views v
    JOIN sys.schemas s ON v.schema_id = s.schema_id
    JOIN sys.sql_modules sm ON v.object_id = sm.object_id
    WHERE v.type_desc = 'VIEW'
    {filters}
    ORDER BY VIEW_NAME`

const functionsSQL = `SELECT
      s.name AS SCHEMA_NAME,
      o.name AS NAME,
      o.type_desc AS ROUTINE_TYPE,
      sm.definition AS DEFINITION,
      CAST(prop.value AS nvarchar(4000)) AS COMMENT
    FROM sys.sql_modules sm
    JOIN sys.objects o ON sm.object_id = o.object_id
    JOIN sys.schemas s ON o.schema_id = s.schema_id
    LEFT JOIN sys.extended_properties prop
        ON prop.major_id = o.object_id
        AND prop.minor_id = 0
        AND prop.name = 'MS_Description'
    WHERE (o.type_desc LIKE '%FUNCTION%' OR o.type_desc = 'SQL_STORED_PROCEDURE')
    {filters}
    ORDER BY NAME`

// parameter_id 0 is a scalar function's return value.
const parametersSQL = `SELECT
      s.name AS SCHEMA_NAME,
      o.name AS ROUTINE_NAME,
      p.parameter_id AS POSITION,
      p.name AS PARAMETER_NAME,
      IIF(p.is_output = 1, 'OUT', 'IN') AS PARAMETER_MODE,
      TYPE_NAME(p.user_type_id) AS DATA_TYPE
    FROM sys.parameters p
    JOIN sys.objects o ON p.object_id = o.object_id
    JOIN sys.schemas s ON o.schema_id = s.schema_id
    WHERE p.parameter_id > 0
      AND (o.type_desc LIKE '%FUNCTION%' OR o.type_desc = 'SQL_STORED_PROCEDURE')
    {filters}
    ORDER BY SCHEMA_NAME, ROUTINE_NAME, POSITION`

const triggersSQL = `SELECT
      s.name AS TABLE_SCHEMA,
      syo.name AS TRIGGER_NAME,
      RTRIM(CONCAT(
          IIF(OBJECTPROPERTY(id, 'ExecIsAfterTrigger') = 1, 'AFTER ', ''),
          IIF(OBJECTPROPERTY(id, 'ExecIsInsteadOfTrigger') = 1, 'INSTEAD OF ', '')
      )) AS TRIGGER_TIMING,
      RTRIM(CONCAT(
          IIF(OBJECTPROPERTY(id, 'ExecIsUpdateTrigger') = 1, 'UPDATE ', ''),
          IIF(OBJECTPROPERTY(id, 'ExecIsDeleteTrigger') = 1, 'DELETE ', ''),
          IIF(OBJECTPROPERTY(id, 'ExecIsInsertTrigger') = 1, 'INSERT ', '')
      )) AS TRIGGER_EVENT,
      OBJECT_NAME(parent_obj) AS TABLE_NAME,
      sm.definition AS DEFINITION,
      OBJECTPROPERTY(id, 'ExecIsTriggerDisabled') AS DISABLED
    FROM sysobjects syo
    INNER JOIN sys.tables t
        ON syo.parent_obj = t.object_id
    INNER JOIN sys.schemas s
        ON t.schema_id = s.schema_id
    INNER JOIN sys.sql_modules sm
        ON sm.object_id = syo.id
    WHERE syo.type = 'TR'
    {filters}
    ORDER BY TABLE_NAME, TRIGGER_NAME`

var querySet = catalog.QuerySet{
	Dialect: Dialect,
	Templates: map[catalog.Kind]catalog.Template{
		catalog.KindTables: {SQL: tablesSQL, Fields: filter.Fields{
			filter.FieldSchema:    "T.TABLE_SCHEMA",
			filter.FieldTableName: "T.TABLE_NAME",
		}},
		catalog.KindColumns: {SQL: columnsSQL, Fields: filter.Fields{
			filter.FieldSchema:    "tbl.TABLE_SCHEMA",
			filter.FieldTableName: "c.TABLE_NAME",
		}},
		catalog.KindForeignKeys: {SQL: foreignKeysSQL},
		catalog.KindViews: {SQL: viewsSQL, Fields: filter.Fields{
			filter.FieldSchema: "s.name",
		}},
		catalog.KindFunctions: {SQL: functionsSQL, Fields: filter.Fields{
			filter.FieldSchema: "s.name",
		}},
		catalog.KindParameters: {SQL: parametersSQL, Fields: filter.Fields{
			filter.FieldSchema: "s.name",
		}},
		catalog.KindTriggers: {SQL: triggersSQL, Fields: filter.Fields{
			filter.FieldSchema: "s.name",
		}},
	},
	Labels: catalog.Labels{
		Tables: catalog.TableLabels{Schema: "TABLE_SCHEMA", Name: "TABLE_NAME", Comment: "COMMENT"},
		Columns: catalog.ColumnLabels{
			Schema: "TABLE_SCHEMA", Table: "TABLE_NAME", Position: "COLUMN_ID", Name: "COLUMN_NAME",
			Nullable: "IS_NULLABLE", DataType: "DATA_TYPE", Default: "COLUMN_DEFAULT",
			Length: "CHARACTER_MAXIMUM_LENGTH", Precision: "NUMERIC_PRECISION", Comment: "COMMENT",
		},
		ForeignKeys: catalog.ForeignKeyLabels{
			Constraint: "CONSTRAINT_NAME", Schema: "SCHEMA_NAME", Table: "TABLE_NAME", Column: "COLUMN_NAME",
			RefSchema: "REF_SCHEMA_NAME", RefTable: "REF_TABLE_NAME", RefColumn: "REF_COLUMN_NAME",
		},
		Views: catalog.ViewLabels{Schema: "SCHEMA_NAME", Name: "VIEW_NAME", Definition: "DEFINITION"},
		Functions: catalog.FunctionLabels{
			Schema: "SCHEMA_NAME", Name: "NAME", Kind: "ROUTINE_TYPE", Definition: "DEFINITION", Comment: "COMMENT",
		},
		Parameters: catalog.ParameterLabels{
			Schema: "SCHEMA_NAME", SpecificName: "ROUTINE_NAME", Position: "POSITION",
			Name: "PARAMETER_NAME", Mode: "PARAMETER_MODE", DataType: "DATA_TYPE",
		},
		Triggers: catalog.TriggerLabels{
			Schema: "TABLE_SCHEMA", Name: "TRIGGER_NAME", Timing: "TRIGGER_TIMING", Event: "TRIGGER_EVENT",
			TableSchema: "TABLE_SCHEMA", Table: "TABLE_NAME", Definition: "DEFINITION", Disabled: "DISABLED",
		},
	},
}
