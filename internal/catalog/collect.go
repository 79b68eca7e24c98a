package catalog

import (
	"context"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/filter"
	"github.com/redbco/redb-dbdoc/internal/model"
	"github.com/redbco/redb-dbdoc/internal/rowset"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
	"github.com/redbco/redb-dbdoc/pkg/logger"
)

// Collector runs the catalog queries of one engine over one connection.
type Collector struct {
	engine Engine
	db     adapter.Querier
	logger *logger.Logger
}

// NewCollector creates a collector. A nil logger discards output.
func NewCollector(engine Engine, db adapter.Querier, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Discard()
	}
	return &Collector{engine: engine, db: db, logger: log}
}

// Collect is a shorthand for NewCollector(...).Collect.
func Collect(ctx context.Context, engine Engine, db adapter.Querier, components []dbcapabilities.Component, filters *filter.Spec, log *logger.Logger) (*model.Document, error) {
	return NewCollector(engine, db, log).Collect(ctx, components, filters)
}

// Collect runs the queries the requested components need, one after the
// other, and assembles the document.
func (c *Collector) Collect(ctx context.Context, components []dbcapabilities.Component, filters *filter.Spec) (*model.Document, error) {
	qs := c.engine.Queries()
	doc := &model.Document{
		Engine:     c.engine.Type(),
		Components: append([]dbcapabilities.Component(nil), components...),
	}

	if doc.Has(dbcapabilities.ComponentTables) {
		tables, err := c.run(ctx, qs, KindTables, filters)
		if err != nil {
			return nil, err
		}
		columns, err := c.run(ctx, qs, KindColumns, filters)
		if err != nil {
			return nil, err
		}
		fks, err := c.run(ctx, qs, KindForeignKeys, filters)
		if err != nil {
			return nil, err
		}
		doc.Tables = AssembleTables(
			DecodeTables(tables, qs.Labels.Tables),
			DecodeColumns(columns, qs.Labels.Columns),
			DecodeForeignKeys(fks, qs.Labels.ForeignKeys),
		)
	}

	if doc.Has(dbcapabilities.ComponentViews) {
		views, err := c.run(ctx, qs, KindViews, filters)
		if err != nil {
			return nil, err
		}
		doc.Views = DecodeViews(views, qs.Labels.Views)
	}

	if doc.Has(dbcapabilities.ComponentFunctions) {
		functions, err := c.run(ctx, qs, KindFunctions, filters)
		if err != nil {
			return nil, err
		}
		params, err := c.run(ctx, qs, KindParameters, filters)
		if err != nil {
			return nil, err
		}
		doc.Functions = AssembleFunctions(
			DecodeFunctions(functions, qs.Labels.Functions),
			DecodeParameters(params, qs.Labels.Parameters),
		)
	}

	if doc.Has(dbcapabilities.ComponentTriggers) {
		triggers, err := c.run(ctx, qs, KindTriggers, filters)
		if err != nil {
			return nil, err
		}
		doc.Triggers = DecodeTriggers(triggers, qs.Labels.Triggers)
	}

	return doc, nil
}

func (c *Collector) run(ctx context.Context, qs QuerySet, kind Kind, filters *filter.Spec) ([]rowset.Row, error) {
	q, err := qs.Query(kind, filters)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("%s query:\n\n %s", kind, q.SQL())

	rows, err := q.Run(ctx, c.db)
	if err != nil {
		return nil, adapter.WrapError(c.engine.Type(), string(kind)+" query", err)
	}
	c.logger.Debugf("%s query returned %d rows", kind, len(rows))
	return rows, nil
}
