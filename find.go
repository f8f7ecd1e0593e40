package esadapter

import (
	"context"

	"go.uber.org/zap"

	"github.com/mintel/elasticsearch-adapter/pkg/criteria"
	"github.com/mintel/elasticsearch-adapter/pkg/ctxlog"
)

// Find returns the records matching crit, in the order given by its sort
// entries. Referenced fields are not validated against the index mapping;
// a term clause on an analyzed field silently matches nothing.
func (a *Adapter) Find(ctx context.Context, connection, collection string, crit criteria.Criteria, opts ...Option) (records []Record, err error) {
	timer := opTimer("find")
	defer func() { timer.ObserveErr(err) }()

	c, _, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return nil, err
	}
	from, size, err := crit.Window()
	if err != nil {
		return nil, err
	}

	ctxlog.L(ctx).Debug("executing search",
		zap.String("connection", connection),
		zap.String("index", index),
	)

	svc := client.Search(index).Query(crit.Query())
	if sorters := crit.Sorters(); len(sorters) > 0 {
		svc = svc.SortBy(sorters...)
	}
	if from > 0 {
		svc = svc.From(from)
	}
	if size > 0 {
		svc = svc.Size(size)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	return c.searchRecords(ctx, res)
}
