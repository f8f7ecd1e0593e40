package esadapter

import (
	"context"

	elastic "github.com/olivere/elastic/v7"
)

// Get returns a single record by document id, or nil if the document
// doesn't exist.
func (a *Adapter) Get(ctx context.Context, connection, collection, id string, opts ...Option) (rec Record, err error) {
	timer := opTimer("get")
	defer func() { timer.ObserveErr(err) }()

	_, _, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return nil, err
	}
	return getRecord(ctx, client, index, id)
}

// getRecord fetches one document and maps it onto a record,
// nil if it doesn't exist.
func getRecord(ctx context.Context, client *elastic.Client, index, id string) (Record, error) {
	res, err := client.Get().Index(index).Id(id).Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}
	return recordFromSource(res.Id, res.Source)
}

// Mget returns one record slot per id, in the order the ids were given.
// Ids that don't resolve to a document leave a nil slot.
func (a *Adapter) Mget(ctx context.Context, connection, collection string, ids []string, opts ...Option) (records []Record, err error) {
	timer := opTimer("mget")
	defer func() { timer.ObserveErr(err) }()

	if len(ids) == 0 {
		return []Record{}, nil
	}

	_, _, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return nil, err
	}

	svc := client.Mget()
	for _, id := range ids {
		svc = svc.Add(elastic.NewMultiGetItem().Index(index).Id(id))
	}
	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	return mgetRecords(res)
}

// Delete removes a single document by id. Client errors, including
// not-found, pass through unmodified.
func (a *Adapter) Delete(ctx context.Context, connection, collection, id string, opts ...Option) (err error) {
	timer := opTimer("delete")
	defer func() { timer.ObserveErr(err) }()

	_, _, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return err
	}
	_, err = client.Delete().Index(index).Id(id).Do(ctx)
	return err
}
