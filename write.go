package esadapter

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/mintel/elasticsearch-adapter/pkg/criteria"
)

// ErrMissingPrimaryKey is returned by Update and Destroy when the criteria
// carries no scalar primary-key value. It is raised before any network call.
var ErrMissingPrimaryKey = errors.New("criteria is missing the primary-key value")

// Create indexes values as a new document and returns the stored record.
// If values carries a string primary key, it becomes the document id;
// otherwise Elasticsearch assigns one.
//
// This is a two-step sequence: the document is indexed, then fetched back
// by id. A failure between the steps leaves the document created but not
// returned.
func (a *Adapter) Create(ctx context.Context, connection, collection string, values Record, opts ...Option) (rec Record, err error) {
	timer := opTimer("create")
	defer func() { timer.ObserveErr(err) }()

	_, coll, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return nil, err
	}

	values = coll.Restrict(values)
	svc := client.Index().Index(index).BodyJson(values)
	if id, ok := values[coll.primaryKey()].(string); ok && id != "" {
		svc = svc.Id(id)
	}
	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	return getRecord(ctx, client, index, res.Id)
}

// Update modifies the document addressed by the criteria's primary-key
// value and returns the stored record. Like Create, this is a non-atomic
// update-then-fetch sequence.
func (a *Adapter) Update(ctx context.Context, connection, collection string, crit criteria.Criteria, values Record, opts ...Option) (rec Record, err error) {
	timer := opTimer("update")
	defer func() { timer.ObserveErr(err) }()

	c, err := a.connection(connection)
	if err != nil {
		return nil, err
	}
	coll, err := c.collection(collection)
	if err != nil {
		return nil, err
	}
	id, err := primaryKeyValue(coll, crit)
	if err != nil {
		return nil, err
	}
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	index := c.indexFor(collection, coll, newOpOptions(opts))

	values = coll.Restrict(values)
	if _, err = client.Update().Index(index).Id(id).Doc(values).Do(ctx); err != nil {
		return nil, err
	}
	return getRecord(ctx, client, index, id)
}

// Destroy removes the document addressed by the criteria's primary-key
// value.
func (a *Adapter) Destroy(ctx context.Context, connection, collection string, crit criteria.Criteria, opts ...Option) (err error) {
	timer := opTimer("destroy")
	defer func() { timer.ObserveErr(err) }()

	c, err := a.connection(connection)
	if err != nil {
		return err
	}
	coll, err := c.collection(collection)
	if err != nil {
		return err
	}
	id, err := primaryKeyValue(coll, crit)
	if err != nil {
		return err
	}
	client, err := c.Client(ctx)
	if err != nil {
		return err
	}
	index := c.indexFor(collection, coll, newOpOptions(opts))

	_, err = client.Delete().Index(index).Id(id).Do(ctx)
	return err
}

// primaryKeyValue extracts the scalar primary-key value from the criteria.
func primaryKeyValue(coll *Collection, crit criteria.Criteria) (string, error) {
	v, ok := crit.Where[coll.primaryKey()]
	if !ok || v == nil {
		return "", ErrMissingPrimaryKey
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return "", ErrMissingPrimaryKey
	}
	id := fmt.Sprint(v)
	if id == "" {
		return "", ErrMissingPrimaryKey
	}
	return id, nil
}
