package esadapter

import (
	"context"
	"errors"

	elastic "github.com/olivere/elastic/v7"

	"github.com/mintel/elasticsearch-adapter/pkg/es"
)

// ErrIndexExists is returned by Define when the collection's index already
// exists. Creation is never silently skipped.
var ErrIndexExists = errors.New("index already exists")

// defaultMappings maps ORM attribute types to Elasticsearch field types.
// json attributes default to nested so dotted criteria paths can query
// into them.
var defaultMappings = map[string]string{
	"string":   "text",
	"text":     "text",
	"integer":  "long",
	"float":    "double",
	"boolean":  "boolean",
	"date":     "date",
	"datetime": "date",
	"json":     "nested",
}

// Describe returns the mapping properties of the collection's index, or nil
// if the index doesn't exist. Results are cached for a few minutes; Define
// and Drop invalidate the cache.
func (a *Adapter) Describe(ctx context.Context, connection, collection string, opts ...Option) (props map[string]interface{}, err error) {
	timer := opTimer("describe")
	defer func() { timer.ObserveErr(err) }()

	_, _, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return nil, err
	}

	key := connection + "/" + index
	if cached, ok := a.mappings.Get(key); ok {
		return cached.(map[string]interface{}), nil
	}

	res, err := es.NewIndicesGetMappingService(client).Index(index).Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	props = res[index]
	a.mappings.SetDefault(key, props)
	return props, nil
}

// Define creates the collection's index and puts the mapping derived from
// its attribute metadata. An index that already exists is an explicit
// error, not a no-op.
func (a *Adapter) Define(ctx context.Context, connection, collection string, opts ...Option) (err error) {
	timer := opTimer("define")
	defer func() { timer.ObserveErr(err) }()

	_, coll, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return err
	}

	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrIndexExists
	}
	if _, err = client.CreateIndex(index).Do(ctx); err != nil {
		return err
	}
	if props := mappingProperties(coll); len(props) > 0 {
		body := map[string]interface{}{"properties": props}
		if _, err = client.PutMapping().Index(index).BodyJson(body).Do(ctx); err != nil {
			return err
		}
	}
	a.mappings.Delete(connection + "/" + index)
	return nil
}

// Drop deletes the collection's index. Client errors, including not-found,
// pass through unmodified.
func (a *Adapter) Drop(ctx context.Context, connection, collection string, opts ...Option) (err error) {
	timer := opTimer("drop")
	defer func() { timer.ObserveErr(err) }()

	_, _, client, index, err := a.resolve(ctx, connection, collection, newOpOptions(opts))
	if err != nil {
		return err
	}
	if _, err = client.DeleteIndex(index).Do(ctx); err != nil {
		return err
	}
	a.mappings.Delete(connection + "/" + index)
	return nil
}

// mappingProperties derives the index mapping from the collection's
// attribute metadata. Attributes with an explicit Mapping use it verbatim;
// others fall back to defaultMappings, or are left to dynamic mapping if
// their type isn't listed there.
func mappingProperties(coll *Collection) map[string]interface{} {
	if coll == nil {
		return nil
	}
	props := make(map[string]interface{}, len(coll.Attributes))
	for name, attr := range coll.Attributes {
		if attr == nil {
			continue
		}
		if attr.Mapping != nil {
			props[name] = attr.Mapping
			continue
		}
		if t, ok := defaultMappings[attr.Type]; ok {
			props[name] = map[string]interface{}{"type": t}
		}
	}
	return props
}
