// Package esadapter maps ORM-style criteria and CRUD calls onto an
// Elasticsearch cluster, and maps search responses back onto plain records.
//
// An Adapter owns a registry of named connections. Each connection holds the
// raw config, the metadata of the collections registered on it, and a live
// client handle that is opened asynchronously at registration time.
// Everything below the query translation (transport, pooling, per-request
// retries, auth) belongs to the underlying elastic client.
package esadapter

import (
	"sync"
	"time"

	elastic "github.com/olivere/elastic/v7"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Record is a single document as a plain field-to-value mapping.
// The document id is always present under IDField.
type Record map[string]interface{}

// IDField is the record key under which the document id is injected.
// Elasticsearch reports the id as "_id"; records expose it as a plain "id"
// attribute so the host ORM treats it like any other field.
const IDField = "id"

// Attribute is the per-attribute slice of a collection's model metadata.
type Attribute struct {
	// Type is the ORM-level attribute type. Attributes typed "json" hold
	// structured sub-documents and are subject to restriction (see
	// Collection.Restrict) and nested queries.
	Type string

	// Mapping, if set, overrides the Elasticsearch mapping for this
	// attribute when the index is defined.
	Mapping map[string]interface{}

	// RestrictAttributes keeps only the listed sub-keys of a json
	// attribute's value on create/update.
	RestrictAttributes []string

	// SkipAttributes drops the listed sub-keys of a json attribute's
	// value on create/update. Checked independently of, and after,
	// RestrictAttributes.
	SkipAttributes []string
}

// Collection is the model metadata registered for one collection.
type Collection struct {
	// Identity names the collection.
	Identity string

	// Index overrides the index name for this collection. Empty means
	// fall back to the connection's index, then to the collection name.
	Index string

	// PrimaryKey is the attribute holding the document id.
	// Empty means IDField.
	PrimaryKey string

	// Attributes maps attribute name to its metadata.
	Attributes map[string]*Attribute
}

func (c *Collection) primaryKey() string {
	if c != nil && c.PrimaryKey != "" {
		return c.PrimaryKey
	}
	return IDField
}

// Config is the per-connection configuration.
type Config struct {
	// Identity is the unique registry key for this connection.
	Identity string

	// URLs of the Elasticsearch nodes. Empty means the client default
	// (http://127.0.0.1:9200).
	URLs []string

	// Index overrides the index name for every collection on this
	// connection that doesn't override it itself.
	Index string

	// Concurrency caps the bounded post-processing of result sets.
	// Zero means parallel.DefaultLimit.
	Concurrency int

	// DialTimeout bounds the backoff retries of the async connection
	// open. Zero means DefaultDialTimeout.
	DialTimeout time.Duration

	// Options are extra client options applied when the handle is opened.
	Options []elastic.ClientOptionFunc
}

// Mapping descriptions returned by Describe are cached this long.
const (
	mappingTTL   = 5 * time.Minute
	mappingPurge = 10 * time.Minute
)

// Adapter is the ORM-facing entry point. It is safe for concurrent use.
type Adapter struct {
	logger   *zap.Logger
	mappings *cache.Cache

	mu    sync.Mutex
	conns map[string]*conn
}

// New returns a new empty Adapter.
func New() *Adapter {
	return &Adapter{
		logger:   zap.L().Named("esadapter"),
		mappings: cache.New(mappingTTL, mappingPurge),
		conns:    make(map[string]*conn),
	}
}

// Option adjusts a single adapter operation.
type Option func(*opOptions)

type opOptions struct {
	index string
}

// WithIndex overrides the index name for one operation.
func WithIndex(index string) Option {
	return func(o *opOptions) {
		o.index = index
	}
}

func newOpOptions(opts []Option) opOptions {
	var o opOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
