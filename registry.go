package esadapter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	elastic "github.com/olivere/elastic/v7"
	"go.uber.org/zap"

	"github.com/mintel/elasticsearch-adapter/pkg/ctxlog"
	"github.com/mintel/elasticsearch-adapter/pkg/parallel"
)

var (
	// ErrMissingIdentity is returned by RegisterConnection when the config
	// has no identity.
	ErrMissingIdentity = errors.New("connection config is missing an identity")

	// ErrDuplicateIdentity is returned by RegisterConnection when the
	// identity is already registered. The existing registration is left
	// untouched.
	ErrDuplicateIdentity = errors.New("connection identity is already registered")

	// ErrUnknownConnection is returned by operations naming a connection
	// that was never registered (or was torn down).
	ErrUnknownConnection = errors.New("connection is not registered")

	// ErrUnknownCollection is returned by operations naming a collection
	// that wasn't registered on the connection.
	ErrUnknownCollection = errors.New("collection is not registered on this connection")
)

// DefaultDialTimeout bounds the async connection open, ping retries included.
var DefaultDialTimeout = 30 * time.Second

// conn is one registry entry: raw config, collection metadata, and the
// live client handle. The handle slot stays empty until the async open
// started by RegisterConnection resolves.
type conn struct {
	config      Config
	collections map[string]*Collection

	ready chan struct{} // closed when the open resolves, either way

	mu      sync.Mutex
	client  *elastic.Client
	openErr error
}

// RegisterConnection adds a connection to the registry and starts opening
// its client handle in the background. It fails without side effects if the
// identity is missing or already registered.
//
// The context is held by the background open; pass one that outlives the
// registration, not a per-request one.
func (a *Adapter) RegisterConnection(ctx context.Context, config Config, collections map[string]*Collection) error {
	if config.Identity == "" {
		return ErrMissingIdentity
	}

	c := &conn{
		config:      config,
		collections: make(map[string]*Collection, len(collections)),
		ready:       make(chan struct{}),
	}
	for name, coll := range collections {
		c.collections[name] = coll
	}

	a.mu.Lock()
	if _, ok := a.conns[config.Identity]; ok {
		a.mu.Unlock()
		return ErrDuplicateIdentity
	}
	a.conns[config.Identity] = c
	a.mu.Unlock()

	ctx = ctxlog.WithLogger(ctx, a.logger.With(zap.String("connection", config.Identity)))
	go c.open(ctx)
	return nil
}

// open dials the client and pings the cluster under exponential backoff
// until it answers or the dial timeout elapses.
func (c *conn) open(ctx context.Context) {
	defer close(c.ready)
	logger := ctxlog.L(ctx)

	opts := make([]elastic.ClientOptionFunc, 0, len(c.config.Options)+1)
	if len(c.config.URLs) > 0 {
		opts = append(opts, elastic.SetURL(c.config.URLs...))
	}
	opts = append(opts, c.config.Options...)

	client, err := elastic.NewSimpleClient(opts...)
	if err != nil {
		logger.Error("error creating Elasticsearch client", zap.Error(err))
		c.fail(err)
		return
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.config.DialTimeout
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = DefaultDialTimeout
	}
	err = backoff.Retry(func() error {
		_, _, err := client.Ping(c.pingURL()).Do(ctx)
		return err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		logger.Error("could not reach Elasticsearch", zap.Error(err))
		client.Stop()
		c.fail(err)
		return
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
	logger.Info("connection is ready")
}

func (c *conn) fail(err error) {
	c.mu.Lock()
	c.openErr = err
	c.mu.Unlock()
}

// Client returns the live client handle, waiting for the async open to
// resolve first.
func (c *conn) Client(ctx context.Context) (*elastic.Client, error) {
	select {
	case <-c.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.client, nil
}

func (c *conn) pingURL() string {
	if len(c.config.URLs) > 0 {
		return c.config.URLs[0]
	}
	return elastic.DefaultURL
}

func (c *conn) concurrency() int {
	if c.config.Concurrency > 0 {
		return c.config.Concurrency
	}
	return parallel.DefaultLimit
}

func (c *conn) collection(name string) (*Collection, error) {
	coll, ok := c.collections[name]
	if !ok {
		return nil, ErrUnknownCollection
	}
	return coll, nil
}

// indexFor resolves the index name for one operation:
// per-call override > collection override > connection override >
// collection name.
func (c *conn) indexFor(name string, coll *Collection, o opOptions) string {
	switch {
	case o.index != "":
		return o.index
	case coll != nil && coll.Index != "":
		return coll.Index
	case c.config.Index != "":
		return c.config.Index
	}
	return name
}

// WaitForConnection blocks until the named connection's client handle has
// resolved, and reports whether the open succeeded.
func (a *Adapter) WaitForConnection(ctx context.Context, name string) error {
	c, err := a.connection(name)
	if err != nil {
		return err
	}
	_, err = c.Client(ctx)
	return err
}

// Teardown removes a single connection from the registry and releases its
// client handle.
func (a *Adapter) Teardown(identity string) error {
	a.mu.Lock()
	c, ok := a.conns[identity]
	if ok {
		delete(a.conns, identity)
	}
	a.mu.Unlock()
	if !ok {
		return ErrUnknownConnection
	}
	go c.stop()
	a.flushMappings(identity)
	return nil
}

// TeardownAll clears the whole registry, dropping every connection.
func (a *Adapter) TeardownAll() {
	a.mu.Lock()
	conns := a.conns
	a.conns = make(map[string]*conn)
	a.mu.Unlock()
	for identity, c := range conns {
		go c.stop()
		a.flushMappings(identity)
	}
}

// stop waits out a pending open and stops the client, if one resolved.
func (c *conn) stop() {
	<-c.ready
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()
	if client != nil {
		client.Stop()
	}
}

func (a *Adapter) connection(name string) (*conn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.conns[name]
	if !ok {
		return nil, ErrUnknownConnection
	}
	return c, nil
}

// resolve looks up the connection and collection for one operation and
// waits for the connection's client handle.
func (a *Adapter) resolve(ctx context.Context, connection, collection string, o opOptions) (*conn, *Collection, *elastic.Client, string, error) {
	c, err := a.connection(connection)
	if err != nil {
		return nil, nil, nil, "", err
	}
	coll, err := c.collection(collection)
	if err != nil {
		return nil, nil, nil, "", err
	}
	client, err := c.Client(ctx)
	if err != nil {
		return nil, nil, nil, "", err
	}
	return c, coll, client, c.indexFor(collection, coll, o), nil
}

// flushMappings drops the cached Describe results of one connection.
func (a *Adapter) flushMappings(identity string) {
	prefix := identity + "/"
	for key := range a.mappings.Items() {
		if strings.HasPrefix(key, prefix) {
			a.mappings.Delete(key)
		}
	}
}
