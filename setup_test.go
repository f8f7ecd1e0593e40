package esadapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	gock "gopkg.in/h2non/gock.v1"
)

// testConn is the registry identity used by the gock-backed tests.
const testConn = "test"

// pingBody is the reply consumed by the async connection open.
const pingBody = `{
	"name": "es01",
	"cluster_name": "elasticsearch",
	"version": {"number": "7.2.0"},
	"tagline": "You Know, for Search"
}`

// setup sets up zap test logging and gock HTTP interception. It returns a
// suitable URL for mock endpoints and a teardown function.
func setup(t *testing.T) (string, func()) {
	logger := zaptest.NewLogger(t)
	f1 := zap.ReplaceGlobals(logger)
	f2 := zap.RedirectStdLog(logger)
	gock.Intercept()
	teardown := func() {
		gock.OffAll()
		f2()
		f1()
		_ = logger.Sync()
	}
	return "http://127.0.0.1:9200", teardown
}

// mockPing registers the one-shot ping reply the connection open waits for.
// The path is anchored so the mock can't swallow other requests.
func mockPing(u string) {
	gock.New(u).
		Get("/$").
		Reply(200).
		Type("json").
		BodyString(pingBody)
}

// newTestAdapter returns an Adapter with one ready connection named
// testConn, backed by gock.
func newTestAdapter(t *testing.T, u string, collections map[string]*Collection) *Adapter {
	mockPing(u)
	a := New()
	err := a.RegisterConnection(context.Background(), Config{
		Identity:    testConn,
		URLs:        []string{u},
		DialTimeout: 5 * time.Second,
	}, collections)
	require.NoError(t, err)
	require.NoError(t, a.WaitForConnection(context.Background(), testConn))
	return a
}

// usersCollections is the collection metadata most tests register.
func usersCollections() map[string]*Collection {
	return map[string]*Collection{
		"users": {
			Identity: "users",
			Attributes: map[string]*Attribute{
				"name":    {Type: "string"},
				"age":     {Type: "integer"},
				"address": {Type: "json", RestrictAttributes: []string{"city", "zip"}},
			},
		},
	}
}
