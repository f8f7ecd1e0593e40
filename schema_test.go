package esadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gock "gopkg.in/h2non/gock.v1"
)

func TestDescribe(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Get("/users/_mapping$").
		Reply(200).
		Type("json").
		BodyString(`{
			"users": {
				"mappings": {
					"properties": {
						"name": {"type": "text"},
						"address": {"type": "nested"}
					}
				}
			}
		}`)

	props, err := a.Describe(context.Background(), testConn, "users")
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "address")

	// Second call is served from the cache; gock would fail the request.
	again, err := a.Describe(context.Background(), testConn, "users")
	require.NoError(t, err)
	assert.Equal(t, props, again)
}

func TestDescribe_missingIndex(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Get("/users/_mapping$").
		Reply(404).
		Type("json").
		BodyString(`{"error": {"type": "index_not_found_exception", "reason": "no such index [users]"}, "status": 404}`)

	props, err := a.Describe(context.Background(), testConn, "users")
	assert.NoError(t, err)
	assert.Nil(t, props)
}

func TestDefine(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Head("/users$").
		Reply(404)
	gock.New(u).
		Put("/users$").
		Reply(200).
		Type("json").
		BodyString(`{"acknowledged": true, "shards_acknowledged": true, "index": "users"}`)
	gock.New(u).
		Put("/users/_mapping$").
		Reply(200).
		Type("json").
		BodyString(`{"acknowledged": true}`)

	err := a.Define(context.Background(), testConn, "users")
	assert.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestDefine_alreadyExists(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Head("/users$").
		Reply(200)

	err := a.Define(context.Background(), testConn, "users")
	assert.Equal(t, ErrIndexExists, err)
	assert.True(t, gock.IsDone(), "no create request should be made")
}

func TestDrop(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Delete("/users$").
		Reply(200).
		Type("json").
		BodyString(`{"acknowledged": true}`)

	err := a.Drop(context.Background(), testConn, "users")
	assert.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestMappingProperties(t *testing.T) {
	coll := &Collection{
		Attributes: map[string]*Attribute{
			"name":    {Type: "string"},
			"age":     {Type: "integer"},
			"address": {Type: "json"},
			"blob":    {Type: "binary"}, // no default mapping, left dynamic
			"geo":     {Type: "string", Mapping: map[string]interface{}{"type": "geo_point"}},
		},
	}
	props := mappingProperties(coll)

	assert.Equal(t, map[string]interface{}{"type": "text"}, props["name"])
	assert.Equal(t, map[string]interface{}{"type": "long"}, props["age"])
	assert.Equal(t, map[string]interface{}{"type": "nested"}, props["address"])
	assert.Equal(t, map[string]interface{}{"type": "geo_point"}, props["geo"])
	assert.NotContains(t, props, "blob")
}
