package esadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gock "gopkg.in/h2non/gock.v1"

	"github.com/mintel/elasticsearch-adapter/pkg/criteria"
)

const searchBody = `{
	"took": 2,
	"hits": {
		"total": {"value": 2, "relation": "eq"},
		"hits": [
			{"_index": "users", "_id": "1", "_source": {"name": "alice", "age": 30}},
			{"_index": "users", "_id": "2", "_source": {"name": "bob", "age": 25}}
		]
	}
}`

func TestFind(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Post("/users/_search").
		Reply(200).
		Type("json").
		BodyString(searchBody)

	crit := criteria.Criteria{
		Where: map[string]interface{}{"age": []interface{}{25, 30}},
		Sort:  []criteria.SortField{{Field: "age", Order: criteria.Ascending}},
		Limit: 10,
	}
	records, err := a.Find(context.Background(), testConn, "users", crit)
	require.NoError(t, err)
	assert.True(t, gock.IsDone())

	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0][IDField])
	assert.Equal(t, "alice", records[0]["name"])
	assert.Equal(t, "2", records[1][IDField])
}

func TestFind_zeroHits(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Post("/users/_search").
		Reply(200).
		Type("json").
		BodyString(`{"took": 1, "hits": {"total": {"value": 0, "relation": "eq"}, "hits": []}}`)

	records, err := a.Find(context.Background(), testConn, "users", criteria.Criteria{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Len(t, records, 0)
}

func TestFind_indexOverride(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	gock.New(u).
		Post("/people/_search").
		Reply(200).
		Type("json").
		BodyString(searchBody)

	_, err := a.Find(context.Background(), testConn, "users", criteria.Criteria{}, WithIndex("people"))
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestFind_invalidWindow(t *testing.T) {
	u, teardown := setup(t)
	defer teardown()
	a := newTestAdapter(t, u, usersCollections())

	_, err := a.Find(context.Background(), testConn, "users", criteria.Criteria{Skip: -1})
	assert.Equal(t, criteria.ErrNegativeWindow, err)
	assert.True(t, gock.IsDone(), "no search request should be made")
}
