// Package criteria translates ORM-style criteria into Elasticsearch queries.
//
// A Criteria describes which documents to match (Where), how to order them
// (Sort), and which slice of the result set to return (Skip/Limit). Where
// entries become exact-match term (scalar value) or terms (list value)
// clauses in the filter context of a bool query. A dot-separated field path
// produces one wrapping nested clause per path segment except the last, so
// `a.b.c` becomes nested(a, nested(a.b, term(a.b.c))).
//
// Fields are not validated against the index mapping; a term clause on an
// analyzed field will silently match nothing.
package criteria

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/JohnCGriffin/overflow"
	elastic "github.com/olivere/elastic/v7"
)

// Ascending is the sort order code for ascending sorts.
// Any other order code sorts descending.
const Ascending = 1

var (
	// ErrNegativeWindow is returned by Window when skip or limit is negative.
	ErrNegativeWindow = errors.New("skip and limit must not be negative")

	// ErrWindowOverflow is returned by Window when skip+limit overflows.
	ErrWindowOverflow = errors.New("skip+limit overflows the result window")
)

// SortField orders results by one field.
type SortField struct {
	Field string `json:"field"`
	Order int    `json:"order"`
}

// Criteria describes which records to match, sort, and paginate.
// The zero value matches everything.
type Criteria struct {
	// Where maps a field path to an equality value (term clause) or a
	// list of values (terms clause).
	Where map[string]interface{} `json:"where,omitempty"`

	// Sort is applied in slice order. Go maps are unordered, so unlike the
	// Where clause this has to be a slice.
	Sort []SortField `json:"sort,omitempty"`

	// Skip and Limit select the result window. Zero means unset.
	Skip  int `json:"skip,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Query translates the Where clause into an Elasticsearch query.
// An empty Where produces a match-all query. Clauses are appended in
// lexical field order so the query document is deterministic.
func (c Criteria) Query() elastic.Query {
	if len(c.Where) == 0 {
		return elastic.NewMatchAllQuery()
	}

	fields := make([]string, 0, len(c.Where))
	for f := range c.Where {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	q := elastic.NewBoolQuery()
	for _, f := range fields {
		q = q.Filter(fieldClause(f, c.Where[f]))
	}
	return q
}

// Sorters translates the Sort entries into Elasticsearch sorters.
func (c Criteria) Sorters() []elastic.Sorter {
	if len(c.Sort) == 0 {
		return nil
	}
	sorters := make([]elastic.Sorter, len(c.Sort))
	for i, s := range c.Sort {
		fs := elastic.NewFieldSort(s.Field)
		if s.Order == Ascending {
			fs = fs.Asc()
		} else {
			fs = fs.Desc()
		}
		sorters[i] = fs
	}
	return sorters
}

// Window validates Skip/Limit and returns them as a from/size pair.
func (c Criteria) Window() (from, size int, err error) {
	if c.Skip < 0 || c.Limit < 0 {
		return 0, 0, ErrNegativeWindow
	}
	if _, ok := overflow.Add(c.Skip, c.Limit); !ok {
		return 0, 0, ErrWindowOverflow
	}
	return c.Skip, c.Limit, nil
}

// fieldClause builds the term/terms clause for one Where entry,
// wrapped in one nested clause per dotted path segment except the last.
func fieldClause(path string, value interface{}) elastic.Query {
	var q elastic.Query
	if values, ok := valueList(value); ok {
		q = elastic.NewTermsQuery(path, values...)
	} else {
		q = elastic.NewTermQuery(path, value)
	}
	segments := strings.Split(path, ".")
	for i := len(segments) - 1; i > 0; i-- {
		q = elastic.NewNestedQuery(strings.Join(segments[:i], "."), q)
	}
	return q
}

// valueList returns value as []interface{} if it is a slice or array.
// Strings and byte slices count as scalars.
func valueList(value interface{}) ([]interface{}, bool) {
	if vs, ok := value.([]interface{}); ok {
		return vs, true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		vs := make([]interface{}, rv.Len())
		for i := range vs {
			vs[i] = rv.Index(i).Interface()
		}
		return vs, true
	}
	return nil, false
}
