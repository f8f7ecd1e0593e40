// Package es extends the olivere/elastic client with request services
// it doesn't provide in the shape the adapter needs.
package es

import (
	"context"
	"net/url"

	elastic "github.com/olivere/elastic/v7"
	"github.com/olivere/elastic/v7/uritemplates"
	"github.com/tidwall/gjson"
)

// IndicesGetMappingService returns the mapping of one or more indices,
// flattened to a map of index name to mapping properties.
//
// The stock client decodes the response into nested empty interfaces;
// this service parses the dynamic index keys with gjson instead.
//
// See https://www.elastic.co/guide/en/elasticsearch/reference/7.0/indices-get-mapping.html
// for details.
type IndicesGetMappingService struct {
	client *elastic.Client
	index  string
	pretty bool
}

// NewIndicesGetMappingService creates a new IndicesGetMappingService.
func NewIndicesGetMappingService(client *elastic.Client) *IndicesGetMappingService {
	return &IndicesGetMappingService{
		client: client,
	}
}

// Index limits the response to this index pattern
// (by default all indices are returned).
func (s *IndicesGetMappingService) Index(index string) *IndicesGetMappingService {
	s.index = index
	return s
}

// Pretty indicates that the JSON response be indented and human readable.
func (s *IndicesGetMappingService) Pretty(pretty bool) *IndicesGetMappingService {
	s.pretty = pretty
	return s
}

// buildURL builds the URL for the operation.
func (s *IndicesGetMappingService) buildURL() (string, url.Values, error) {
	var (
		path string
		err  error
	)

	if s.index != "" {
		path, err = uritemplates.Expand("/{index}/_mapping", map[string]string{
			"index": s.index,
		})
	} else {
		path = "/_mapping"
	}
	if err != nil {
		return "", url.Values{}, err
	}

	params := url.Values{}
	if s.pretty {
		params.Set("pretty", "true")
	}
	return path, params, nil
}

// Do executes the operation.
func (s *IndicesGetMappingService) Do(ctx context.Context) (IndicesGetMappingResponse, error) {
	path, params, err := s.buildURL()
	if err != nil {
		return nil, err
	}

	res, err := s.client.PerformRequest(ctx, elastic.PerformRequestOptions{
		Method: "GET",
		Path:   path,
		Params: params,
	})
	if err != nil {
		return nil, err
	}

	ret := make(IndicesGetMappingResponse)
	gjson.ParseBytes(res.Body).ForEach(func(key, value gjson.Result) bool {
		props := make(map[string]interface{})
		value.Get("mappings.properties").ForEach(func(field, def gjson.Result) bool {
			props[field.String()] = def.Value()
			return true
		})
		ret[key.String()] = props
		return true
	})
	return ret, nil
}

// IndicesGetMappingResponse is the outcome of IndicesGetMappingService.Do,
// as a map of index name to the properties of its mapping. An index without
// an explicit mapping maps to an empty (non-nil) properties map.
type IndicesGetMappingResponse map[string]map[string]interface{}
