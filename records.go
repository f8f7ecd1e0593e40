package esadapter

import (
	"context"
	"encoding/json"

	elastic "github.com/olivere/elastic/v7"

	"github.com/mintel/elasticsearch-adapter/pkg/parallel"
)

// searchRecords maps search hits onto records. Decoding the hit bodies is
// fanned out under the connection's concurrency limit; the network call has
// already completed by this point, so the limit is purely a local
// throughput knob.
func (c *conn) searchRecords(ctx context.Context, res *elastic.SearchResult) ([]Record, error) {
	if res == nil || res.Hits == nil || len(res.Hits.Hits) == 0 {
		return []Record{}, nil
	}
	hits := res.Hits.Hits
	records := make([]Record, len(hits))
	err := parallel.ForEach(ctx, len(hits), c.concurrency(), func(_ context.Context, i int) error {
		rec, err := recordFromSource(hits[i].Id, hits[i].Source)
		if err != nil {
			return err
		}
		records[i] = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// recordFromSource decodes a document body and injects the document id
// under IDField.
func recordFromSource(id string, source json.RawMessage) (Record, error) {
	rec := make(Record)
	if len(source) > 0 {
		if err := json.Unmarshal(source, &rec); err != nil {
			return nil, err
		}
	}
	rec[IDField] = id
	return rec, nil
}

// mgetRecords maps a multi-get response onto one record slot per requested
// id, preserving request order. Ids that didn't resolve to a document leave
// a nil slot.
func mgetRecords(res *elastic.MgetResponse) ([]Record, error) {
	if res == nil || len(res.Docs) == 0 {
		return []Record{}, nil
	}
	records := make([]Record, len(res.Docs))
	for i, doc := range res.Docs {
		if doc == nil || !doc.Found {
			continue
		}
		rec, err := recordFromSource(doc.Id, doc.Source)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}
