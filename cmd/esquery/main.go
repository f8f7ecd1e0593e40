// Command esquery translates criteria JSON into an Elasticsearch query
// document, and optionally executes it.
//
// Example:
//
//   echo '{"where": {"author.name": "bob"}, "limit": 10}' | esquery users
//   echo '{"where": {"state": ["new", "open"]}}' | esquery --execute --url http://localhost:9200 tickets
//
package main

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"

	"go.uber.org/zap"                        // Logging
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line args parser

	esadapter "github.com/mintel/elasticsearch-adapter"
	"github.com/mintel/elasticsearch-adapter/cmd"
	"github.com/mintel/elasticsearch-adapter/pkg/criteria"
)

// defaultURL is the default Elasticsearch URL.
const defaultURL = "http://localhost:9200"

// connName is the registry identity used for the one-shot connection.
const connName = "esquery"

var (
	index   = kingpin.Arg("index", "Index (collection) to query.").Required().String()
	esURL   = kingpin.Flag("url", "Elasticsearch URL. Default: "+defaultURL).Default(defaultURL).String()
	execute = kingpin.Flag("execute", "Run the search and print the matching records instead of the query document.").Short('x').Bool()
)

func main() {
	kingpin.CommandLine.Help = "Translate criteria JSON from stdin into an Elasticsearch query document."
	kingpin.Parse()

	logger := cmd.SetupLogging()
	defer func() {
		_ = logger.Sync()
	}()

	input, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		logger.Fatal("error reading stdin", zap.Error(err))
	}
	var crit criteria.Criteria
	if err := json.Unmarshal(input, &crit); err != nil {
		logger.Fatal("error parsing criteria", zap.Error(err))
	}

	if !*execute {
		printQuery(logger, crit)
		return
	}

	ctx := context.Background()
	adapter := esadapter.New()
	err = adapter.RegisterConnection(ctx, esadapter.Config{
		Identity: connName,
		URLs:     []string{*esURL},
	}, map[string]*esadapter.Collection{
		*index: {Identity: *index},
	})
	if err != nil {
		logger.Fatal("error registering connection", zap.Error(err))
	}
	defer adapter.TeardownAll()

	records, err := adapter.Find(ctx, connName, *index, crit)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}
	enc := json.NewEncoder(os.Stdout)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			logger.Fatal("error encoding record", zap.Error(err))
		}
	}
}

// printQuery writes the translated query document to stdout.
func printQuery(logger *zap.Logger, crit criteria.Criteria) {
	src, err := crit.Query().Source()
	if err != nil {
		logger.Fatal("error building query", zap.Error(err))
	}
	body := map[string]interface{}{"query": src}
	if sorters := crit.Sorters(); len(sorters) > 0 {
		sorts := make([]interface{}, len(sorters))
		for i, s := range sorters {
			if sorts[i], err = s.Source(); err != nil {
				logger.Fatal("error building sort", zap.Error(err))
			}
		}
		body["sort"] = sorts
	}
	from, size, err := crit.Window()
	if err != nil {
		logger.Fatal("invalid result window", zap.Error(err))
	}
	if from > 0 {
		body["from"] = from
	}
	if size > 0 {
		body["size"] = size
	}

	out, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		logger.Fatal("error encoding query", zap.Error(err))
	}
	os.Stdout.Write(append(out, '\n'))
}
