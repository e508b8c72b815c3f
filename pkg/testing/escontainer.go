package testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	es8 "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const esImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

// ESContainer represents a running Elasticsearch test container
type ESContainer struct {
	Container testcontainers.Container
	Address   string
	Client    *es8.Client
}

// NewESContainer starts an Elasticsearch test container with security disabled
func NewESContainer(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	esContainer, err := elasticsearch.Run(ctx,
		esImage,
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("failed to start elasticsearch container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(esContainer); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})

	host, err := esContainer.Host(ctx)
	if err != nil {
		tb.Fatalf("failed to get elasticsearch host: %v", err)
	}

	port, err := esContainer.MappedPort(ctx, "9200")
	if err != nil {
		tb.Fatalf("failed to get elasticsearch port: %v", err)
	}

	address := fmt.Sprintf("http://%s:%s", host, port.Port())

	client, err := es8.NewClient(es8.Config{Addresses: []string{address}})
	if err != nil {
		tb.Fatalf("failed to create elasticsearch client: %v", err)
	}

	return &ESContainer{
		Container: esContainer,
		Address:   address,
		Client:    client,
	}
}

// IndexDocuments stores docs keyed by document id and refreshes the index so
// they are searchable immediately.
func (c *ESContainer) IndexDocuments(ctx context.Context, tb testing.TB, index string, docs map[string]map[string]any) {
	tb.Helper()

	for id, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			tb.Fatalf("failed to marshal document %s: %v", id, err)
		}

		req := esapi.IndexRequest{
			Index:      index,
			DocumentID: id,
			Body:       bytes.NewReader(data),
			Refresh:    "true",
		}

		res, err := req.Do(ctx, c.Client)
		if err != nil {
			tb.Fatalf("failed to index document %s: %v", id, err)
		}
		if res.IsError() {
			tb.Fatalf("error indexing document %s: %s", id, res.String())
		}
		_ = res.Body.Close()
	}
}
