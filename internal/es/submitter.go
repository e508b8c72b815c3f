package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/rank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rank-eval/internal/rankeval"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

const opaqueIDPrefix = "rank-eval-"

type Submitter struct {
	client   *elasticsearch.Client
	endpoint string
	username string
	password string
}

func NewSubmitter(config ClientConfig) (*Submitter, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	var endpoint string
	if len(config.Addresses) > 0 {
		endpoint = strings.TrimRight(config.Addresses[0], "/")
	}

	return &Submitter{
		client:   client,
		endpoint: endpoint,
		username: config.Username,
		password: config.Password,
	}, nil
}

// Submit sends the body to GET /{index}/_rank_eval and returns the response
// text as is. The engine accepts a body on GET for this endpoint. HTTP error
// statuses are returned as text, only failures to get a response are errors.
// The request bypasses the client's product check so any engine that speaks
// the API is accepted.
func (s *Submitter) Submit(ctx context.Context, index string, body rankeval.Body) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal rank eval body: %w", err)
	}

	path := "/" + index + "/_rank_eval"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create rank eval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	opaqueID := opaqueIDPrefix + uuid.NewString()
	req.Header.Set("X-Opaque-Id", opaqueID)

	slog.Info("Submitting rank eval",
		"index", index,
		"requests", len(body.Requests),
		"opaque_id", opaqueID)
	slog.Debug("Rank eval payload", "bytes", len(payload))

	start := time.Now()
	res, err := s.client.Transport.Perform(req)
	if err != nil {
		slog.Error("Rank eval request failed", "error", err, "index", index)
		return "", apperr.NewTransport(s.endpoint+path, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			slog.Error("failed to close response body", "error", err)
		}
	}(res.Body)

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", apperr.NewTransport(s.endpoint+path, fmt.Errorf("read response: %w", err))
	}

	slog.Info("Rank eval response received",
		"status", res.StatusCode,
		"bytes", len(data),
		"latency", time.Since(start))

	return string(data), nil
}
