package es

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/DjordjeVuckovic/rank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rank-eval/internal/judgment"
	"github.com/DjordjeVuckovic/rank-eval/internal/rankeval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cannedResponse = `{"metric_score":0.5,"details":{"climate-change":{"metric_score":0.5,"unrated_docs":[],"hits":[]}},"failures":{}}`

type recordedRequest struct {
	Method      string
	Path        string
	Username    string
	Password    string
	HasAuth     bool
	ContentType string
	OpaqueID    string
	Body        []byte
}

type mockEngine struct {
	*httptest.Server

	mu   sync.Mutex
	last recordedRequest
	hits int
}

func (m *mockEngine) Last() recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *mockEngine) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

// newMockEngine answers like Elasticsearch 7.14+, which tags responses
// with X-Elastic-Product.
func newMockEngine(t *testing.T, status int, response string) *mockEngine {
	t.Helper()
	return startEngine(t, status, response, true)
}

// newGenericEngine answers without the product header, like OpenSearch or
// older Elasticsearch releases.
func newGenericEngine(t *testing.T, status int, response string) *mockEngine {
	t.Helper()
	return startEngine(t, status, response, false)
}

func startEngine(t *testing.T, status int, response string, productHeader bool) *mockEngine {
	t.Helper()

	m := &mockEngine{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, ok := r.BasicAuth()

		m.mu.Lock()
		m.hits++
		m.last = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Username:    user,
			Password:    pass,
			HasAuth:     ok,
			ContentType: r.Header.Get("Content-Type"),
			OpaqueID:    r.Header.Get("X-Opaque-Id"),
			Body:        body,
		}
		m.mu.Unlock()

		if productHeader {
			w.Header().Set("X-Elastic-Product", "Elasticsearch")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(m.Close)

	return m
}

func testBody(t *testing.T) rankeval.Body {
	t.Helper()

	m, err := rankeval.NewMetric(rankeval.Precision, 20)
	require.NoError(t, err)

	set := judgment.Set{{
		Queries: []string{"climate change"},
		Items:   []judgment.RatedDocument{{Hash: "abc", Rating: 1}},
	}}
	return rankeval.NewBody(rankeval.TranslateAll(set, "freeze-1", rankeval.DefaultFields), m)
}

func TestSubmitter_Submit(t *testing.T) {
	srv := newMockEngine(t, http.StatusOK, cannedResponse)

	s, err := NewSubmitter(ClientConfig{
		Addresses: []string{srv.URL},
		Username:  "elastic",
		Password:  "changeme",
	})
	require.NoError(t, err)

	body := testBody(t)
	got, err := s.Submit(context.Background(), "freeze-1", body)
	require.NoError(t, err)

	rec := srv.Last()
	assert.Equal(t, cannedResponse, got)
	assert.Equal(t, 1, srv.Hits())
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/freeze-1/_rank_eval", rec.Path)
	assert.True(t, rec.HasAuth)
	assert.Equal(t, "elastic", rec.Username)
	assert.Equal(t, "changeme", rec.Password)
	assert.Equal(t, "application/json", rec.ContentType)
	assert.True(t, strings.HasPrefix(rec.OpaqueID, opaqueIDPrefix), "opaque id %q", rec.OpaqueID)

	want, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(rec.Body))
}

func TestSubmitter_NoCredentials(t *testing.T) {
	srv := newMockEngine(t, http.StatusOK, cannedResponse)

	s, err := NewSubmitter(ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "idx", testBody(t))
	require.NoError(t, err)
	assert.False(t, srv.Last().HasAuth)
}

func TestSubmitter_UsernameWithoutPassword(t *testing.T) {
	srv := newMockEngine(t, http.StatusOK, cannedResponse)

	s, err := NewSubmitter(ClientConfig{Addresses: []string{srv.URL}, Username: "reader"})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "idx", testBody(t))
	require.NoError(t, err)

	rec := srv.Last()
	assert.True(t, rec.HasAuth)
	assert.Equal(t, "reader", rec.Username)
	assert.Empty(t, rec.Password)
}

func TestSubmitter_EngineWithoutProductHeader(t *testing.T) {
	t.Run("success response returned as text", func(t *testing.T) {
		srv := newGenericEngine(t, http.StatusOK, cannedResponse)

		s, err := NewSubmitter(ClientConfig{
			Addresses: []string{srv.URL},
			Username:  "admin",
			Password:  "admin",
		})
		require.NoError(t, err)

		got, err := s.Submit(context.Background(), "idx", testBody(t))
		require.NoError(t, err)
		assert.Equal(t, cannedResponse, got)

		rec := srv.Last()
		assert.Equal(t, http.MethodGet, rec.Method)
		assert.Equal(t, "/idx/_rank_eval", rec.Path)
		assert.True(t, rec.HasAuth)
		assert.Equal(t, "admin", rec.Username)
		assert.Equal(t, 1, srv.Hits())
	})

	t.Run("no retry on unavailable", func(t *testing.T) {
		srv := newGenericEngine(t, http.StatusServiceUnavailable, "unavailable")

		s, err := NewSubmitter(ClientConfig{Addresses: []string{srv.URL}})
		require.NoError(t, err)

		got, err := s.Submit(context.Background(), "idx", testBody(t))
		require.NoError(t, err)
		assert.Equal(t, "unavailable", got)
		assert.Equal(t, 1, srv.Hits())
	})
}

func TestSubmitter_ErrorStatusReturnedAsText(t *testing.T) {
	const errBody = `{"error":{"type":"index_not_found_exception","reason":"no such index [missing]"},"status":404}`

	srv := newMockEngine(t, http.StatusNotFound, errBody)

	s, err := NewSubmitter(ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	got, err := s.Submit(context.Background(), "missing", testBody(t))
	require.NoError(t, err)
	assert.Equal(t, errBody, got)
	assert.Equal(t, 1, srv.Hits())
}

func TestSubmitter_NoRetryOnUnavailable(t *testing.T) {
	srv := newMockEngine(t, http.StatusServiceUnavailable, "unavailable")

	s, err := NewSubmitter(ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	got, err := s.Submit(context.Background(), "idx", testBody(t))
	require.NoError(t, err)
	assert.Equal(t, "unavailable", got)
	assert.Equal(t, 1, srv.Hits())
}

func TestSubmitter_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	s, err := NewSubmitter(ClientConfig{Addresses: []string{addr}})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "idx", testBody(t))
	require.Error(t, err)

	var te *apperr.TransportError
	require.True(t, errors.As(err, &te), "expected TransportError, got %v", err)
	assert.Equal(t, addr+"/idx/_rank_eval", te.URL)
}

func TestSubmitter_CancelledContext(t *testing.T) {
	srv := newMockEngine(t, http.StatusOK, cannedResponse)

	s, err := NewSubmitter(ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Submit(ctx, "idx", testBody(t))
	var te *apperr.TransportError
	assert.True(t, errors.As(err, &te), "expected TransportError, got %v", err)
}

func TestNewSubmitter_InvalidAddress(t *testing.T) {
	_, err := NewSubmitter(ClientConfig{Addresses: []string{"://no-scheme"}})
	assert.Error(t, err)
}
