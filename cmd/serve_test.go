package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/member-platform/member-qa/internal/config"
	"github.com/member-platform/member-qa/internal/qa"
	"github.com/member-platform/member-qa/internal/source"
)

// newTestRouter wires the API against a fake upstream message feed.
func newTestRouter(t *testing.T, upstream http.HandlerFunc) http.Handler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := source.NewClient(source.Options{
		URL:       srv.URL,
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
		RateLimit: rate.Inf,
	})
	return newRouter(source.NewCache(client), qa.NewEngine(), config.ServerConfig{})
}

func feedWith(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func askBody(t *testing.T, question string) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(map[string]string{"question": question})
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, feedWith(`[]`))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestDiscoveryEndpoint(t *testing.T) {
	router := newTestRouter(t, feedWith(`[]`))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status    string            `json:"status"`
		Service   string            `json:"service"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Contains(t, body.Endpoints, "/ask")
	assert.Contains(t, body.Endpoints, "/health")
}

func TestAsk_EmptyQuestionRejected(t *testing.T) {
	router := newTestRouter(t, feedWith(`[{"user_name": "Layla", "message": "hi"}]`))

	for _, question := range []string{"", "   ", "\t\n"} {
		req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, question))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "empty")
	}
}

func TestAsk_InvalidBodyRejected(t *testing.T) {
	router := newTestRouter(t, feedWith(`[]`))

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{not json`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAsk_Answer(t *testing.T) {
	feed := `{"total": 1, "items": [{"user_name": "Layla", "message": "Planning a trip to London on 2024-03-15"}]}`
	router := newTestRouter(t, feedWith(feed))

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, "When is Layla planning her trip to London?"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["answer"], "2024-03-15")
}

func TestAsk_UpstreamDown(t *testing.T) {
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, "When is Layla's trip?"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestAsk_EmptyDataset(t *testing.T) {
	router := newTestRouter(t, feedWith(`{"total": 0, "items": []}`))

	req := httptest.NewRequest(http.MethodPost, "/ask", askBody(t, "When is Layla's trip?"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "No member data available at the moment.", body["answer"])
}

func TestCORSHeaders(t *testing.T) {
	router := newTestRouter(t, feedWith(`[]`))

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
