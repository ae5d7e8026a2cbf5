package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-labs/prism-backend/src/prism-api/faults"
)

type braveResult struct {
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

func braveServer(t *testing.T, results []braveResult, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		resp := map[string]any{"web": map[string]any{"results": results}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchClaimMapsFields(t *testing.T) {
	srv := braveServer(t, []braveResult{
		{Title: "Flood coverage", URL: "https://reuters.com/flood", Description: "Rivers <strong>crested</strong> on Tuesday &amp; receded"},
		{URL: "https://example.com/2"},
	}, func(r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		assert.Equal(t, "pw", r.URL.Query().Get("freshness"))
		assert.Equal(t, "major flood downtown", r.URL.Query().Get("q"))
	})

	c := NewClient("test-key")
	c.endpoint = srv.URL

	results, err := c.SearchClaim(context.Background(), "major flood downtown")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Flood coverage", results[0].Title)
	assert.Equal(t, "https://reuters.com/flood", results[0].URL)
	assert.Equal(t, "Rivers crested on Tuesday & receded", results[0].Snippet)

	// Missing provider fields default to empty strings.
	assert.Empty(t, results[1].Title)
	assert.Empty(t, results[1].Snippet)
}

func TestSearchClaimTruncatesToFive(t *testing.T) {
	var many []braveResult
	for i := 0; i < 8; i++ {
		many = append(many, braveResult{Title: "t", URL: "https://example.com"})
	}
	srv := braveServer(t, many, nil)

	c := NewClient("test-key")
	c.endpoint = srv.URL

	results, err := c.SearchClaim(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestSearchClaimPreservesProviderOrder(t *testing.T) {
	srv := braveServer(t, []braveResult{
		{Title: "first", URL: "https://a.example"},
		{Title: "second", URL: "https://b.example"},
		{Title: "third", URL: "https://c.example"},
	}, nil)

	c := NewClient("test-key")
	c.endpoint = srv.URL

	results, err := c.SearchClaim(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Title)
	assert.Equal(t, "second", results[1].Title)
	assert.Equal(t, "third", results[2].Title)
}

func TestSearchClaimMissingKey(t *testing.T) {
	c := NewClient("")
	_, err := c.SearchClaim(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, faults.Config, faults.KindOf(err))
}

func TestSearchClaimHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key")
	c.endpoint = srv.URL

	_, err := c.SearchClaim(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, faults.Retrieval, faults.KindOf(err))
	assert.Contains(t, err.Error(), "429")
}

func TestSearchClaimTransportError(t *testing.T) {
	c := NewClient("test-key")
	c.endpoint = "http://127.0.0.1:1" // nothing listens here

	_, err := c.SearchClaim(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, faults.Retrieval, faults.KindOf(err))
}
