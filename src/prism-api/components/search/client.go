// Package search retrieves claim-grounding evidence and author reputation
// signals from the Brave Web Search API.
package search

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/prism-labs/prism-backend/src/prism-api/faults"
	"github.com/prism-labs/prism-backend/src/webclient"
)

const (
	braveSearchURL = "https://api.search.brave.com/res/v1/web/search"

	// Top-N results fed to the reasoning model per claim.
	claimMaxResults = 5
)

// Result is a single ranked web-search hit. Provider order is preserved;
// earlier entries rank higher.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		endpoint:   braveSearchURL,
		httpClient: webclient.NewDefault(15 * time.Second),
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// SearchClaim returns the top web results for a claim, in provider rank
// order, truncated to the configured maximum.
func (c *Client) SearchClaim(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(claimMaxResults))
	// Prefer results from the past week so the model sees recent coverage.
	params.Set("freshness", "pw")

	results, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(results) > claimMaxResults {
		results = results[:claimMaxResults]
	}
	return results, nil
}

func (c *Client) query(ctx context.Context, params url.Values) ([]Result, error) {
	if c.apiKey == "" {
		return nil, faults.New(faults.Config, "BRAVE_SEARCH_API_KEY is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, faults.Wrap(faults.Retrieval, err, "brave search: build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, faults.Wrap(faults.Retrieval, err, "brave search: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.Wrap(faults.Retrieval, err, "brave search: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, faults.Newf(faults.Retrieval, "brave search returned %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, faults.Wrap(faults.Retrieval, err, "brave search: decode response")
	}

	results := make([]Result, 0, len(payload.Web.Results))
	for _, item := range payload.Web.Results {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: c.cleanSnippet(item.Description),
		})
	}
	return results, nil
}

// cleanSnippet strips the HTML highlighting Brave embeds in descriptions
// before the text reaches prompts or responses.
func (c *Client) cleanSnippet(s string) string {
	return html.UnescapeString(c.sanitizer.Sanitize(s))
}
