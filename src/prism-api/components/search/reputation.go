package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/prism-labs/prism-backend/src/prism-api/components/sources"
)

const authorMaxResults = 3

// AuthorSignal carries reputation evidence about a post author. A zero
// Signals slice with Author set means "looked up, nothing found", which is
// a distinct state from no lookup at all.
type AuthorSignal struct {
	Author  string   `json:"author"`
	Signals []string `json:"signals"`
	Flagged bool     `json:"flagged"`
}

// AuthorReputation queries Brave for reputation signals about an author
// handle. The two queries run concurrently; an individual query failure is
// logged and tolerated so one transient error cannot fail the lookup.
// Total unavailability (missing key, every query failing) reduces the
// result to an empty-but-present record. Never returns an error.
func (c *Client) AuthorReputation(ctx context.Context, author string) AuthorSignal {
	author = strings.TrimSpace(author)
	if author == "" {
		return AuthorSignal{}
	}
	if c.apiKey == "" {
		log.Warn().Msg("BRAVE_SEARCH_API_KEY not set, skipping author reputation check")
		return AuthorSignal{Author: author}
	}

	// Two phrasings for broader coverage: one credibility-oriented, one
	// misinformation-oriented.
	queries := []string{
		author + " Instagram credibility",
		author + " misinformation",
	}

	var (
		mu       sync.Mutex
		snippets []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		g.Go(func() error {
			params := url.Values{}
			params.Set("q", q)
			params.Set("count", strconv.Itoa(authorMaxResults))
			results, err := c.query(gctx, params)
			if err != nil {
				log.Warn().Err(err).Str("query", q).Msg("author reputation search error")
				return nil
			}
			if len(results) > authorMaxResults {
				results = results[:authorMaxResults]
			}
			mu.Lock()
			for _, r := range results {
				if s := strings.TrimSpace(r.Snippet); s != "" {
					snippets = append(snippets, s)
				}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	flagged := false
	for _, s := range snippets {
		if sources.ContainsRedFlag(s) {
			flagged = true
			break
		}
	}

	return AuthorSignal{Author: author, Signals: snippets, Flagged: flagged}
}
