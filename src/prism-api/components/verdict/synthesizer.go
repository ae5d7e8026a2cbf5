package verdict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/prism-labs/prism-backend/src/prism-api/components/search"
	"github.com/prism-labs/prism-backend/src/prism-api/components/vision"
	"github.com/prism-labs/prism-backend/src/prism-api/faults"
	"github.com/prism-labs/prism-backend/src/webclient"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"

	singleMaxTokens  = 512
	unifiedMaxTokens = 700
)

// Searcher gathers the web evidence the synthesizer reasons over.
type Searcher interface {
	SearchClaim(ctx context.Context, query string) ([]search.Result, error)
	AuthorReputation(ctx context.Context, author string) search.AuthorSignal
}

// Synthesizer evaluates claims against gathered evidence through the
// reasoning model. One instance serves both single-signal and unified
// analyses.
type Synthesizer struct {
	apiKey     string
	model      string
	endpoint   string
	mock       bool
	search     Searcher
	httpClient *http.Client
}

func NewSynthesizer(apiKey, model string, searchClient Searcher, mock bool) *Synthesizer {
	return &Synthesizer{
		apiKey:     apiKey,
		model:      model,
		endpoint:   anthropicEndpoint,
		mock:       mock,
		search:     searchClient,
		httpClient: webclient.NewDefault(60 * time.Second),
	}
}

// AnalyzeClaim runs the single-signal pipeline: search for the claim, feed
// claim plus ranked results to the model, normalize the verdict. Sources in
// the result come from the search results, not from the model.
func (s *Synthesizer) AnalyzeClaim(ctx context.Context, text string) (Verdict, error) {
	if strings.TrimSpace(text) == "" {
		return neutral("No text provided for analysis."), nil
	}
	if s.mock {
		log.Info().Msg("mock mode: returning canned text analysis")
		return mockSingle(), nil
	}

	results, err := s.search.SearchClaim(ctx, text)
	if err != nil {
		return Verdict{}, err
	}
	if len(results) == 0 {
		return neutral("No relevant sources found for this claim."), nil
	}

	raw, err := s.invoke(ctx, singleSystemPrompt, singleUserPrompt(text, results), singleMaxTokens)
	if err != nil {
		return Verdict{}, err
	}
	v, err := parseSingle(raw)
	if err != nil {
		return Verdict{}, err
	}

	srcs := make([]Source, 0, len(results))
	for _, r := range results {
		if r.URL != "" {
			srcs = append(srcs, Source{Title: r.Title, URL: r.URL})
		}
	}
	v.Sources = srcs
	return v, nil
}

// AnalyzePost runs the unified pipeline across claim, optional image
// provenance, and optional author. The claim search and the author
// reputation lookup run concurrently; a claim-search failure is fatal while
// the reputation lookup degrades internally and never fails the request.
func (s *Synthesizer) AnalyzePost(ctx context.Context, text, author string, prov *vision.Provenance) (Verdict, error) {
	if strings.TrimSpace(text) == "" && prov == nil {
		return neutralUnified("No post data provided for analysis."), nil
	}
	if s.mock {
		log.Info().Msg("mock mode: returning canned unified analysis")
		return mockUnified(), nil
	}

	var (
		results []search.Result
		signal  search.AuthorSignal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		var err error
		results, err = s.search.SearchClaim(gctx, text)
		return err
	})
	g.Go(func() error {
		signal = s.search.AuthorReputation(gctx, author)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Verdict{}, err
	}

	ev := Evidence{Claim: text, Results: results, Provenance: prov, Author: signal}

	raw, err := s.invoke(ctx, unifiedSystemPrompt, unifiedUserPrompt(ev), unifiedMaxTokens)
	if err != nil {
		return Verdict{}, err
	}
	v, err := parseUnified(raw)
	if err != nil {
		return Verdict{}, err
	}
	enforcePrecedence(&v, ev)
	return v, nil
}

// invoke sends one system+user exchange to the Anthropic Messages API and
// returns the raw response text.
func (s *Synthesizer) invoke(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if s.apiKey == "" {
		return "", faults.New(faults.Config, "ANTHROPIC_API_KEY is not set")
	}

	payload, _ := json.Marshal(map[string]any{
		"model":      s.model,
		"max_tokens": maxTokens,
		"system":     system,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]string{
					{"type": "text", "text": user},
				},
			},
		},
	})

	_, body, err := webclient.DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", s.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return "", faults.Wrap(faults.Synthesis, err, "reasoning model call failed")
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", faults.Wrap(faults.Synthesis, err, "reasoning model: decode response")
	}

	var b strings.Builder
	for _, chunk := range result.Content {
		if chunk.Text != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(chunk.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", faults.New(faults.Synthesis, "reasoning model returned empty response")
	}
	return text, nil
}
