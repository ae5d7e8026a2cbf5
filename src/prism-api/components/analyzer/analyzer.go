// Package analyzer dispatches the three analysis operations, memoizes
// results by input fingerprint, and applies the unified-mode degradation
// policy for broken images.
package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prism-labs/prism-backend/src/prism-api/components/verdict"
	"github.com/prism-labs/prism-backend/src/prism-api/components/vision"
)

// Resolver resolves image provenance.
type Resolver interface {
	Resolve(ctx context.Context, imageURL string) (vision.Provenance, error)
}

// Synthesizer produces verdicts from gathered evidence.
type Synthesizer interface {
	AnalyzeClaim(ctx context.Context, text string) (verdict.Verdict, error)
	AnalyzePost(ctx context.Context, text, author string, prov *vision.Provenance) (verdict.Verdict, error)
}

type Analyzer struct {
	vision Resolver
	synth  Synthesizer
	mock   bool
	cache  *memoCache
}

func New(resolver Resolver, synth Synthesizer, mock bool) *Analyzer {
	return &Analyzer{
		vision: resolver,
		synth:  synth,
		mock:   mock,
		cache:  newMemoCache(),
	}
}

// PostResult is the unified verdict with the provenance record embedded
// when an image URL was part of the request.
type PostResult struct {
	verdict.Verdict
	Image *vision.Provenance `json:"image,omitempty"`
}

// AnalyzeImage resolves provenance for a standalone image. Any provenance
// failure here is fatal and surfaces as upstream-unavailable.
func (a *Analyzer) AnalyzeImage(ctx context.Context, imageURL string) (vision.Provenance, error) {
	key := fingerprint("image", imageURL)
	if cached, ok := a.cache.load(key); ok {
		return cached.(vision.Provenance), nil
	}

	if a.mock {
		p := mockProvenance()
		a.cache.store(key, p)
		return p, nil
	}

	p, err := a.vision.Resolve(ctx, imageURL)
	if err != nil {
		return vision.Provenance{}, err
	}
	a.cache.store(key, p)
	return p, nil
}

// AnalyzeText runs the single-signal claim analysis.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (verdict.Verdict, error) {
	key := fingerprint("text", text)
	if cached, ok := a.cache.load(key); ok {
		return cached.(verdict.Verdict), nil
	}

	v, err := a.synth.AnalyzeClaim(ctx, text)
	if err != nil {
		return verdict.Verdict{}, err
	}
	a.cache.store(key, v)
	return v, nil
}

// AnalyzePost runs the unified analysis. Image provenance is resolved
// first since the synthesis prompt depends on it; a provenance failure
// degrades to a placeholder record so a broken image link cannot fail the
// whole request. A claim-search failure still propagates as fatal.
func (a *Analyzer) AnalyzePost(ctx context.Context, imageURL, text, author string) (PostResult, error) {
	key := fingerprint("post", imageURL, text, author)
	if cached, ok := a.cache.load(key); ok {
		return cached.(PostResult), nil
	}

	var prov *vision.Provenance
	if strings.TrimSpace(imageURL) != "" {
		p := a.resolveProvenance(ctx, imageURL)
		prov = &p
	}

	v, err := a.synth.AnalyzePost(ctx, text, author, prov)
	if err != nil {
		return PostResult{}, err
	}

	result := PostResult{Verdict: v, Image: prov}
	a.cache.store(key, result)
	return result, nil
}

func (a *Analyzer) resolveProvenance(ctx context.Context, imageURL string) vision.Provenance {
	if a.mock {
		return mockProvenance()
	}
	p, err := a.vision.Resolve(ctx, imageURL)
	if err != nil {
		log.Warn().Err(err).Str("image_url", imageURL).Msg("image provenance degraded to placeholder")
		return vision.Provenance{
			OldestSourceURL: "",
			Year:            time.Now().Year(),
			Context:         "Image analysis unavailable: " + err.Error(),
			IsMismatch:      false,
		}
	}
	return p
}

func mockProvenance() vision.Provenance {
	return vision.Provenance{
		OldestSourceURL: "https://apnews.com/mock-image-origin",
		Year:            time.Now().Year(),
		Context:         "[MOCK] Simulated reverse image lookup | Best guess: archival photo",
		IsMismatch:      true,
	}
}
