// Package verdict is the unified multi-signal reasoning core: it composes
// gathered evidence into a policy-constrained prompt, invokes the reasoning
// model, and deterministically validates and normalizes the model's output
// into the strict verdict contract.
package verdict

import (
	"github.com/prism-labs/prism-backend/src/prism-api/components/search"
	"github.com/prism-labs/prism-backend/src/prism-api/components/vision"
)

// Category is one of the nine fixed misinformation tags.
type Category string

const (
	CategoryFabricated      Category = "fabricated"
	CategoryFalseContext    Category = "false_context"
	CategoryManipulated     Category = "manipulated"
	CategoryImposter        Category = "imposter"
	CategoryFalseConnection Category = "false_connection"
	CategorySatire          Category = "satire"
	CategoryAstroturfing    Category = "astroturfing"
	CategorySponsored       Category = "sponsored_disguised"
	CategoryNone            Category = "none"
)

var validCategories = map[Category]bool{
	CategoryFabricated:      true,
	CategoryFalseContext:    true,
	CategoryManipulated:     true,
	CategoryImposter:        true,
	CategoryFalseConnection: true,
	CategorySatire:          true,
	CategoryAstroturfing:    true,
	CategorySponsored:       true,
	CategoryNone:            true,
}

const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Source is a citation returned to the caller. URL is never empty in a
// normalized verdict.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Reasoning holds the per-dimension explanations produced in unified mode.
type Reasoning struct {
	Image       string `json:"image"`
	Text        string `json:"text"`
	Author      string `json:"author"`
	Consistency string `json:"consistency"`
}

// Verdict is the final structured misinformation assessment.
//
// Invariant: Flag is false iff Category is "none". The normalizer enforces
// this regardless of what the reasoning model returns.
type Verdict struct {
	Flag       bool       `json:"flag"`
	Confidence string     `json:"confidence"`
	Category   Category   `json:"category"`
	Summary    string     `json:"summary"`
	Reasoning  *Reasoning `json:"reasoning,omitempty"`
	Sources    []Source   `json:"sources"`
}

// Evidence is the optional-signal bundle the synthesizer reasons over.
// Claim-only and claim+image+author analyses share this one shape; absent
// signals stay at their zero values and are presented to the model as
// neutral, never as suspicious.
type Evidence struct {
	Claim      string
	Results    []search.Result
	Provenance *vision.Provenance
	Author     search.AuthorSignal
}

func neutral(summary string) Verdict {
	return Verdict{
		Flag:       false,
		Confidence: ConfidenceLow,
		Category:   CategoryNone,
		Summary:    summary,
		Sources:    []Source{},
	}
}

func neutralUnified(summary string) Verdict {
	v := neutral(summary)
	v.Reasoning = &Reasoning{
		Image:       "No image provided.",
		Text:        "No text provided.",
		Author:      "No author provided.",
		Consistency: "No data to compare.",
	}
	return v
}

func mockSingle() Verdict {
	return Verdict{
		Flag:       true,
		Confidence: ConfidenceMedium,
		Category:   CategoryFalseContext,
		Summary:    "[MOCK] Simulated text analysis — this claim would require additional context based on available sources.",
		Sources:    mockSources(),
	}
}

func mockUnified() Verdict {
	return Verdict{
		Flag:       true,
		Confidence: ConfidenceMedium,
		Category:   CategoryFalseContext,
		Summary:    "[MOCK] Simulated unified analysis — this post would require additional context based on available sources.",
		Reasoning: &Reasoning{
			Image:       "[MOCK] Image appears reused.",
			Text:        "[MOCK] Text claim is ambiguous.",
			Author:      "[MOCK] Author reputation is unclear.",
			Consistency: "[MOCK] Image and text do not fully align.",
		},
		Sources: mockSources(),
	}
}

func mockSources() []Source {
	return []Source{
		{Title: "Mock Source — Reuters", URL: "https://reuters.com/mock"},
		{Title: "Mock Source — AP News", URL: "https://apnews.com/mock"},
	}
}
