package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-labs/prism-backend/src/prism-api/components/search"
	"github.com/prism-labs/prism-backend/src/prism-api/components/vision"
	"github.com/prism-labs/prism-backend/src/prism-api/faults"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"flag": true}`, `{"flag": true}`},
		{"```json\n{\"flag\": true}\n```", `{"flag": true}`},
		{"```\n{\"flag\": true}\n```", `{"flag": true}`},
		{"  \n```json\n{}\n```  \n", `{}`},
		{"no fences at all", "no fences at all"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, stripFences(c.in), "input %q", c.in)
	}
}

func TestParseSingleHappyPath(t *testing.T) {
	v, err := parseSingle(`{"flag": true, "confidence": "HIGH", "category": "Manipulated", "summary": "edited photo"}`)
	require.NoError(t, err)
	assert.True(t, v.Flag)
	assert.Equal(t, ConfidenceHigh, v.Confidence)
	assert.Equal(t, CategoryManipulated, v.Category)
	assert.Equal(t, "edited photo", v.Summary)
	assert.Empty(t, v.Sources)
}

func TestParseSingleInvalidJSON(t *testing.T) {
	_, err := parseSingle("the claim seems questionable")
	require.Error(t, err)
	assert.Equal(t, faults.Synthesis, faults.KindOf(err))
}

func TestParseSingleMissingKeys(t *testing.T) {
	_, err := parseSingle(`{"flag": true, "summary": "x"}`)
	require.Error(t, err)
	assert.Equal(t, faults.Synthesis, faults.KindOf(err))
	assert.Contains(t, err.Error(), "confidence")
	assert.Contains(t, err.Error(), "category")
}

func TestParseUnifiedHappyPath(t *testing.T) {
	raw := "```json\n" + `{
		"flag": "true",
		"confidence": "medium",
		"category": "false_connection",
		"summary": "image unrelated to claim",
		"reasoning": {"image": "older photo", "text": "claim unverified", "author": "no history", "consistency": "weak link"},
		"sources": [
			{"title": "AP", "url": "https://apnews.com/a"},
			{"title": "no url entry"},
			"not even an object",
			{"url": "https://reuters.com/b"}
		]
	}` + "\n```"

	v, err := parseUnified(raw)
	require.NoError(t, err)
	assert.True(t, v.Flag)
	assert.Equal(t, CategoryFalseConnection, v.Category)
	require.NotNil(t, v.Reasoning)
	assert.Equal(t, "older photo", v.Reasoning.Image)
	assert.Equal(t, "weak link", v.Reasoning.Consistency)

	// Entries without a url are dropped, entries without a title survive.
	require.Len(t, v.Sources, 2)
	assert.Equal(t, "https://apnews.com/a", v.Sources[0].URL)
	assert.Equal(t, "", v.Sources[1].Title)
}

func TestParseUnifiedMissingReasoningSubKeys(t *testing.T) {
	_, err := parseUnified(`{
		"flag": true, "confidence": "low", "category": "fabricated", "summary": "x",
		"reasoning": {"image": "a", "text": "b"},
		"sources": []
	}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "author")
	assert.Contains(t, err.Error(), "consistency")
}

func TestParseUnifiedReasoningNotObject(t *testing.T) {
	_, err := parseUnified(`{
		"flag": true, "confidence": "low", "category": "fabricated", "summary": "x",
		"reasoning": "a single string",
		"sources": []
	}`)
	require.Error(t, err)
	assert.Equal(t, faults.Synthesis, faults.KindOf(err))
}

func TestCoerceFlag(t *testing.T) {
	assert.True(t, coerceFlag(true))
	assert.False(t, coerceFlag(false))
	assert.True(t, coerceFlag("true"))
	assert.True(t, coerceFlag(" TRUE "))
	assert.True(t, coerceFlag("1"))
	assert.False(t, coerceFlag("false"))
	assert.False(t, coerceFlag("yes"))
	assert.True(t, coerceFlag(float64(1)))
	assert.False(t, coerceFlag(float64(0)))
	assert.False(t, coerceFlag(nil))
}

func TestNormalizeCategoryFlagFalseForcesNone(t *testing.T) {
	assert.Equal(t, CategoryNone, normalizeCategory(false, "manipulated"))
	assert.Equal(t, CategoryNone, normalizeCategory(false, ""))
}

func TestNormalizeCategoryFlagTrueFallsBackToFabricated(t *testing.T) {
	assert.Equal(t, CategoryFabricated, normalizeCategory(true, "none"))
	assert.Equal(t, CategoryFabricated, normalizeCategory(true, ""))
	assert.Equal(t, CategoryFabricated, normalizeCategory(true, "hoax"))
	assert.Equal(t, CategorySatire, normalizeCategory(true, "  SATIRE "))
}

func TestNormalizeConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, normalizeConfidence(" High "))
	assert.Equal(t, ConfidenceLow, normalizeConfidence("certain"))
	assert.Equal(t, ConfidenceLow, normalizeConfidence(""))
}

func TestFilterSourcesMalformed(t *testing.T) {
	assert.Empty(t, filterSources("not a list"))
	assert.Empty(t, filterSources(nil))
	assert.NotNil(t, filterSources(nil))
}

func TestEnforcePrecedenceSatireAuthorDominates(t *testing.T) {
	v := Verdict{Flag: true, Category: CategoryFalseContext, Confidence: ConfidenceMedium}
	ev := Evidence{
		Author:     search.AuthorSignal{Author: "theonion"},
		Provenance: &vision.Provenance{OldestSourceURL: "https://apnews.com/x", IsMismatch: true},
	}
	enforcePrecedence(&v, ev)
	assert.True(t, v.Flag)
	assert.Equal(t, CategorySatire, v.Category)
	assert.Equal(t, ConfidenceHigh, v.Confidence)
}

func TestEnforcePrecedenceSatireProvenanceDomain(t *testing.T) {
	v := Verdict{Flag: false, Category: CategoryNone, Confidence: ConfidenceLow}
	ev := Evidence{
		Provenance: &vision.Provenance{OldestSourceURL: "https://www.theonion.com/article", IsMismatch: true},
	}
	enforcePrecedence(&v, ev)
	assert.Equal(t, CategorySatire, v.Category)
	assert.Equal(t, ConfidenceHigh, v.Confidence)
}

func TestEnforcePrecedenceMismatchForcesFalseContext(t *testing.T) {
	v := Verdict{Flag: false, Category: CategoryNone, Confidence: ConfidenceMedium}
	ev := Evidence{
		Provenance: &vision.Provenance{OldestSourceURL: "https://apnews.com/2019", IsMismatch: true},
	}
	enforcePrecedence(&v, ev)
	assert.True(t, v.Flag)
	assert.Equal(t, CategoryFalseContext, v.Category)
	// Mismatch does not touch confidence.
	assert.Equal(t, ConfidenceMedium, v.Confidence)
}

func TestEnforcePrecedenceSatireVerdictSurvivesMismatch(t *testing.T) {
	v := Verdict{Flag: true, Category: CategorySatire, Confidence: ConfidenceHigh}
	ev := Evidence{
		Provenance: &vision.Provenance{OldestSourceURL: "https://example.org/x", IsMismatch: true},
	}
	enforcePrecedence(&v, ev)
	assert.Equal(t, CategorySatire, v.Category)
}

func TestEnforcePrecedenceAbsentSignalsLeaveVerdictAlone(t *testing.T) {
	v := Verdict{Flag: false, Category: CategoryNone, Confidence: ConfidenceLow}
	enforcePrecedence(&v, Evidence{})
	assert.False(t, v.Flag)
	assert.Equal(t, CategoryNone, v.Category)
}

func TestEnforcePrecedencePlaceholderProvenanceIgnored(t *testing.T) {
	// A degraded lookup leaves OldestSourceURL empty; that must not be
	// classified as anything, satire included.
	v := Verdict{Flag: false, Category: CategoryNone, Confidence: ConfidenceLow}
	ev := Evidence{
		Provenance: &vision.Provenance{Context: "Image analysis unavailable: timeout"},
	}
	enforcePrecedence(&v, ev)
	assert.False(t, v.Flag)
	assert.Equal(t, CategoryNone, v.Category)
}
