package verdict

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prism-labs/prism-backend/src/prism-api/components/sources"
	"github.com/prism-labs/prism-backend/src/prism-api/faults"
)

// The model's output is an untrusted payload: free-form text expected to be
// JSON. Everything below runs on every response, no matter how well formed
// it looks.

// stripFences removes surrounding markdown code fences the model sometimes
// adds despite instructions.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		} else {
			raw = ""
		}
	}
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "```") {
		raw = strings.TrimSpace(raw[:strings.LastIndex(raw, "```")])
	}
	return raw
}

func parseSingle(raw string) (Verdict, error) {
	m, err := decode(raw)
	if err != nil {
		return Verdict{}, err
	}
	if err := requireKeys(m, "flag", "confidence", "summary", "category"); err != nil {
		return Verdict{}, err
	}

	flag := coerceFlag(m["flag"])
	return Verdict{
		Flag:       flag,
		Confidence: normalizeConfidence(asString(m["confidence"])),
		Category:   normalizeCategory(flag, asString(m["category"])),
		Summary:    asString(m["summary"]),
		Sources:    []Source{},
	}, nil
}

func parseUnified(raw string) (Verdict, error) {
	m, err := decode(raw)
	if err != nil {
		return Verdict{}, err
	}
	if err := requireKeys(m, "flag", "confidence", "category", "summary", "reasoning", "sources"); err != nil {
		return Verdict{}, err
	}

	reasoning, ok := m["reasoning"].(map[string]any)
	if !ok {
		return Verdict{}, faults.New(faults.Synthesis, "model response reasoning is not an object")
	}
	if err := requireKeys(reasoning, "image", "text", "author", "consistency"); err != nil {
		return Verdict{}, err
	}

	flag := coerceFlag(m["flag"])
	return Verdict{
		Flag:       flag,
		Confidence: normalizeConfidence(asString(m["confidence"])),
		Category:   normalizeCategory(flag, asString(m["category"])),
		Summary:    asString(m["summary"]),
		Reasoning: &Reasoning{
			Image:       asString(reasoning["image"]),
			Text:        asString(reasoning["text"]),
			Author:      asString(reasoning["author"]),
			Consistency: asString(reasoning["consistency"]),
		},
		Sources: filterSources(m["sources"]),
	}, nil
}

func decode(raw string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(stripFences(raw)), &m); err != nil {
		return nil, faults.Wrap(faults.Synthesis, err, "model returned invalid JSON")
	}
	return m, nil
}

func requireKeys(m map[string]any, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return faults.Newf(faults.Synthesis, "model response missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

func coerceFlag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true") || t == "1"
	case float64:
		return t != 0
	default:
		return false
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// normalizeCategory enforces the flag/category invariant: flag=false forces
// "none", flag=true with an unset, invalid, or "none" category falls back
// to "fabricated" as the conservative choice.
func normalizeCategory(flag bool, raw string) Category {
	if !flag {
		return CategoryNone
	}
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !validCategories[c] || c == CategoryNone {
		return CategoryFabricated
	}
	return c
}

func normalizeConfidence(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return c
	default:
		return ConfidenceLow
	}
}

// filterSources keeps only well-formed entries with a non-empty URL. A
// malformed sources field degrades to an empty list rather than failing the
// whole verdict.
func filterSources(v any) []Source {
	list, ok := v.([]any)
	if !ok {
		return []Source{}
	}
	out := make([]Source, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		url := asString(entry["url"])
		if url == "" {
			continue
		}
		out = append(out, Source{Title: asString(entry["title"]), URL: url})
	}
	return out
}

// enforcePrecedence applies the fixed precedence order deterministically,
// whatever the model decided: a satire author or satire provenance domain
// dominates everything; otherwise a provenance mismatch forces
// false_context. A missing signal never triggers either rule.
func enforcePrecedence(v *Verdict, ev Evidence) {
	provClass := sources.ClassUnknown
	if ev.Provenance != nil && ev.Provenance.OldestSourceURL != "" {
		provClass = sources.Classify(ev.Provenance.OldestSourceURL)
	}

	if sources.ClassifyAuthor(ev.Author.Author) == sources.ClassSatire || provClass == sources.ClassSatire {
		v.Flag = true
		v.Category = CategorySatire
		v.Confidence = ConfidenceHigh
		return
	}

	if ev.Provenance != nil && ev.Provenance.IsMismatch && v.Category != CategorySatire {
		v.Flag = true
		v.Category = CategoryFalseContext
	}
}
