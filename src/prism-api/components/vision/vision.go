// Package vision resolves image provenance through the Google Vision
// WEB_DETECTION feature: it downloads the image bytes, submits them for
// reverse lookup, and selects the most plausible original hosting page.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prism-labs/prism-backend/src/prism-api/components/sources"
	"github.com/prism-labs/prism-backend/src/prism-api/faults"
	"github.com/prism-labs/prism-backend/src/webclient"
)

const (
	annotateURL = "https://vision.googleapis.com/v1/images:annotate"

	// Hard ceiling on downloaded image size.
	maxImageBytes = 10 << 20
)

// Provenance describes where an image appears to originate on the web.
//
// Year is always the current calendar year: Vision does not expose
// crawl/index dates, so a historically accurate first-appearance year is
// not available. IsMismatch only compares the selected domain against the
// origin platform. Both are documented approximations.
type Provenance struct {
	OldestSourceURL string `json:"oldest_source_url"`
	Year            int    `json:"year"`
	Context         string `json:"context"`
	IsMismatch      bool   `json:"is_mismatch"`
}

type Resolver struct {
	apiKey   string
	endpoint string
	download *http.Client
	annotate *http.Client
}

func NewResolver(apiKey string) *Resolver {
	return &Resolver{
		apiKey:   apiKey,
		endpoint: annotateURL,
		download: webclient.NewDefault(20 * time.Second),
		annotate: webclient.NewDefault(30 * time.Second),
	}
}

// Resolve downloads the image and runs web detection on the raw bytes.
// Bytes are submitted instead of the URL because signed CDN URLs from
// social platforms are often not fetchable by a third-party service.
func (r *Resolver) Resolve(ctx context.Context, imageURL string) (Provenance, error) {
	data, err := r.fetchImage(ctx, imageURL)
	if err != nil {
		return Provenance{}, err
	}
	web, err := r.webDetection(ctx, data)
	if err != nil {
		return Provenance{}, err
	}
	return buildProvenance(web), nil
}

// fetchImage downloads the image with browser-mimicking headers; several
// hosting platforms reject non-browser fetches or require a referrer.
func (r *Resolver) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, faults.Wrap(faults.Provenance, err, "image download: build request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.instagram.com/")

	resp, err := r.download.Do(req)
	if err != nil {
		return nil, faults.Wrap(faults.Provenance, err, "image download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, faults.Newf(faults.Provenance, "image download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, faults.Wrap(faults.Provenance, err, "image download: read body")
	}
	if len(data) > maxImageBytes {
		return nil, faults.Newf(faults.Provenance, "image exceeds %d byte limit", maxImageBytes)
	}
	return data, nil
}

type webDetection struct {
	PagesWithMatchingImages []matchingPage `json:"pagesWithMatchingImages"`
	BestGuessLabels         []struct {
		Label string `json:"label"`
	} `json:"bestGuessLabels"`
}

type matchingPage struct {
	URL       string `json:"url"`
	PageTitle string `json:"pageTitle"`
}

func (r *Resolver) webDetection(ctx context.Context, image []byte) (webDetection, error) {
	var web webDetection

	if r.apiKey == "" {
		return web, faults.New(faults.Config, "GOOGLE_VISION_API_KEY is not set")
	}

	reqBody, _ := json.Marshal(map[string]any{
		"requests": []map[string]any{{
			"image": map[string]string{
				"content": base64.StdEncoding.EncodeToString(image),
			},
			"features": []map[string]any{{
				"type":       "WEB_DETECTION",
				"maxResults": 20,
			}},
		}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"?key="+url.QueryEscape(r.apiKey), bytes.NewReader(reqBody))
	if err != nil {
		return web, faults.Wrap(faults.Provenance, err, "vision: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.annotate.Do(req)
	if err != nil {
		return web, faults.Wrap(faults.Provenance, err, "vision request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return web, faults.Wrap(faults.Provenance, err, "vision: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return web, faults.Newf(faults.Provenance, "vision returned %d", resp.StatusCode)
	}

	var payload struct {
		Responses []struct {
			WebDetection webDetection `json:"webDetection"`
			Error        struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"responses"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return web, faults.Wrap(faults.Provenance, err, "vision: decode response")
	}
	if len(payload.Responses) == 0 {
		return web, faults.New(faults.Provenance, "vision: empty response")
	}
	if msg := payload.Responses[0].Error.Message; msg != "" {
		return web, faults.Newf(faults.Provenance, "vision returned error: %s", msg)
	}
	return payload.Responses[0].WebDetection, nil
}

// selectPage picks the best candidate for the image's original hosting
// page: the first non-repost-platform page in provider rank order, falling
// back to the first repost-platform page.
func selectPage(pages []matchingPage) *matchingPage {
	var firstRepost *matchingPage
	for i := range pages {
		domain := extractDomain(pages[i].URL)
		if sources.IsRepostDomain(domain) {
			if firstRepost == nil {
				firstRepost = &pages[i]
			}
			continue
		}
		return &pages[i]
	}
	return firstRepost
}

func buildProvenance(web webDetection) Provenance {
	year := time.Now().Year()

	page := selectPage(web.PagesWithMatchingImages)
	if page == nil {
		return Provenance{
			Year:       year,
			Context:    "No matching pages found on the web.",
			IsMismatch: false,
		}
	}

	var parts []string
	if title := strings.TrimSpace(page.PageTitle); title != "" {
		parts = append(parts, title)
	}
	var labels []string
	for _, l := range web.BestGuessLabels {
		if l.Label != "" {
			labels = append(labels, l.Label)
		}
	}
	if len(labels) > 0 {
		parts = append(parts, "Best guess: "+strings.Join(labels, ", "))
	}
	contextStr := "No context available."
	if len(parts) > 0 {
		contextStr = strings.Join(parts, " | ")
	}

	// The image is treated as reused whenever its best-matching page does
	// not live on the origin platform. A heuristic, not a verified fact.
	domain := extractDomain(page.URL)

	return Provenance{
		OldestSourceURL: page.URL,
		Year:            year,
		Context:         contextStr,
		IsMismatch:      !sources.IsOriginPlatform(domain),
	}
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u == nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
