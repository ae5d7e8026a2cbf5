// Package sources holds the static classification tables used across the
// analysis pipeline: known satire outlets, established news organisations,
// repost platforms, and the red-flag keyword set for author reputation.
// Classification is pure and deterministic so it can be tested without any
// network access.
package sources

import (
	"net/url"
	"strings"
)

// Class is a coarse credibility tag attached to a URL or handle.
type Class string

const (
	ClassSatire   Class = "satire"
	ClassCredible Class = "credible"
	ClassUnknown  Class = "unknown"
)

var satireDomains = map[string]bool{
	"theonion.com":              true,
	"babylonbee.com":            true,
	"clickhole.com":             true,
	"thebeaverton.com":          true,
	"waterfordwhispersnews.com": true,
	"newsthump.com":             true,
	"thedailymash.co.uk":        true,
	"hard-drive.net":            true,
	"hardtimes.net":             true,
	"reductress.com":            true,
	"theshovel.com.au":          true,
	"chaser.com.au":             true,
	"private-eye.co.uk":         true,
}

// Social-media handles belonging to known satire outlets.
var satireHandles = map[string]bool{
	"theonion":      true,
	"babylonbee":    true,
	"clickhole":     true,
	"thebeaverton":  true,
	"newsthump":     true,
	"thedailymash":  true,
	"reductress":    true,
	"theshovel":     true,
	"hardtimesnews": true,
	"harddrivenews": true,
	"privateeye":    true,
}

var credibleDomains = map[string]bool{
	"reuters.com":        true,
	"apnews.com":         true,
	"bbc.com":            true,
	"bbc.co.uk":          true,
	"nytimes.com":        true,
	"washingtonpost.com": true,
	"theguardian.com":    true,
	"snopes.com":         true,
	"factcheck.org":      true,
	"politifact.com":     true,
	"fullfact.org":       true,
	"nature.com":         true,
	"sciencedirect.com":  true,
	"who.int":            true,
	"cdc.gov":            true,
	"nih.gov":            true,
	"nasa.gov":           true,
	"npr.org":            true,
	"pbs.org":            true,
}

// Content-hosting platforms where images are republished rather than
// originally published.
var repostDomains = map[string]bool{
	"instagram.com":     true,
	"www.instagram.com": true,
	"facebook.com":      true,
	"www.facebook.com":  true,
	"twitter.com":       true,
	"x.com":             true,
	"tiktok.com":        true,
	"www.tiktok.com":    true,
	"pinterest.com":     true,
	"www.pinterest.com": true,
	"reddit.com":        true,
	"www.reddit.com":    true,
	"imgur.com":         true,
	"i.imgur.com":       true,
}

var redFlagKeywords = []string{"misinformation", "fake", "suspended", "banned", "propaganda"}

// Classify maps a URL to a credibility class based on its hostname.
// Malformed URLs classify as unknown; the function never panics.
func Classify(rawURL string) Class {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u == nil {
		return ClassUnknown
	}
	domain := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if domain == "" {
		return ClassUnknown
	}
	if satireDomains[domain] {
		return ClassSatire
	}
	if credibleDomains[domain] {
		return ClassCredible
	}
	return ClassUnknown
}

// ClassifyAuthor maps a social-media handle to satire or unknown.
func ClassifyAuthor(handle string) Class {
	h := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
	if h == "" {
		return ClassUnknown
	}
	if satireHandles[h] {
		return ClassSatire
	}
	// A handle matching the first label of a satire domain counts too.
	for d := range satireDomains {
		if h == strings.SplitN(d, ".", 2)[0] {
			return ClassSatire
		}
	}
	return ClassUnknown
}

// IsRepostDomain reports whether the domain is a content-hosting platform
// presumed not to be an original publication source.
func IsRepostDomain(domain string) bool {
	return repostDomains[strings.ToLower(domain)]
}

// IsOriginPlatform reports whether the domain belongs to the platform the
// analyzed posts live on (Instagram).
func IsOriginPlatform(domain string) bool {
	d := strings.ToLower(domain)
	return d == "instagram.com" || d == "www.instagram.com"
}

// ContainsRedFlag reports whether the text mentions any reputation
// red-flag keyword, case-insensitively.
func ContainsRedFlag(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range redFlagKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
