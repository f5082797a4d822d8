package search

import (
	"regexp"
	"strings"
)

// DefaultBaseURL is the site searched when no base URL is configured.
const DefaultBaseURL = "https://www.wine-searcher.com"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9+]`)
)

// NormalizeTerms lower-cases text, joins words with "+", and drops every
// character outside [a-z0-9+].
func NormalizeTerms(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = whitespaceRun.ReplaceAllString(text, "+")
	return disallowed.ReplaceAllString(text, "")
}

// BuildURL returns the find-page URL for q under baseURL.
func BuildURL(baseURL string, q Query) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/find/" + NormalizeTerms(q.searchTerms())
}
