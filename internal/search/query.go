package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/JakeFAU/wine-searcher-crawler/internal/wine"
)

// Query identifies the wine to look up.
type Query struct {
	Region  string `json:"region"`
	Winery  string `json:"winery"`
	Variety string `json:"variety"`
	Vintage int    `json:"vintage"`
}

// Validate applies the same text and vintage rules as the domain model,
// reporting the first offending field as a *wine.ValidationError.
func (q Query) Validate(now time.Time) error {
	fields := []struct {
		name  string
		value string
	}{
		{"region", q.Region},
		{"winery", q.Winery},
		{"variety", q.Variety},
	}
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return &wine.ValidationError{Field: f.name, Reason: "must not be empty"}
		}
		if len([]rune(v)) > wine.MaxTextLength {
			return &wine.ValidationError{Field: f.name, Reason: "must be at most 100 characters"}
		}
	}
	if _, err := wine.NewVintageAt(q.Vintage, now); err != nil {
		return err
	}
	return nil
}

// searchTerms is the space-joined text the site is searched for.
func (q Query) searchTerms() string {
	return strings.Join([]string{q.Winery, q.Variety, strconv.Itoa(q.Vintage), q.Region}, " ")
}
