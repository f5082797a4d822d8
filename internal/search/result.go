package search

import (
	"time"

	"github.com/JakeFAU/wine-searcher-crawler/internal/wine"
)

// DefaultSiteName labels results in the source block.
const DefaultSiteName = "Wine-Searcher"

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Result is the plain response shape returned to API and CLI callers.
type Result struct {
	Wine    WineView     `json:"wine"`
	Ratings []RatingView `json:"ratings"`
	Price   *PriceView   `json:"price"`
	Source  SourceView   `json:"source"`
}

// WineView is the unwrapped wine.
type WineView struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Winery  string `json:"winery"`
	Variety string `json:"variety"`
	Vintage int    `json:"vintage"`
}

// RatingView is one unwrapped rating.
type RatingView struct {
	Source      string  `json:"source"`
	Score       float64 `json:"score"`
	Critic      *string `json:"critic"`
	ReviewCount int     `json:"reviewCount"`
}

// PriceView is the unwrapped price.
type PriceView struct {
	Average    float64 `json:"average"`
	Currency   string  `json:"currency"`
	PriceRange *string `json:"priceRange"`
	UpdatedAt  string  `json:"updatedAt"`
}

// SourceView records where and when the data was crawled.
type SourceView struct {
	Site      string `json:"site"`
	URL       string `json:"url"`
	CrawledAt string `json:"crawledAt"`
}

// FormatTime renders t as a UTC ISO-8601 timestamp with millisecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// NewResult unwraps data into the response shape.
func NewResult(data wine.WineData, site string) Result {
	if site == "" {
		site = DefaultSiteName
	}
	ratings := make([]RatingView, 0, len(data.Ratings))
	for _, r := range data.Ratings {
		ratings = append(ratings, RatingView{
			Source:      r.Source(),
			Score:       r.Score().Value(),
			Critic:      r.Critic(),
			ReviewCount: r.ReviewCount(),
		})
	}

	var price *PriceView
	if data.Price != nil {
		price = &PriceView{
			Average:    data.Price.Average(),
			Currency:   data.Price.Currency(),
			PriceRange: data.Price.PriceRange(),
			UpdatedAt:  FormatTime(data.Price.UpdatedAt()),
		}
	}

	w := data.Wine
	return Result{
		Wine: WineView{
			Name:    w.Name().Value(),
			Region:  w.Region(),
			Winery:  w.Winery(),
			Variety: w.Variety(),
			Vintage: w.Vintage().Value(),
		},
		Ratings: ratings,
		Price:   price,
		Source: SourceView{
			Site:      site,
			URL:       data.SourceURL,
			CrawledAt: FormatTime(data.CrawledAt),
		},
	}
}
