package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors maps each logical field to candidate locators tried in order,
// first match wins. A locator is a CSS selector, optionally suffixed with
// "@attr" to read an attribute instead of the element text, for example
// `meta[itemprop="price"]@content`.
type Selectors struct {
	WineName []string `mapstructure:"wine_name" json:"wine_name"`
	Vintage  []string `mapstructure:"vintage" json:"vintage"`
	Region   []string `mapstructure:"region" json:"region"`
	Winery   []string `mapstructure:"winery" json:"winery"`
	Variety  []string `mapstructure:"variety" json:"variety"`

	RatingList        []string `mapstructure:"rating_list" json:"rating_list"`
	RatingItem        []string `mapstructure:"rating_item" json:"rating_item"`
	RatingSource      []string `mapstructure:"rating_source" json:"rating_source"`
	RatingScore       []string `mapstructure:"rating_score" json:"rating_score"`
	RatingCritic      []string `mapstructure:"rating_critic" json:"rating_critic"`
	RatingReviewCount []string `mapstructure:"rating_review_count" json:"rating_review_count"`

	PriceAverage   []string `mapstructure:"price_average" json:"price_average"`
	PriceCurrency  []string `mapstructure:"price_currency" json:"price_currency"`
	PriceRange     []string `mapstructure:"price_range" json:"price_range"`
	PriceUpdatedAt []string `mapstructure:"price_updated_at" json:"price_updated_at"`
}

// DefaultSelectors returns placeholder locators for the wine-searcher find
// page. Deployments are expected to override them through configuration.
func DefaultSelectors() Selectors {
	return Selectors{
		WineName: []string{"h1.wine-name", `[itemprop="name"]`, "h1"},
		Vintage:  []string{".wine-vintage", `[itemprop="vintage"]`, "h1"},
		Region:   []string{".wine-region", `[itemprop="region"]`},
		Winery:   []string{".wine-winery", `[itemprop="manufacturer"]`},
		Variety:  []string{".wine-variety", `[itemprop="grape"]`},

		RatingList:        []string{".ratings-list", "#ratings"},
		RatingItem:        []string{".rating-item", "li"},
		RatingSource:      []string{".rating-source", ".source"},
		RatingScore:       []string{".rating-score", ".score"},
		RatingCritic:      []string{".rating-critic", ".critic"},
		RatingReviewCount: []string{".review-count"},

		PriceAverage:   []string{".average-price", `meta[itemprop="price"]@content`},
		PriceCurrency:  []string{".price-currency", `meta[itemprop="priceCurrency"]@content`},
		PriceRange:     []string{".price-range"},
		PriceUpdatedAt: []string{".price-updated", "time.price-date@datetime"},
	}
}

// locator is a parsed CSS selector with an optional attribute.
type locator struct {
	css  string
	attr string
}

func parseLocator(raw string) locator {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndex(raw, "@"); i > 0 && !strings.ContainsAny(raw[i:], `]"' `) {
		return locator{css: strings.TrimSpace(raw[:i]), attr: raw[i+1:]}
	}
	return locator{css: raw}
}

// firstValue returns the first non-empty trimmed value produced by candidates within scope.
func firstValue(scope *goquery.Selection, candidates []string) (string, bool) {
	for _, raw := range candidates {
		loc := parseLocator(raw)
		if loc.css == "" {
			continue
		}
		var (
			value string
			found bool
		)
		scope.Find(loc.css).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if loc.attr != "" {
				value, _ = sel.Attr(loc.attr)
			} else {
				value = sel.Text()
			}
			value = collapseSpace(value)
			found = value != ""
			return !found
		})
		if found {
			return value, true
		}
	}
	return "", false
}

// firstMatch returns the nodes of the first candidate that matches anything within scope.
func firstMatch(scope *goquery.Selection, candidates []string) (*goquery.Selection, bool) {
	for _, raw := range candidates {
		css := parseLocator(raw).css
		if css == "" {
			continue
		}
		if sel := scope.Find(css); sel.Length() > 0 {
			return sel, true
		}
	}
	return nil, false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
