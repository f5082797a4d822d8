// Package extractor turns a fetched wine page into wine.WineData using
// configurable goquery locators. Required fields abort the parse; optional
// ones degrade to defaults, and malformed rating items are skipped.
package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/wine-searcher-crawler/internal/clock/system"
	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
	"github.com/JakeFAU/wine-searcher-crawler/internal/metrics"
	"github.com/JakeFAU/wine-searcher-crawler/internal/wine"
)

// Fallbacks used when an optional wine field is not on the page.
const (
	UnknownRegion  = "Unknown Region"
	UnknownWinery  = "Unknown Winery"
	UnknownVariety = "Unknown Variety"
)

var errWineNameMissing = errors.New("wine name not found")

// Extractor is stateless apart from its configuration and may be shared.
type Extractor struct {
	selectors Selectors
	clock     crawler.Clock
	logger    *zap.Logger
}

var _ crawler.Extractor = (*Extractor)(nil)

// New builds an Extractor.
func New(selectors Selectors, clock crawler.Clock, logger *zap.Logger) *Extractor {
	if clock == nil {
		clock = system.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{selectors: selectors, clock: clock, logger: logger}
}

// Extract parses html fetched from sourceURL. Every failure is reported as a
// *crawler.ParsingError carrying sourceURL and the underlying message.
func (e *Extractor) Extract(html string, sourceURL string) (data wine.WineData, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during extraction: %v", rec)
		}
		if err != nil {
			metrics.ObserveParse(metrics.ParseFailure)
			data = wine.WineData{}
			err = &crawler.ParsingError{SourceURL: sourceURL, Message: err.Error()}
			return
		}
		metrics.ObserveParse(metrics.ParseSuccess)
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return wine.WineData{}, fmt.Errorf("parse document: %w", err)
	}
	root := doc.Selection

	w, err := e.extractWine(root)
	if err != nil {
		return wine.WineData{}, err
	}
	ratings := e.collectRatings(sourceURL, e.extractRatings(root))
	price, err := e.extractPrice(root)
	if err != nil {
		return wine.WineData{}, err
	}

	return wine.WineData{
		Wine:      w,
		Ratings:   ratings,
		Price:     price,
		SourceURL: sourceURL,
		CrawledAt: e.clock.Now(),
	}, nil
}

func (e *Extractor) extractWine(root *goquery.Selection) (wine.Wine, error) {
	rawName, ok := firstValue(root, e.selectors.WineName)
	if !ok {
		return wine.Wine{}, errWineNameMissing
	}
	name, err := wine.NewWineName(rawName)
	if err != nil {
		return wine.Wine{}, err
	}

	year := e.clock.Now().Year()
	if text, ok := firstValue(root, e.selectors.Vintage); ok {
		if found, ok := vintageYear(text); ok {
			year = found
		}
	}
	vintage, err := wine.NewVintageAt(year, e.clock.Now())
	if err != nil {
		return wine.Wine{}, err
	}

	region := valueOr(root, e.selectors.Region, UnknownRegion)
	winery := valueOr(root, e.selectors.Winery, UnknownWinery)
	variety := valueOr(root, e.selectors.Variety, UnknownVariety)

	return wine.NewWine(name, region, winery, variety, vintage)
}

// ratingResult is the outcome of extracting one rating item. Items without a
// source or score are neither kept nor reported as failures.
type ratingResult struct {
	index  int
	rating wine.Rating
	err    error
	absent bool
}

func (e *Extractor) extractRatings(root *goquery.Selection) []ratingResult {
	list, ok := firstMatch(root, e.selectors.RatingList)
	if !ok {
		return nil
	}
	items, ok := firstMatch(list.First(), e.selectors.RatingItem)
	if !ok {
		return nil
	}
	results := make([]ratingResult, 0, items.Length())
	items.Each(func(i int, item *goquery.Selection) {
		results = append(results, e.extractRating(i, item))
	})
	return results
}

func (e *Extractor) extractRating(index int, item *goquery.Selection) (result ratingResult) {
	result.index = index
	defer func() {
		if rec := recover(); rec != nil {
			result.err = fmt.Errorf("panic extracting rating: %v", rec)
		}
	}()

	source, hasSource := firstValue(item, e.selectors.RatingSource)
	scoreText, hasScore := firstValue(item, e.selectors.RatingScore)
	if !hasSource || !hasScore {
		result.absent = true
		return result
	}

	value, err := firstNumber(scoreText)
	if err != nil {
		result.err = fmt.Errorf("invalid score: %w", err)
		return result
	}
	score, err := wine.NewScore(value)
	if err != nil {
		result.err = err
		return result
	}

	var critic *string
	if c, ok := firstValue(item, e.selectors.RatingCritic); ok {
		critic = &c
	}
	reviews := 0
	if text, ok := firstValue(item, e.selectors.RatingReviewCount); ok {
		if n, ok := firstInteger(text); ok {
			reviews = n
		}
	}

	result.rating, result.err = wine.NewRating(source, score, critic, reviews)
	return result
}

// collectRatings keeps successful ratings in document order and routes
// failures to the log.
func (e *Extractor) collectRatings(sourceURL string, results []ratingResult) []wine.Rating {
	ratings := make([]wine.Rating, 0, len(results))
	for _, r := range results {
		switch {
		case r.err != nil:
			metrics.ObserveRatingSkipped()
			e.logger.Warn("skipping rating item",
				zap.String("url", sourceURL),
				zap.Int("index", r.index),
				zap.Error(r.err),
			)
		case r.absent:
			e.logger.Debug("rating item lacks source or score", zap.String("url", sourceURL), zap.Int("index", r.index))
		default:
			ratings = append(ratings, r.rating)
		}
	}
	return ratings
}

// extractPrice returns nil when the amount or currency is missing. A present
// but unparseable amount is an error and fails the whole page.
func (e *Extractor) extractPrice(root *goquery.Selection) (*wine.Price, error) {
	amountText, hasAmount := firstValue(root, e.selectors.PriceAverage)
	currency, hasCurrency := firstValue(root, e.selectors.PriceCurrency)
	if !hasAmount || !hasCurrency {
		return nil, nil
	}

	amount, err := priceAmount(amountText)
	if err != nil {
		return nil, err
	}

	var priceRange *string
	if r, ok := firstValue(root, e.selectors.PriceRange); ok {
		priceRange = &r
	}
	updatedAt := e.clock.Now()
	if text, ok := firstValue(root, e.selectors.PriceUpdatedAt); ok {
		if t, ok := parseTimestamp(text); ok {
			updatedAt = t
		}
	}

	price, err := wine.NewPrice(amount, currency, priceRange, updatedAt)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func valueOr(root *goquery.Selection, candidates []string, fallback string) string {
	if v, ok := firstValue(root, candidates); ok {
		return v
	}
	return fallback
}
