package wine

import (
	"math"
	"strings"
	"time"
)

const (
	maxCurrencyLength  = 10
	expensiveThreshold = 200
	recentWindow       = 7 * 24 * time.Hour
)

// Price is the average market price observed for a wine.
type Price struct {
	average    float64
	currency   string
	priceRange *string
	updatedAt  time.Time
}

// NewPrice validates the amount, currency, and timestamp. A nil or blank
// priceRange is stored as absent.
func NewPrice(average float64, currency string, priceRange *string, updatedAt time.Time) (Price, error) {
	if math.IsNaN(average) || math.IsInf(average, 0) || average < 0 {
		return Price{}, invalid("average", "must be a number >= 0, got %v", average)
	}
	c, err := boundedText("currency", currency, maxCurrencyLength)
	if err != nil {
		return Price{}, err
	}
	if updatedAt.IsZero() {
		return Price{}, invalid("updatedAt", "must be a valid timestamp")
	}
	var pr *string
	if priceRange != nil {
		if trimmed := strings.TrimSpace(*priceRange); trimmed != "" {
			pr = &trimmed
		}
	}
	return Price{average: average, currency: c, priceRange: pr, updatedAt: updatedAt}, nil
}

// Average returns the average price.
func (p Price) Average() float64 { return p.average }

// Currency returns the currency code or symbol text as found.
func (p Price) Currency() string { return p.currency }

// PriceRange returns the low-high range text, or nil when absent.
func (p Price) PriceRange() *string {
	if p.priceRange == nil {
		return nil
	}
	r := *p.priceRange
	return &r
}

// UpdatedAt returns when the price was last observed.
func (p Price) UpdatedAt() time.Time { return p.updatedAt }

// IsExpensive reports an average of 200 or more, regardless of currency.
func (p Price) IsExpensive() bool { return p.average >= expensiveThreshold }

// IsRecent reports whether the price was updated within seven days of now.
func (p Price) IsRecent(now time.Time) bool {
	return now.Sub(p.updatedAt) <= recentWindow
}
