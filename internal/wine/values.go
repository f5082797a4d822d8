package wine

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxTextLength bounds every free-text field in the model.
	MaxTextLength = 100
	// MinVintage is the oldest vintage year accepted.
	MinVintage = 1900
	// VintageFutureYears is how far past the current year a vintage may lie.
	VintageFutureYears = 5

	highRatedScore = 90
	excellentScore = 85
)

// WineName is a trimmed, non-empty wine name of at most MaxTextLength characters.
type WineName struct {
	value string
}

// NewWineName validates and trims raw.
func NewWineName(raw string) (WineName, error) {
	v, err := requiredText("name", raw)
	if err != nil {
		return WineName{}, err
	}
	return WineName{value: v}, nil
}

// Value returns the underlying name.
func (n WineName) Value() string { return n.value }

// String implements fmt.Stringer.
func (n WineName) String() string { return n.value }

// Equals compares two names by value.
func (n WineName) Equals(other WineName) bool { return n.value == other.value }

// Contains reports whether term occurs in the name, ignoring case.
func (n WineName) Contains(term string) bool {
	return strings.Contains(strings.ToLower(n.value), strings.ToLower(term))
}

// Vintage is a harvest year between MinVintage and the current year plus VintageFutureYears.
type Vintage struct {
	value int
}

// NewVintage validates year against the current calendar year.
func NewVintage(year int) (Vintage, error) {
	return NewVintageAt(year, time.Now())
}

// NewVintageAt validates year against the calendar year of now.
func NewVintageAt(year int, now time.Time) (Vintage, error) {
	maxYear := now.Year() + VintageFutureYears
	if year < MinVintage || year > maxYear {
		return Vintage{}, invalid("vintage", "must be between %d and %d, got %d", MinVintage, maxYear, year)
	}
	return Vintage{value: year}, nil
}

// Value returns the year.
func (v Vintage) Value() int { return v.value }

// Equals compares two vintages by value.
func (v Vintage) Equals(other Vintage) bool { return v.value == other.value }

// Score is a critic score on the 0-100 scale.
type Score struct {
	value float64
}

// NewScore validates s.
func NewScore(s float64) (Score, error) {
	// NaN fails both comparisons, so test the accepted range positively.
	if !(s >= 0 && s <= 100) {
		return Score{}, invalid("score", "must be between 0 and 100, got %v", s)
	}
	return Score{value: s}, nil
}

// Value returns the numeric score.
func (s Score) Value() float64 { return s.value }

// Equals compares two scores by value.
func (s Score) Equals(other Score) bool { return s.value == other.value }

// IsHighRated reports a score of 90 or more.
func (s Score) IsHighRated() bool { return s.value >= highRatedScore }

// IsExcellent reports a score of 85 or more.
func (s Score) IsExcellent() bool { return s.value >= excellentScore }

func requiredText(field, raw string) (string, error) {
	return boundedText(field, raw, MaxTextLength)
}

func boundedText(field, raw string, maxLen int) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", invalid(field, "must not be empty")
	}
	if n := utf8.RuneCountInString(v); n > maxLen {
		return "", invalid(field, "must be at most %d characters, got %d", maxLen, n)
	}
	return v, nil
}
