package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	vintagePattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	numberPattern  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	integerPattern = regexp.MustCompile(`\d+`)

	currencyCleaner = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", "₩", "", "₹", "", "CHF", "", ",", "")
)

// timestampLayouts are tried in order when parsing a price's last-updated text.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
}

// vintageYear returns the first 19xx/20xx year in text.
func vintageYear(text string) (int, bool) {
	match := vintagePattern.FindString(text)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// firstNumber parses the first integer or decimal token in text.
func firstNumber(text string) (float64, error) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("no number in %q", text)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", match, err)
	}
	return v, nil
}

// firstInteger parses the first integer token in text, ignoring thousands separators.
func firstInteger(text string) (int, bool) {
	match := integerPattern.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return 0, false
	}
	v, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return v, true
}

// priceAmount strips currency symbols and separators before reading the amount.
func priceAmount(text string) (float64, error) {
	v, err := firstNumber(currencyCleaner.Replace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", text, err)
	}
	return v, nil
}

func parseTimestamp(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
