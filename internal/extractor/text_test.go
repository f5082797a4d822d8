package extractor

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestVintageYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{text: "2018", want: 2018, ok: true},
		{text: "Vintage: 1995 (library release 2010)", want: 1995, ok: true},
		{text: "Opus One 2018 Napa", want: 2018, ok: true},
		{text: "NV", ok: false},
		{text: "Lot 12018", ok: false},
		{text: "1850", ok: false},
	}
	for _, tt := range tests {
		got, ok := vintageYear(tt.text)
		require.Equal(t, tt.ok, ok, tt.text)
		require.Equal(t, tt.want, got, tt.text)
	}
}

func TestFirstNumber(t *testing.T) {
	t.Parallel()

	v, err := firstNumber("95 points")
	require.NoError(t, err)
	require.InDelta(t, 95, v, 0)

	v, err = firstNumber("Score: 92.5 / 100")
	require.NoError(t, err)
	require.InDelta(t, 92.5, v, 0)

	_, err = firstNumber("abc")
	require.Error(t, err)
}

func TestFirstInteger(t *testing.T) {
	t.Parallel()

	n, ok := firstInteger("1,204 reviews")
	require.True(t, ok)
	require.Equal(t, 1204, n)

	_, ok = firstInteger("no reviews yet")
	require.False(t, ok)
}

func TestPriceAmount(t *testing.T) {
	t.Parallel()

	tests := map[string]float64{
		"$1,349.50":      1349.50,
		"€ 45":           45,
		"£12.99 avg":     12.99,
		"CHF 2,000":      2000,
		"Avg. ¥30,000.5": 30000.5,
	}
	for text, want := range tests {
		got, err := priceAmount(text)
		require.NoError(t, err, text)
		require.InDelta(t, want, got, 0.0001, text)
	}
	_, err := priceAmount("POA")
	require.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, text := range []string{"2024-03-01", "March 1, 2024", "Mar 1, 2024", "1 Mar 2024", "03/01/2024"} {
		got, ok := parseTimestamp(text)
		require.True(t, ok, text)
		require.True(t, got.Equal(want), "%s parsed as %v", text, got)
	}
	_, ok := parseTimestamp("yesterday")
	require.False(t, ok)
}

func TestParseLocator(t *testing.T) {
	t.Parallel()

	require.Equal(t, locator{css: `meta[itemprop="price"]`, attr: "content"}, parseLocator(`meta[itemprop="price"]@content`))
	require.Equal(t, locator{css: ".rating-score"}, parseLocator(" .rating-score "))
	require.Equal(t, locator{css: `a[href*="@"]`}, parseLocator(`a[href*="@"]`))
}

func TestFirstValueInvalidSelectorIsIgnored(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<p class="ok">fine</p>`))
	require.NoError(t, err)
	v, ok := firstValue(doc.Selection, []string{"p[[", "", ".ok"})
	require.True(t, ok)
	require.Equal(t, "fine", v)
}
