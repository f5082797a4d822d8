package wine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewPrice(t *testing.T) {
	t.Parallel()

	updated := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	p, err := NewPrice(349.99, " USD ", strPtr("$300 - $420"), updated)
	require.NoError(t, err)
	require.InDelta(t, 349.99, p.Average(), 0)
	require.Equal(t, "USD", p.Currency())
	require.Equal(t, "$300 - $420", *p.PriceRange())
	require.True(t, p.UpdatedAt().Equal(updated))
	require.True(t, p.IsExpensive())
}

func TestNewPriceOptionalRange(t *testing.T) {
	t.Parallel()

	p, err := NewPrice(20, "EUR", strPtr(" "), time.Now())
	require.NoError(t, err)
	require.Nil(t, p.PriceRange())
	require.False(t, p.IsExpensive())
}

func TestNewPriceRejectsInvalid(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name      string
		average   float64
		currency  string
		updatedAt time.Time
		field     string
	}{
		{"negative", -0.01, "USD", now, "average"},
		{"nan", math.NaN(), "USD", now, "average"},
		{"empty currency", 10, "  ", now, "currency"},
		{"long currency", 10, "DOLLARSXXXX", now, "currency"},
		{"zero time", 10, "USD", time.Time{}, "updatedAt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewPrice(tt.average, tt.currency, nil, tt.updatedAt)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestPriceIsRecent(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	fresh, err := NewPrice(10, "USD", nil, now.Add(-6*24*time.Hour))
	require.NoError(t, err)
	stale, err := NewPrice(10, "USD", nil, now.Add(-8*24*time.Hour))
	require.NoError(t, err)

	require.True(t, fresh.IsRecent(now))
	require.False(t, stale.IsRecent(now))
}

func TestWineDataHelpers(t *testing.T) {
	t.Parallel()

	rp, err := NewRating("Wine Advocate", mustScore(t, 97), strPtr("Robert Parker"), 0)
	require.NoError(t, err)
	ws, err := NewRating("Wine Spectator", mustScore(t, 98), nil, 3)
	require.NoError(t, err)

	data := WineData{Ratings: []Rating{rp, ws}}
	require.Len(t, data.RobertParkerRatings(), 1)
	best, ok := data.BestScore()
	require.True(t, ok)
	require.InDelta(t, 98, best.Value(), 0)

	_, ok = WineData{}.BestScore()
	require.False(t, ok)
}
