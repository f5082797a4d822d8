package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/wine-searcher-crawler/internal/wine"
)

func TestQueryValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	valid := Query{Region: "Napa Valley", Winery: "Opus One", Variety: "Cabernet Sauvignon", Vintage: 2018}
	require.NoError(t, valid.Validate(now))

	tests := []struct {
		name  string
		mut   func(q *Query)
		field string
	}{
		{"empty region", func(q *Query) { q.Region = "  " }, "region"},
		{"long winery", func(q *Query) { q.Winery = strings.Repeat("w", 101) }, "winery"},
		{"empty variety", func(q *Query) { q.Variety = "" }, "variety"},
		{"old vintage", func(q *Query) { q.Vintage = 1899 }, "vintage"},
		{"future vintage", func(q *Query) { q.Vintage = 2030 }, "vintage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := valid
			tt.mut(&q)
			var vErr *wine.ValidationError
			require.ErrorAs(t, q.Validate(now), &vErr)
			require.Equal(t, tt.field, vErr.Field)
		})
	}
}
