package extractor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
)

const sourceURL = "https://www.wine-searcher.com/find/opus+one+2018"

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

var testNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(DefaultSelectors(), fakeClock{now: testNow}, zap.NewNop())
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(raw)
}

func requireParsingError(t *testing.T, err error) *crawler.ParsingError {
	t.Helper()
	var parseErr *crawler.ParsingError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, sourceURL, parseErr.SourceURL)
	return parseErr
}

func TestExtractFullPage(t *testing.T) {
	t.Parallel()

	data, err := newTestExtractor(t).Extract(loadFixture(t, "opus_one.html"), sourceURL)
	require.NoError(t, err)

	require.Equal(t, "Opus One Proprietary Red", data.Wine.Name().Value())
	require.Equal(t, 2018, data.Wine.Vintage().Value())
	require.Equal(t, "Napa Valley", data.Wine.Region())
	require.Equal(t, "Opus One Winery", data.Wine.Winery())
	require.Equal(t, "Bordeaux Blend", data.Wine.Variety())
	require.Equal(t, sourceURL, data.SourceURL)
	require.True(t, data.CrawledAt.Equal(testNow))

	require.Len(t, data.Ratings, 3)
	first := data.Ratings[0]
	require.Equal(t, "Wine Advocate", first.Source())
	require.InDelta(t, 98, first.Score().Value(), 0)
	require.Equal(t, "Robert Parker", *first.Critic())
	require.Equal(t, 1204, first.ReviewCount())
	require.True(t, first.IsRobertParker())

	second := data.Ratings[1]
	require.Equal(t, "Vinous", second.Source())
	require.InDelta(t, 96.5, second.Score().Value(), 0)
	require.Nil(t, second.Critic())
	require.Equal(t, 0, second.ReviewCount())

	third := data.Ratings[2]
	require.Equal(t, "James Suckling", third.Source())
	require.Nil(t, third.Critic())
	require.Equal(t, 12, third.ReviewCount())

	require.NotNil(t, data.Price)
	require.InDelta(t, 1349.50, data.Price.Average(), 0.0001)
	require.Equal(t, "USD", data.Price.Currency())
	require.Equal(t, "$1,200 - $1,500", *data.Price.PriceRange())
	require.True(t, data.Price.UpdatedAt().Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestExtractLogsSkippedRatings(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	ex := New(DefaultSelectors(), fakeClock{now: testNow}, zap.New(core))
	_, err := ex.Extract(loadFixture(t, "opus_one.html"), sourceURL)
	require.NoError(t, err)

	skipped := logs.FilterMessage("skipping rating item").All()
	require.Len(t, skipped, 2)
	require.EqualValues(t, 1, skipped[0].ContextMap()["index"])
	require.EqualValues(t, 4, skipped[1].ContextMap()["index"])
	require.Equal(t, sourceURL, skipped[0].ContextMap()["url"])
}

func TestExtractMinimalPageUsesDefaults(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>Mystery Red</h1></body></html>`
	data, err := newTestExtractor(t).Extract(html, sourceURL)
	require.NoError(t, err)

	require.Equal(t, "Mystery Red", data.Wine.Name().Value())
	require.Equal(t, testNow.Year(), data.Wine.Vintage().Value())
	require.Equal(t, UnknownRegion, data.Wine.Region())
	require.Equal(t, UnknownWinery, data.Wine.Winery())
	require.Equal(t, UnknownVariety, data.Wine.Variety())
	require.Empty(t, data.Ratings)
	require.Nil(t, data.Price)
}

func TestExtractVintageFromHeading(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>Penfolds Grange 1998 Shiraz</h1></body></html>`
	data, err := newTestExtractor(t).Extract(html, sourceURL)
	require.NoError(t, err)
	require.Equal(t, 1998, data.Wine.Vintage().Value())
}

func TestExtractMissingNameFails(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="wine-region">Napa Valley</div></body></html>`
	_, err := newTestExtractor(t).Extract(html, sourceURL)
	parseErr := requireParsingError(t, err)
	require.Contains(t, parseErr.Message, "wine name not found")
}

func TestExtractOutOfRangeVintageFails(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1 class="wine-name">Future Wine</h1><span class="wine-vintage">2099</span></body></html>`
	_, err := newTestExtractor(t).Extract(html, sourceURL)
	parseErr := requireParsingError(t, err)
	require.Contains(t, parseErr.Message, "vintage")
}

func TestExtractMissingPriceContainerIsNil(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>Opus One</h1><span class="average-price">$300</span></body></html>`
	data, err := newTestExtractor(t).Extract(html, sourceURL)
	require.NoError(t, err)
	require.Nil(t, data.Price)
}

func TestExtractMalformedPriceFailsWholePage(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h1>Opus One</h1>
		<span class="average-price">Call for price</span>
		<span class="price-currency">USD</span>
	</body></html>`
	_, err := newTestExtractor(t).Extract(html, sourceURL)
	parseErr := requireParsingError(t, err)
	require.Contains(t, parseErr.Message, "invalid price")
}

func TestExtractPriceFromMetaAttributes(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<meta itemprop="price" content="89.99">
		<meta itemprop="priceCurrency" content="EUR">
	</head><body><h1>Tignanello</h1><time class="price-date" datetime="2024-02-28T10:00:00Z">Feb 28</time></body></html>`
	data, err := newTestExtractor(t).Extract(html, sourceURL)
	require.NoError(t, err)
	require.NotNil(t, data.Price)
	require.InDelta(t, 89.99, data.Price.Average(), 0.0001)
	require.Equal(t, "EUR", data.Price.Currency())
	require.Nil(t, data.Price.PriceRange())
	require.True(t, data.Price.UpdatedAt().Equal(time.Date(2024, time.February, 28, 10, 0, 0, 0, time.UTC)))
}

func TestExtractUnparseablePriceDateDefaultsToNow(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h1>Opus One</h1>
		<span class="average-price">€45</span>
		<span class="price-currency">EUR</span>
		<span class="price-updated">last Tuesday</span>
	</body></html>`
	data, err := newTestExtractor(t).Extract(html, sourceURL)
	require.NoError(t, err)
	require.NotNil(t, data.Price)
	require.True(t, data.Price.UpdatedAt().Equal(testNow))
}

func TestExtractFirstCandidateWins(t *testing.T) {
	t.Parallel()

	selectors := DefaultSelectors()
	selectors.WineName = []string{".missing", ".secondary", ".primary"}
	ex := New(selectors, fakeClock{now: testNow}, nil)

	html := `<html><body><p class="primary">Primary</p><p class="secondary">Secondary</p></body></html>`
	data, err := ex.Extract(html, sourceURL)
	require.NoError(t, err)
	require.Equal(t, "Secondary", data.Wine.Name().Value())
}

func TestExtractSkipsEmptyCandidateMatches(t *testing.T) {
	t.Parallel()

	selectors := DefaultSelectors()
	selectors.WineName = []string{"h2", "h1"}
	ex := New(selectors, fakeClock{now: testNow}, nil)

	html := `<html><body><h2>   </h2><h1>Sassicaia</h1></body></html>`
	data, err := ex.Extract(html, sourceURL)
	require.NoError(t, err)
	require.Equal(t, "Sassicaia", data.Wine.Name().Value())
}

func TestExtractAllRatingsInvalidStillSucceeds(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1>Opus One</h1>
		<ul class="ratings-list">
			<li class="rating-item"><span class="rating-source">A</span><span class="rating-score">n/a</span></li>
			<li class="rating-item"><span class="rating-source">B</span><span class="rating-score">-</span></li>
		</ul></body></html>`
	data, err := newTestExtractor(t).Extract(html, sourceURL)
	require.NoError(t, err)
	require.Empty(t, data.Ratings)
}

func TestExtractEmptyDocumentFails(t *testing.T) {
	t.Parallel()

	_, err := newTestExtractor(t).Extract("", sourceURL)
	requireParsingError(t, err)
}
