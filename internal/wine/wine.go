package wine

// Wine is the aggregate root describing one bottling.
type Wine struct {
	name    WineName
	region  string
	winery  string
	variety string
	vintage Vintage
}

// NewWine validates the free-text fields and assembles a Wine.
func NewWine(name WineName, region, winery, variety string, vintage Vintage) (Wine, error) {
	if name.value == "" {
		return Wine{}, invalid("name", "must not be empty")
	}
	if vintage.value == 0 {
		return Wine{}, invalid("vintage", "must be set")
	}
	r, err := requiredText("region", region)
	if err != nil {
		return Wine{}, err
	}
	w, err := requiredText("winery", winery)
	if err != nil {
		return Wine{}, err
	}
	v, err := requiredText("variety", variety)
	if err != nil {
		return Wine{}, err
	}
	return Wine{name: name, region: r, winery: w, variety: v, vintage: vintage}, nil
}

// Name returns the wine name.
func (w Wine) Name() WineName { return w.name }

// Region returns the growing region.
func (w Wine) Region() string { return w.region }

// Winery returns the producer.
func (w Wine) Winery() string { return w.winery }

// Variety returns the grape variety or blend.
func (w Wine) Variety() string { return w.variety }

// Vintage returns the harvest year.
func (w Wine) Vintage() Vintage { return w.vintage }

// Matches reports whether term appears in the name, winery, or variety, ignoring case.
func (w Wine) Matches(term string) bool {
	if w.name.Contains(term) {
		return true
	}
	return containsFold(w.winery, term) || containsFold(w.variety, term)
}
