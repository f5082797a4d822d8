package wine

import "time"

// WineData is the transient result of parsing one page.
type WineData struct {
	Wine      Wine
	Ratings   []Rating
	Price     *Price
	SourceURL string
	CrawledAt time.Time
}

// RobertParkerRatings returns the ratings attributed to Robert Parker, in document order.
func (d WineData) RobertParkerRatings() []Rating {
	var out []Rating
	for _, r := range d.Ratings {
		if r.IsRobertParker() {
			out = append(out, r)
		}
	}
	return out
}

// BestScore returns the highest rating score and whether any rating exists.
func (d WineData) BestScore() (Score, bool) {
	if len(d.Ratings) == 0 {
		return Score{}, false
	}
	best := d.Ratings[0].score
	for _, r := range d.Ratings[1:] {
		if r.score.value > best.value {
			best = r.score
		}
	}
	return best, true
}
