package wine

import "strings"

var robertParkerMarkers = []string{"parker", "rp", "robert parker"}

// Rating is one critic or publication score for a wine.
type Rating struct {
	source      string
	score       Score
	critic      *string
	reviewCount int
}

// NewRating validates source and reviewCount. A nil or blank critic means
// the rating is unattributed; Critic never returns an empty string.
func NewRating(source string, score Score, critic *string, reviewCount int) (Rating, error) {
	s, err := requiredText("source", source)
	if err != nil {
		return Rating{}, err
	}
	if reviewCount < 0 {
		return Rating{}, invalid("reviewCount", "must be >= 0, got %d", reviewCount)
	}
	var c *string
	if critic != nil {
		trimmed := strings.TrimSpace(*critic)
		if trimmed != "" {
			if _, err := requiredText("critic", trimmed); err != nil {
				return Rating{}, err
			}
			c = &trimmed
		}
	}
	return Rating{source: s, score: score, critic: c, reviewCount: reviewCount}, nil
}

// Source returns the publication or site that issued the score.
func (r Rating) Source() string { return r.source }

// Score returns the numeric score.
func (r Rating) Score() Score { return r.score }

// Critic returns the critic's name, or nil when unattributed.
func (r Rating) Critic() *string {
	if r.critic == nil {
		return nil
	}
	c := *r.critic
	return &c
}

// ReviewCount returns how many reviews back the score.
func (r Rating) ReviewCount() int { return r.reviewCount }

// IsRobertParker reports whether the source or critic points at Robert Parker / Wine Advocate.
func (r Rating) IsRobertParker() bool {
	for _, marker := range robertParkerMarkers {
		if containsFold(r.source, marker) {
			return true
		}
		if r.critic != nil && containsFold(*r.critic, marker) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
