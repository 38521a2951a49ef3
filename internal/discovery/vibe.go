package discovery

import "strings"

const (
	vibeBase = 70
	vibeCap  = 99
)

var premiumMarkers = []string{"original", "premium", "oficial"}

// VibeScore fabricates a [0,100] market-viability score for a listing.
// Premium wording, a high ticket and a top-rated seller each add points.
func VibeScore(title string, price float64, seller string) int {
	score := vibeBase
	lower := strings.ToLower(title)
	for _, marker := range premiumMarkers {
		if strings.Contains(lower, marker) {
			score += 15
			break
		}
	}
	if price > 200 {
		score += 10
	}
	if strings.Contains(seller, "MercadoLíder") {
		score += 20
	}
	if score > vibeCap {
		score = vibeCap
	}
	return score
}
