// Package score holds the trust score formula and the trust level bands.
// Everything here is pure and total so the rules stay centralized and
// testable.
package score

import "math"

// Weighted contributions to the raw trust score. The terms sum to 120 before
// capping: the cap at 100 is an upper bound, not a normalization, so a
// recruiter does not need to max every signal to reach 100.
const (
	domainWeight    = 0.4
	identityBonus   = 20.0
	ratingWeight    = 30.0
	sentimentWeight = 30.0
)

// Calculate combines the fused domain score, the identity-link flag, the
// average rating and the normalized sentiment into a bounded trust score.
//
//	raw = domainScore*0.4 + (link ? 20 : 0) + (rating/5)*30 + (sentiment/100)*30
//	result = min(round(raw), 100)
func Calculate(domainScore int, verifiedIdentityLink bool, averageRating float64, sentimentScore int) int {
	raw := float64(domainScore) * domainWeight
	if verifiedIdentityLink {
		raw += identityBonus
	}
	raw += averageRating / 5 * ratingWeight
	raw += float64(sentimentScore) / 100 * sentimentWeight

	result := int(math.Round(raw))
	if result > 100 {
		return 100
	}
	if result < 0 {
		return 0
	}
	return result
}

// Level is the human-facing band a trust score falls into.
type Level struct {
	Level string `json:"level"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// LevelFor maps a trust score to its band.
func LevelFor(trustScore int) Level {
	switch {
	case trustScore >= 70:
		return Level{Level: "high", Color: "green", Label: "Highly Trusted"}
	case trustScore >= 40:
		return Level{Level: "medium", Color: "yellow", Label: "Moderately Trusted"}
	default:
		return Level{Level: "low", Color: "red", Label: "Low Trust"}
	}
}
