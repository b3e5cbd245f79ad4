package ingest

import "math"

// EngagementRate computes the percentage of interactions per impression,
// rounded to two decimals. Zero impressions fall back to a denominator of 1 so
// the division is always defined. The result is not clamped to [0,100]: totals
// above the impression count legitimately occur when one impression draws
// several interactions, and upstream analytics expect the raw figure.
func EngagementRate(likes, comments, shares, clicks, impressions int) float64 {
	total := likes + comments + shares + clicks
	denominator := impressions
	if denominator <= 0 {
		denominator = 1
	}
	rate := float64(total) / float64(denominator) * 100
	return math.Round(rate*100) / 100
}
