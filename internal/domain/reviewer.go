// Package domain contains the core data structures and domain logic for the application.
package domain

// Weights are the coefficients blending the three load signals into a
// single score.
type Weights struct {
	OpenPRs       float64 `json:"open_prs"`
	LinesPer100   float64 `json:"lines_per_100"`
	RecentReviews float64 `json:"recent_reviews"`
}

// ReviewerWorkload accumulates a single roster member's current load:
// how many open pull requests they are engaged on as a reviewer, and
// the total changed lines across those pull requests.
type ReviewerWorkload struct {
	OpenPRs    int `json:"open_prs"`
	TotalLines int `json:"total_lines"`
}

// ReviewerScore is the scored snapshot of one eligible candidate.
// Lower TotalScore means less busy.
type ReviewerScore struct {
	Username      string  `json:"username"`
	OpenPRs       int     `json:"open_prs"`
	TotalLines    int     `json:"total_lines"`
	RecentReviews int     `json:"recent_reviews"`
	TotalScore    float64 `json:"total_score"`
}

// Score blends a workload and a recent-review count into one scalar.
// All three terms are non-negative for non-negative inputs, so a
// member with no load scores exactly zero.
func Score(load ReviewerWorkload, recentReviews int, w Weights) float64 {
	return float64(load.OpenPRs)*w.OpenPRs +
		float64(load.TotalLines)/100.0*w.LinesPer100 +
		float64(recentReviews)*w.RecentReviews
}
