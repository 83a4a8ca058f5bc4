package models

import (
	"recruiterrisk/internal/trust/score"
	id "recruiterrisk/pkg/domain"
)

// RecruiterProfile is the read model for a recruiter page: the aggregate plus
// presentation fields derived from it.
type RecruiterProfile struct {
	Recruiter      *Recruiter  `json:"recruiter"`
	TrustLevel     score.Level `json:"trustLevel"`
	Insights       []string    `json:"insights"`
	RecentFeedback []*Feedback `json:"recentFeedback,omitempty"`
}

// AggregateSnapshot is the recruiter's post-write statistics returned from a
// feedback submission, so clients can render the effect without a second read.
type AggregateSnapshot struct {
	TrustScore     int      `json:"trustScore"`
	AverageRating  float64  `json:"averageRating"`
	SentimentScore int      `json:"sentimentScore"`
	FeedbackCount  int      `json:"feedbackCount"`
	IsFlagged      bool     `json:"isFlagged"`
	FlaggedReasons []string `json:"flaggedReasons,omitempty"`
}

// SubmitFeedbackResponse pairs the stored feedback with the recruiter's
// refreshed aggregates.
type SubmitFeedbackResponse struct {
	Feedback  *Feedback         `json:"feedback"`
	Recruiter AggregateSnapshot `json:"recruiter"`
}

// FeedbackPage is one page of a recruiter's feedback, newest first.
type FeedbackPage struct {
	Items   []*Feedback `json:"items"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"hasMore"`
}

// LeaderboardEntry is one row of the trust ranking.
type LeaderboardEntry struct {
	Rank       int            `json:"rank"`
	ID         id.RecruiterID `json:"id"`
	Name       string         `json:"name"`
	Company    string         `json:"company"`
	TrustScore int            `json:"trustScore"`
}

// DashboardStats summarizes the whole corpus for the admin dashboard.
type DashboardStats struct {
	TotalRecruiters   int     `json:"totalRecruiters"`
	VerifiedCount     int     `json:"verifiedCount"`
	FlaggedCount      int     `json:"flaggedCount"`
	TotalFeedback     int     `json:"totalFeedback"`
	ReportedFeedback  int     `json:"reportedFeedback"`
	AverageTrustScore float64 `json:"averageTrustScore"`
}
