// Package policy decides when a recruiter is automatically flagged for
// manual review.
package policy

// Thresholds for the automatic flagging rules. Every rule requires a minimum
// number of feedbacks so a single bad review cannot flag a recruiter.
const (
	minFeedbackCount   = 3
	lowTrustThreshold  = 30
	lowRatingThreshold = 2.0
	lowSentimentLimit  = 20
)

// Reason strings surfaced to reviewers.
const (
	ReasonLowTrust     = "very low trust score with multiple feedbacks"
	ReasonPoorRatings  = "consistently poor ratings"
	ReasonNegativeTone = "highly negative sentiment in feedback"
)

// Evaluation is the outcome of a policy run. ShouldFlag is true iff Reasons
// is non-empty.
type Evaluation struct {
	ShouldFlag bool
	Reasons    []string
}

// Evaluate applies the flagging rules to aggregate statistics. Pure and
// total; with fewer than three feedbacks no rule fires regardless of scores.
func Evaluate(trustScore, feedbackCount int, averageRating float64, sentimentScore int) Evaluation {
	if feedbackCount < minFeedbackCount {
		return Evaluation{}
	}

	var reasons []string
	if trustScore < lowTrustThreshold {
		reasons = append(reasons, ReasonLowTrust)
	}
	if averageRating < lowRatingThreshold {
		reasons = append(reasons, ReasonPoorRatings)
	}
	if sentimentScore < lowSentimentLimit {
		reasons = append(reasons, ReasonNegativeTone)
	}

	return Evaluation{ShouldFlag: len(reasons) > 0, Reasons: reasons}
}
