// Package insight renders a recruiter aggregate into short human-readable
// explanation lines for profile pages.
package insight

import (
	"fmt"

	"recruiterrisk/internal/trust/models"
	"recruiterrisk/internal/trust/score"
)

// Generate produces the ordered explanation lines for a recruiter. Pure:
// the same aggregate always yields the same lines in the same order, with
// the trust level first and the review-flag warning last.
func Generate(recruiter *models.Recruiter) []string {
	insights := []string{
		fmt.Sprintf("Trust Level: %s", score.LevelFor(recruiter.TrustScore).Label),
	}

	if recruiter.Verification.Domain.Verified {
		insights = append(insights, "Company domain verified")
	}
	if recruiter.Verification.Email.Verified {
		insights = append(insights, "Work email verified")
	}
	if recruiter.Verification.URLSafety.Safe && recruiter.CompanyWebsite != "" {
		insights = append(insights, "Company website passed safety checks")
	}
	if recruiter.VerifiedIdentityLink {
		insights = append(insights, "LinkedIn profile verified")
	}

	switch {
	case recruiter.FeedbackCount == 0:
		insights = append(insights, "No reviews yet")
	case recruiter.FeedbackCount >= 5:
		insights = append(insights, fmt.Sprintf("%d candidate reviews", recruiter.FeedbackCount))
	}

	if recruiter.AverageRating >= 4 {
		insights = append(insights, "Highly rated by candidates")
	}

	if recruiter.IsFlagged {
		insights = append(insights, "Flagged for review")
	}

	return insights
}
