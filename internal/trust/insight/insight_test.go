package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recruiterrisk/internal/trust/models"
)

func TestGenerate(t *testing.T) {
	t.Run("fresh unverified recruiter", func(t *testing.T) {
		recruiter := &models.Recruiter{TrustScore: 20}
		insights := Generate(recruiter)
		assert.Equal(t, []string{
			"Trust Level: Low Trust",
			"No reviews yet",
		}, insights)
	})

	t.Run("fully verified and highly rated", func(t *testing.T) {
		recruiter := &models.Recruiter{
			TrustScore:           85,
			CompanyWebsite:       "https://example.com",
			VerifiedIdentityLink: true,
			FeedbackCount:        7,
			AverageRating:        4.4,
			Verification: models.VerificationDetail{
				Email:     models.EmailVerification{Verified: true},
				Domain:    models.DomainVerification{Verified: true},
				URLSafety: models.URLSafety{Safe: true},
			},
		}
		insights := Generate(recruiter)
		assert.Equal(t, []string{
			"Trust Level: Highly Trusted",
			"Company domain verified",
			"Work email verified",
			"Company website passed safety checks",
			"LinkedIn profile verified",
			"7 candidate reviews",
			"Highly rated by candidates",
		}, insights)
	})

	t.Run("trust level line always first", func(t *testing.T) {
		recruiter := &models.Recruiter{TrustScore: 55, FeedbackCount: 2}
		insights := Generate(recruiter)
		assert.Equal(t, "Trust Level: Moderately Trusted", insights[0])
	})

	t.Run("review count silent between one and four", func(t *testing.T) {
		recruiter := &models.Recruiter{TrustScore: 50, FeedbackCount: 3}
		for _, line := range Generate(recruiter) {
			assert.NotContains(t, line, "reviews")
		}
	})

	t.Run("no safety line without a website", func(t *testing.T) {
		recruiter := &models.Recruiter{
			TrustScore:   50,
			Verification: models.VerificationDetail{URLSafety: models.URLSafety{Safe: true}},
		}
		for _, line := range Generate(recruiter) {
			assert.NotContains(t, line, "safety")
		}
	})

	t.Run("flagged recruiter warns last", func(t *testing.T) {
		recruiter := &models.Recruiter{
			TrustScore:    10,
			FeedbackCount: 6,
			IsFlagged:     true,
		}
		insights := Generate(recruiter)
		assert.Equal(t, "Flagged for review", insights[len(insights)-1])
	})
}
