package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiterrisk/internal/trust/models"
)

type stubEmailVerifier struct {
	result models.EmailVerification
	err    error
	delay  time.Duration
}

func (s *stubEmailVerifier) VerifyEmail(ctx context.Context, _ string) (models.EmailVerification, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return models.EmailVerification{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func TestHeuristicEmailVerifier(t *testing.T) {
	verifier := NewHeuristicEmailVerifier()
	ctx := context.Background()

	t.Run("work address", func(t *testing.T) {
		result, err := verifier.VerifyEmail(ctx, "jane@acme.io")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, EmailStatusValid, result.Status)
		assert.Equal(t, 85, result.Score)
	})

	t.Run("webmail", func(t *testing.T) {
		result, err := verifier.VerifyEmail(ctx, "jane@gmail.com")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, EmailStatusWebmail, result.Status)
		assert.Equal(t, 45, result.Score)
	})

	t.Run("disposable", func(t *testing.T) {
		result, err := verifier.VerifyEmail(ctx, "x@tempmail.com")
		require.NoError(t, err)
		assert.False(t, result.Verified)
		assert.True(t, result.IsDisposable)
		assert.Equal(t, 5, result.Score)
	})

	t.Run("malformed address", func(t *testing.T) {
		result, err := verifier.VerifyEmail(ctx, "not-an-email")
		require.NoError(t, err)
		assert.Equal(t, EmailStatusInvalid, result.Status)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("domain casing ignored", func(t *testing.T) {
		result, err := verifier.VerifyEmail(ctx, "x@TempMail.COM")
		require.NoError(t, err)
		assert.True(t, result.IsDisposable)
	})
}

func TestEmailStatusScore(t *testing.T) {
	assert.Equal(t, 90, EmailStatusScore(EmailStatusValid))
	assert.Equal(t, 60, EmailStatusScore(EmailStatusAcceptAll))
	assert.Equal(t, 40, EmailStatusScore(EmailStatusWebmail))
	assert.Equal(t, 5, EmailStatusScore(EmailStatusDisposable))
	assert.Equal(t, 0, EmailStatusScore(EmailStatusInvalid))
	assert.Equal(t, 50, EmailStatusScore("unknown"))
}

func TestHeuristicDomainVerifier(t *testing.T) {
	verifier := NewHeuristicDomainVerifier()
	ctx := context.Background()

	t.Run("trusted", func(t *testing.T) {
		result, err := verifier.VerifyDomain(ctx, "google.com")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, 95, result.Score)
		require.NotNil(t, result.Company)
		assert.Equal(t, "Google", result.Company.Name)
	})

	t.Run("suspicious", func(t *testing.T) {
		result, err := verifier.VerifyDomain(ctx, "temp-mail.com")
		require.NoError(t, err)
		assert.False(t, result.Verified)
		assert.Equal(t, 10, result.Score)
	})

	t.Run("unknown gets cautious pass", func(t *testing.T) {
		result, err := verifier.VerifyDomain(ctx, "smallshop.dev")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, 60, result.Score)
		assert.Nil(t, result.Company)
	})
}

func TestScoreCompanySignals(t *testing.T) {
	t.Run("record alone scores the base", func(t *testing.T) {
		assert.Equal(t, 50, ScoreCompanySignals(CompanySignals{Name: "Acme"}))
	})

	t.Run("each signal adds its increment", func(t *testing.T) {
		assert.Equal(t, 70, ScoreCompanySignals(CompanySignals{Employees: "51-200"}))
		assert.Equal(t, 65, ScoreCompanySignals(CompanySignals{LinkedInHandle: "acme"}))
		assert.Equal(t, 60, ScoreCompanySignals(CompanySignals{Technologies: []string{"go"}}))
		assert.Equal(t, 55, ScoreCompanySignals(CompanySignals{FoundedYear: 2011}))
	})

	t.Run("all signals cap at 100", func(t *testing.T) {
		score := ScoreCompanySignals(CompanySignals{
			Employees:      "1000+",
			LinkedInHandle: "acme",
			Technologies:   []string{"go", "postgres"},
			FoundedYear:    1999,
		})
		assert.Equal(t, 100, score)
	})
}

func TestDirectoryDomainVerifier(t *testing.T) {
	verifier := NewDirectoryDomainVerifier(map[string]CompanySignals{
		"acme.io": {
			Name:           "Acme",
			Domain:         "acme.io",
			Employees:      "51-200",
			LinkedInHandle: "acme",
		},
	})

	t.Run("known record scores its signals", func(t *testing.T) {
		result, err := verifier.VerifyDomain(context.Background(), "Acme.IO")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, 85, result.Score)
		require.NotNil(t, result.Company)
		assert.Equal(t, "51-200", result.Company.Employees)
	})

	t.Run("missing record falls back to cautious pass", func(t *testing.T) {
		result, err := verifier.VerifyDomain(context.Background(), "other.dev")
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, 60, result.Score)
	})
}

func TestHeuristicURLChecker(t *testing.T) {
	checker := NewHeuristicURLChecker()
	ctx := context.Background()

	t.Run("clean url", func(t *testing.T) {
		result, err := checker.CheckURL(ctx, "https://careers.acme.io")
		require.NoError(t, err)
		assert.True(t, result.Safe)
		assert.Equal(t, 100, result.Score)
		assert.Empty(t, result.Threats)
	})

	t.Run("scam marker", func(t *testing.T) {
		result, err := checker.CheckURL(ctx, "https://jobs-scam.example.com")
		require.NoError(t, err)
		assert.False(t, result.Safe)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, []string{ThreatSocialEngineering}, result.Threats)
	})

	t.Run("malware marker", func(t *testing.T) {
		result, err := checker.CheckURL(ctx, "https://free-malware-downloads.example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{ThreatMalware}, result.Threats)
	})
}

func TestAggregatorVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("fuses email and domain scores", func(t *testing.T) {
		aggregator := New()
		result := aggregator.Verify(ctx, Identity{
			Email:          "jane@google.com",
			CompanyDomain:  "google.com",
			LinkedURL:      "https://www.linkedin.com/in/jane",
			CompanyWebsite: "https://careers.google.com",
		})

		// Work email at google.com classifies as valid (85); trusted domain
		// scores 95; fused score rounds their average.
		assert.Equal(t, 90, result.DomainScore)
		assert.True(t, result.VerifiedIdentityLink)
		assert.True(t, result.Detail.URLSafety.Safe)
		assert.Equal(t, 100, result.Detail.URLSafety.Score)
	})

	t.Run("missing website is treated as safe", func(t *testing.T) {
		aggregator := New()
		result := aggregator.Verify(ctx, Identity{
			Email:         "jane@acme.io",
			CompanyDomain: "acme.io",
		})
		assert.True(t, result.Detail.URLSafety.Safe)
		assert.Equal(t, 100, result.Detail.URLSafety.Score)
	})

	t.Run("no identity link without professional profile", func(t *testing.T) {
		aggregator := New()
		result := aggregator.Verify(ctx, Identity{
			Email:         "jane@acme.io",
			CompanyDomain: "acme.io",
			LinkedURL:     "https://twitter.com/jane",
		})
		assert.False(t, result.VerifiedIdentityLink)
	})

	t.Run("erroring provider falls back to heuristic", func(t *testing.T) {
		aggregator := New(WithEmailVerifier(&stubEmailVerifier{
			err: errors.New("upstream 503"),
		}))
		result := aggregator.Verify(ctx, Identity{
			Email:         "jane@acme.io",
			CompanyDomain: "acme.io",
		})
		// Heuristic fallback classifies the work address as valid.
		assert.Equal(t, EmailStatusValid, result.Detail.Email.Status)
		assert.Equal(t, 85, result.Detail.Email.Score)
	})

	t.Run("slow provider falls back after timeout", func(t *testing.T) {
		aggregator := New(
			WithEmailVerifier(&stubEmailVerifier{
				result: models.EmailVerification{Verified: true, Status: EmailStatusValid, Score: 90},
				delay:  time.Second,
			}),
			WithProviderTimeout(20*time.Millisecond),
		)
		start := time.Now()
		result := aggregator.Verify(ctx, Identity{
			Email:         "jane@acme.io",
			CompanyDomain: "acme.io",
		})
		assert.Less(t, time.Since(start), 500*time.Millisecond)
		assert.Equal(t, 85, result.Detail.Email.Score)
	})

	t.Run("live provider result is used when healthy", func(t *testing.T) {
		aggregator := New(WithEmailVerifier(&stubEmailVerifier{
			result: models.EmailVerification{Verified: true, Status: EmailStatusAcceptAll, Score: 60},
		}))
		result := aggregator.Verify(ctx, Identity{
			Email:         "jane@acme.io",
			CompanyDomain: "acme.io",
		})
		assert.Equal(t, EmailStatusAcceptAll, result.Detail.Email.Status)
		assert.Equal(t, 60, result.Detail.Email.Score)
	})
}
