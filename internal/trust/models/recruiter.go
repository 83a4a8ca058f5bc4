package models

import (
	"math"
	"time"

	id "recruiterrisk/pkg/domain"
)

// Recruiter is the aggregate root for a recruiter's reputation.
//
// Invariants:
//   - TrustScore, DomainScore and SentimentScore are always in [0,100]
//   - AverageRating is always in [0,5] and equals RatingSum/FeedbackCount
//   - SentimentScore equals round((SentimentSum/FeedbackCount + 100) / 2)
//   - IsVerified transitions false→true once and is never auto-reverted
//   - IsFlagged is set by policy evaluation and cleared only by an explicit
//     administrative unflag
//
// The running sums replace a rescan of all feedback rows on every write; the
// derived fields are recomputed from the sums inside ApplyFeedback so reads
// never observe stale aggregates. All mutations go through the store's
// Execute path, which serializes writers per recruiter.
type Recruiter struct {
	ID             id.RecruiterID `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Company        string         `json:"company"`
	LinkedURL      string         `json:"linkedUrl,omitempty"`
	CompanyWebsite string         `json:"companyWebsite,omitempty"`
	Position       string         `json:"position,omitempty"`

	DomainScore          int  `json:"domainScore"`
	VerifiedIdentityLink bool `json:"verifiedIdentityLink"`
	TrustScore           int  `json:"trustScore"`

	FeedbackCount  int     `json:"feedbackCount"`
	RatingSum      int     `json:"-"`
	SentimentSum   int     `json:"-"`
	AverageRating  float64 `json:"averageRating"`
	SentimentScore int     `json:"sentimentScore"`

	IsVerified     bool     `json:"isVerified"`
	IsFlagged      bool     `json:"isFlagged"`
	FlaggedReasons []string `json:"flaggedReasons,omitempty"`

	Verification VerificationDetail `json:"verificationDetail"`

	ProfileViews int `json:"profileViews"`

	// Version backs the optimistic conditional write in the postgres store.
	// The in-memory store serializes writers with a per-recruiter mutex and
	// ignores it.
	Version int `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VerificationDetail records the raw provider outcomes for audit and insight
// generation, plus when they were last refreshed.
type VerificationDetail struct {
	Email        EmailVerification  `json:"emailVerification"`
	Domain       DomainVerification `json:"domainVerification"`
	URLSafety    URLSafety          `json:"urlSafety"`
	LastVerified time.Time          `json:"lastVerified"`
}

// EmailVerification is the outcome of the email verification capability.
type EmailVerification struct {
	Verified     bool   `json:"verified"`
	Score        int    `json:"score"`
	Status       string `json:"status"`
	IsDisposable bool   `json:"isDisposable"`
}

// DomainVerification is the outcome of the company-domain lookup capability.
type DomainVerification struct {
	Verified bool         `json:"verified"`
	Score    int          `json:"score"`
	Company  *CompanyData `json:"companyData,omitempty"`
}

// CompanyData carries corroborating company signals when the domain lookup
// found a record.
type CompanyData struct {
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	Employees string `json:"employees,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// URLSafety is the outcome of the URL safety capability.
type URLSafety struct {
	Safe    bool     `json:"safe"`
	Score   int      `json:"score"`
	Threats []string `json:"threats,omitempty"`
}

// VerificationResult fuses the three provider outcomes.
type VerificationResult struct {
	DomainScore          int
	VerifiedIdentityLink bool
	Detail               VerificationDetail
}

// NewRecruiter creates the aggregate at first verification.
func NewRecruiter(recruiterID id.RecruiterID, name, email, company, linkedURL, website string, now time.Time) *Recruiter {
	return &Recruiter{
		ID:             recruiterID,
		Name:           name,
		Email:          email,
		Company:        company,
		LinkedURL:      linkedURL,
		CompanyWebsite: website,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ApplyVerification refreshes the verification-derived signals. Feedback
// derived fields are untouched; IsVerified never reverts.
func (r *Recruiter) ApplyVerification(result VerificationResult, trustScore int, now time.Time) {
	r.DomainScore = result.DomainScore
	r.VerifiedIdentityLink = result.VerifiedIdentityLink
	r.Verification = result.Detail
	r.Verification.LastVerified = now
	r.TrustScore = trustScore
	r.IsVerified = true
	r.UpdatedAt = now
}

// ApplyFeedback folds one new feedback into the running sums and recomputes
// the derived averages. Trust score and flags are applied separately because
// they depend on the calculator and policy.
func (r *Recruiter) ApplyFeedback(rating, sentiment int) {
	r.FeedbackCount++
	r.RatingSum += rating
	r.SentimentSum += sentiment
	r.AverageRating = float64(r.RatingSum) / float64(r.FeedbackCount)
	meanSentiment := float64(r.SentimentSum) / float64(r.FeedbackCount)
	r.SentimentScore = int(math.Round((meanSentiment + 100) / 2))
}

// ApplyScore records the recomputed trust score and the policy outcome.
// Flagging is monotonic here: an empty evaluation never clears an existing
// flag. Only SetFlag (administrative) clears.
func (r *Recruiter) ApplyScore(trustScore int, shouldFlag bool, reasons []string, now time.Time) {
	r.TrustScore = trustScore
	if shouldFlag {
		r.IsFlagged = true
		r.FlaggedReasons = reasons
	}
	r.UpdatedAt = now
}

// SetFlag is the explicit administrative flag/unflag. Unflagging clears the
// recorded reasons.
func (r *Recruiter) SetFlag(flagged bool, reasons []string, now time.Time) {
	r.IsFlagged = flagged
	if flagged {
		r.FlaggedReasons = reasons
	} else {
		r.FlaggedReasons = nil
	}
	r.UpdatedAt = now
}

// RecordProfileView increments the view counter. Kept explicit so persistence
// has no implicit side effects.
func (r *Recruiter) RecordProfileView() {
	r.ProfileViews++
}

// Clone returns a deep copy so store callers never share mutable state.
func (r *Recruiter) Clone() *Recruiter {
	clone := *r
	if r.FlaggedReasons != nil {
		clone.FlaggedReasons = append([]string(nil), r.FlaggedReasons...)
	}
	if r.Verification.URLSafety.Threats != nil {
		clone.Verification.URLSafety.Threats = append([]string(nil), r.Verification.URLSafety.Threats...)
	}
	if r.Verification.Domain.Company != nil {
		company := *r.Verification.Domain.Company
		clone.Verification.Domain.Company = &company
	}
	return &clone
}
