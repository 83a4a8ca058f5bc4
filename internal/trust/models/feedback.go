package models

import (
	"time"

	id "recruiterrisk/pkg/domain"
)

// Tag is a closed-vocabulary label a candidate attaches to feedback.
type Tag string

const (
	TagResponsive   Tag = "responsive"
	TagProfessional Tag = "professional"
	TagGhosted      Tag = "ghosted"
	TagFake         Tag = "fake"
	TagHelpful      Tag = "helpful"
	TagSlow         Tag = "slow"
	TagTransparent  Tag = "transparent"
	TagMisleading   Tag = "misleading"
)

func (t Tag) IsValid() bool {
	switch t {
	case TagResponsive, TagProfessional, TagGhosted, TagFake,
		TagHelpful, TagSlow, TagTransparent, TagMisleading:
		return true
	}
	return false
}

// ReportReason classifies why a feedback doubles as a report.
type ReportReason string

const (
	ReportFakeRecruiter  ReportReason = "fake_recruiter"
	ReportGhosting       ReportReason = "ghosting"
	ReportMisleadingJob  ReportReason = "misleading_job"
	ReportScam           ReportReason = "scam"
	ReportUnprofessional ReportReason = "unprofessional"
	ReportOther          ReportReason = "other"
)

func (r ReportReason) IsValid() bool {
	switch r {
	case ReportFakeRecruiter, ReportGhosting, ReportMisleadingJob,
		ReportScam, ReportUnprofessional, ReportOther:
		return true
	}
	return false
}

// Feedback is one candidate's review of one recruiter.
//
// Invariants:
//   - at most one record per (CandidateID, RecruiterID) pair, enforced by the
//     store; a second submission is rejected, never merged
//   - Rating is in [1,5], Comment length in [10,1000] runes
//   - SentimentScore is the raw signed score of this comment, computed once
//     at creation and immutable
//   - records are append-only; only the response fields may change afterwards,
//     and only by the recruiter the feedback targets
type Feedback struct {
	ID          id.FeedbackID  `json:"id"`
	CandidateID id.CandidateID `json:"candidateId"`
	RecruiterID id.RecruiterID `json:"recruiterId"`

	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
	SentimentScore int    `json:"sentimentScore"`
	Tags           []Tag  `json:"tags,omitempty"`

	IsReported   bool         `json:"isReported"`
	ReportReason ReportReason `json:"reportReason,omitempty"`

	RecruiterResponse string     `json:"recruiterResponse,omitempty"`
	RespondedAt       *time.Time `json:"respondedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// SetResponse attaches the recruiter's response. Overwriting an earlier
// response is allowed; the timestamp always reflects the latest write.
func (f *Feedback) SetResponse(response string, now time.Time) {
	f.RecruiterResponse = response
	t := now
	f.RespondedAt = &t
}

// Clone returns a deep copy so store callers never share mutable state.
func (f *Feedback) Clone() *Feedback {
	clone := *f
	if f.Tags != nil {
		clone.Tags = append([]Tag(nil), f.Tags...)
	}
	if f.RespondedAt != nil {
		t := *f.RespondedAt
		clone.RespondedAt = &t
	}
	return &clone
}
