package models

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	dErrors "recruiterrisk/pkg/domain-errors"
)

const (
	commentMinLen  = 10
	commentMaxLen  = 1000
	responseMinLen = 10
	responseMaxLen = 500
)

// SubmitFeedbackRequest is the payload for a new feedback submission.
type SubmitFeedbackRequest struct {
	RecruiterID  string   `json:"recruiterId"`
	Rating       int      `json:"rating"`
	Comment      string   `json:"comment"`
	Tags         []string `json:"tags,omitempty"`
	ReportReason string   `json:"reportReason,omitempty"`
}

func (r *SubmitFeedbackRequest) Normalize() {
	if r == nil {
		return
	}
	r.RecruiterID = strings.TrimSpace(r.RecruiterID)
	r.Comment = strings.TrimSpace(r.Comment)
	for i, tag := range r.Tags {
		r.Tags[i] = strings.TrimSpace(strings.ToLower(tag))
	}
	r.ReportReason = strings.TrimSpace(strings.ToLower(r.ReportReason))
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *SubmitFeedbackRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if utf8.RuneCountInString(r.Comment) > commentMaxLen {
		return dErrors.New(dErrors.CodeValidation, "comment cannot exceed 1000 characters")
	}

	if r.RecruiterID == "" {
		return dErrors.New(dErrors.CodeValidation, "recruiterId is required")
	}
	if r.Comment == "" {
		return dErrors.New(dErrors.CodeValidation, "comment is required")
	}

	if utf8.RuneCountInString(r.Comment) < commentMinLen {
		return dErrors.New(dErrors.CodeValidation, "comment must be at least 10 characters")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return dErrors.New(dErrors.CodeValidation, "rating must be between 1 and 5")
	}

	seen := make(map[string]bool, len(r.Tags))
	for _, tag := range r.Tags {
		if !Tag(tag).IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown tag %q", tag)
		}
		if seen[tag] {
			return dErrors.Newf(dErrors.CodeValidation, "duplicate tag %q", tag)
		}
		seen[tag] = true
	}
	if r.ReportReason != "" && !ReportReason(r.ReportReason).IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown report reason %q", r.ReportReason)
	}

	return nil
}

// TagValues converts the validated raw tags into their typed form.
func (r *SubmitFeedbackRequest) TagValues() []Tag {
	if len(r.Tags) == 0 {
		return nil
	}
	tags := make([]Tag, len(r.Tags))
	for i, tag := range r.Tags {
		tags[i] = Tag(tag)
	}
	return tags
}

// VerifyRecruiterRequest is the payload for a verification run.
type VerifyRecruiterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Company        string `json:"company"`
	LinkedURL      string `json:"linkedUrl,omitempty"`
	CompanyWebsite string `json:"companyWebsite,omitempty"`
}

func (r *VerifyRecruiterRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Company = strings.TrimSpace(r.Company)
	r.LinkedURL = strings.TrimSpace(r.LinkedURL)
	r.CompanyWebsite = strings.TrimSpace(r.CompanyWebsite)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *VerifyRecruiterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be 128 characters or less")
	}
	if len(r.Company) > 128 {
		return dErrors.New(dErrors.CodeValidation, "company must be 128 characters or less")
	}

	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if r.Company == "" {
		return dErrors.New(dErrors.CodeValidation, "company is required")
	}

	if _, err := mail.ParseAddress(r.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	if r.LinkedURL != "" {
		if parsed, err := url.Parse(r.LinkedURL); err != nil || parsed.Host == "" {
			return dErrors.New(dErrors.CodeValidation, "linkedUrl must be a valid URL")
		}
	}
	if r.CompanyWebsite != "" {
		if parsed, err := url.Parse(r.CompanyWebsite); err != nil || parsed.Host == "" {
			return dErrors.New(dErrors.CodeValidation, "companyWebsite must be a valid URL")
		}
	}

	return nil
}

// EmailDomain returns the domain part of the (already validated) email.
func (r *VerifyRecruiterRequest) EmailDomain() string {
	if at := strings.LastIndex(r.Email, "@"); at >= 0 {
		return r.Email[at+1:]
	}
	return ""
}

// RespondToFeedbackRequest is the recruiter's response payload.
type RespondToFeedbackRequest struct {
	Response string `json:"response"`
}

func (r *RespondToFeedbackRequest) Normalize() {
	if r == nil {
		return
	}
	r.Response = strings.TrimSpace(r.Response)
}

func (r *RespondToFeedbackRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if utf8.RuneCountInString(r.Response) > responseMaxLen {
		return dErrors.New(dErrors.CodeValidation, "response cannot exceed 500 characters")
	}
	if r.Response == "" {
		return dErrors.New(dErrors.CodeValidation, "response is required")
	}
	if utf8.RuneCountInString(r.Response) < responseMinLen {
		return dErrors.New(dErrors.CodeValidation, "response must be at least 10 characters")
	}
	return nil
}

// SetFlagRequest is the administrative flag/unflag payload.
type SetFlagRequest struct {
	Flagged bool     `json:"isFlagged"`
	Reasons []string `json:"reasons,omitempty"`
}

func (r *SetFlagRequest) Normalize() {
	if r == nil {
		return
	}
	for i, reason := range r.Reasons {
		r.Reasons[i] = strings.TrimSpace(reason)
	}
}

func (r *SetFlagRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	for _, reason := range r.Reasons {
		if reason == "" {
			return dErrors.New(dErrors.CodeValidation, "reasons must not contain empty entries")
		}
		if len(reason) > 200 {
			return dErrors.New(dErrors.CodeValidation, "reasons must be 200 characters or less")
		}
	}
	return nil
}
