// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct uuid-backed types so a CandidateID can never be passed
// where a RecruiterID is expected. Parsing enforces the invariant that IDs
// are valid, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "recruiterrisk/pkg/domain-errors"
)

type (
	// RecruiterID identifies a recruiter aggregate.
	RecruiterID uuid.UUID
	// CandidateID identifies the candidate submitting feedback.
	CandidateID uuid.UUID
	// FeedbackID identifies a single feedback record.
	FeedbackID uuid.UUID
)

func (id RecruiterID) String() string { return uuid.UUID(id).String() }
func (id CandidateID) String() string { return uuid.UUID(id).String() }
func (id FeedbackID) String() string  { return uuid.UUID(id).String() }

// Text (un)marshaling delegates to uuid.UUID so IDs travel as their
// canonical string form (encoding/json honors encoding.TextMarshaler);
// defined types do not inherit these methods.
func (id RecruiterID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id CandidateID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id FeedbackID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }

func (id *RecruiterID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CandidateID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *FeedbackID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }

// IsZero reports whether the ID is the nil UUID.
func (id RecruiterID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id CandidateID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id FeedbackID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }

// NewRecruiterID mints a fresh recruiter ID.
func NewRecruiterID() RecruiterID { return RecruiterID(uuid.New()) }

// NewCandidateID mints a fresh candidate ID.
func NewCandidateID() CandidateID { return CandidateID(uuid.New()) }

// NewFeedbackID mints a fresh feedback ID.
func NewFeedbackID() FeedbackID { return FeedbackID(uuid.New()) }

func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is required", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id must be a valid UUID", kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id must not be the nil UUID", kind)
	}
	return parsed, nil
}

// ParseRecruiterID parses and validates a recruiter ID from its string form.
func ParseRecruiterID(raw string) (RecruiterID, error) {
	parsed, err := parseUUID(raw, "recruiter")
	if err != nil {
		return RecruiterID{}, err
	}
	return RecruiterID(parsed), nil
}

// ParseCandidateID parses and validates a candidate ID from its string form.
func ParseCandidateID(raw string) (CandidateID, error) {
	parsed, err := parseUUID(raw, "candidate")
	if err != nil {
		return CandidateID{}, err
	}
	return CandidateID(parsed), nil
}

// ParseFeedbackID parses and validates a feedback ID from its string form.
func ParseFeedbackID(raw string) (FeedbackID, error) {
	parsed, err := parseUUID(raw, "feedback")
	if err != nil {
		return FeedbackID{}, err
	}
	return FeedbackID(parsed), nil
}
