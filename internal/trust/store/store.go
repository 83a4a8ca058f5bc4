// Package store persists recruiter aggregates and feedback records. Two
// implementations exist per store: an in-memory one that serializes writers
// with a per-recruiter mutex, and a postgres one that uses optimistic
// versioned writes. Service code depends only on the interfaces.
package store

import (
	"context"

	"recruiterrisk/internal/trust/models"
	id "recruiterrisk/pkg/domain"
)

// MutateFunc is applied to a recruiter inside the store's write path. The
// store guarantees no other writer touches the same recruiter between the
// load and the persisted result. Returning an error aborts the write.
type MutateFunc func(recruiter *models.Recruiter) error

// RecruiterStats backs the recruiter side of the dashboard.
type RecruiterStats struct {
	Total        int
	Verified     int
	Flagged      int
	AverageTrust float64
}

// RecruiterStore persists recruiter aggregates.
type RecruiterStore interface {
	// Create inserts a new recruiter. Returns sentinel.ErrConflict when one
	// already exists for the same email.
	Create(ctx context.Context, recruiter *models.Recruiter) error

	// FindByID returns sentinel.ErrNotFound when absent.
	FindByID(ctx context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error)

	// FindByEmail returns sentinel.ErrNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*models.Recruiter, error)

	// Execute atomically applies mutate to the recruiter and persists the
	// result. Writers for the same recruiter are serialized; writers for
	// different recruiters proceed in parallel. Returns the persisted state.
	Execute(ctx context.Context, recruiterID id.RecruiterID, mutate MutateFunc) (*models.Recruiter, error)

	// Search matches name, email or company case-insensitively, best trust
	// first.
	Search(ctx context.Context, query string, limit int) ([]*models.Recruiter, error)

	// TopByTrust returns the highest-scoring recruiters, up to limit.
	TopByTrust(ctx context.Context, limit int) ([]*models.Recruiter, error)

	// Stats aggregates over all recruiters.
	Stats(ctx context.Context) (RecruiterStats, error)
}

// FeedbackStats backs the feedback side of the dashboard.
type FeedbackStats struct {
	Total    int
	Reported int
}

// FeedbackStore persists feedback records. Records are append-only; only the
// recruiter-response fields may change after creation.
type FeedbackStore interface {
	// Create inserts a new feedback. Returns sentinel.ErrConflict when the
	// candidate already reviewed this recruiter.
	Create(ctx context.Context, feedback *models.Feedback) error

	// FindByID returns sentinel.ErrNotFound when absent.
	FindByID(ctx context.Context, feedbackID id.FeedbackID) (*models.Feedback, error)

	// ListByRecruiter pages a recruiter's feedback newest first. The second
	// return value is the total count across all pages.
	ListByRecruiter(ctx context.Context, recruiterID id.RecruiterID, limit, offset int) ([]*models.Feedback, int, error)

	// ListByCandidate returns all feedback a candidate has written, newest
	// first.
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Feedback, error)

	// UpdateResponse persists the recruiter-response fields of an existing
	// feedback. Returns sentinel.ErrNotFound when absent.
	UpdateResponse(ctx context.Context, feedback *models.Feedback) error

	// Delete removes a feedback. This backs the write-path rollback when the
	// aggregate fold fails after the record was created; it is not exposed as
	// an operation of its own. Returns sentinel.ErrNotFound when absent.
	Delete(ctx context.Context, feedbackID id.FeedbackID) error

	// Stats aggregates over all feedback.
	Stats(ctx context.Context) (FeedbackStats, error)
}
