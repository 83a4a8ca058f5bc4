package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiterrisk/internal/trust/models"
	id "recruiterrisk/pkg/domain"
	"recruiterrisk/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// executeMaxRetries bounds the optimistic-write retry loop. Contention on a
// single recruiter is short-lived, so a small bound suffices.
const executeMaxRetries = 3

// PostgresRecruiterStore is the pgx-backed RecruiterStore. Writers are
// serialized per recruiter with a conditional versioned UPDATE instead of a
// lock: a concurrent writer makes the condition fail and the load-mutate-write
// cycle retries on fresh state.
type PostgresRecruiterStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRecruiterStore builds the store over an existing pool.
func NewPostgresRecruiterStore(pool *pgxpool.Pool) *PostgresRecruiterStore {
	return &PostgresRecruiterStore{pool: pool}
}

const recruiterColumns = `id, name, email, company, linked_url, company_website, position,
	domain_score, verified_identity_link, trust_score,
	feedback_count, rating_sum, sentiment_sum, average_rating, sentiment_score,
	is_verified, is_flagged, flagged_reasons, verification, profile_views,
	version, created_at, updated_at`

func (s *PostgresRecruiterStore) Create(ctx context.Context, recruiter *models.Recruiter) error {
	verification, err := json.Marshal(recruiter.Verification)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	reasons, err := json.Marshal(recruiter.FlaggedReasons)
	if err != nil {
		return fmt.Errorf("marshal flagged reasons: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO recruiters (`+recruiterColumns+`)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23)`,
		recruiter.ID.String(), recruiter.Name, recruiter.Email, recruiter.Company,
		recruiter.LinkedURL, recruiter.CompanyWebsite, recruiter.Position,
		recruiter.DomainScore, recruiter.VerifiedIdentityLink, recruiter.TrustScore,
		recruiter.FeedbackCount, recruiter.RatingSum, recruiter.SentimentSum,
		recruiter.AverageRating, recruiter.SentimentScore,
		recruiter.IsVerified, recruiter.IsFlagged, reasons, verification, recruiter.ProfileViews,
		recruiter.Version, recruiter.CreatedAt, recruiter.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresRecruiterStore) FindByID(ctx context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+recruiterColumns+` FROM recruiters WHERE id = $1`,
		recruiterID.String())
	return scanRecruiter(row)
}

func (s *PostgresRecruiterStore) FindByEmail(ctx context.Context, email string) (*models.Recruiter, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+recruiterColumns+` FROM recruiters WHERE email = lower($1)`,
		email)
	return scanRecruiter(row)
}

func (s *PostgresRecruiterStore) Execute(ctx context.Context, recruiterID id.RecruiterID, mutate MutateFunc) (*models.Recruiter, error) {
	for attempt := 0; attempt < executeMaxRetries; attempt++ {
		recruiter, err := s.FindByID(ctx, recruiterID)
		if err != nil {
			return nil, err
		}

		loadedVersion := recruiter.Version
		if err := mutate(recruiter); err != nil {
			return nil, err
		}
		recruiter.Version = loadedVersion + 1

		updated, err := s.update(ctx, recruiter, loadedVersion)
		if err != nil {
			return nil, err
		}
		if updated {
			return recruiter, nil
		}
		// Lost the race; reload and retry on fresh state.
	}
	return nil, sentinel.ErrVersionMismatch
}

// update writes the full aggregate conditionally on the version it was loaded
// at. Returns false when a concurrent writer got there first.
func (s *PostgresRecruiterStore) update(ctx context.Context, recruiter *models.Recruiter, loadedVersion int) (bool, error) {
	verification, err := json.Marshal(recruiter.Verification)
	if err != nil {
		return false, fmt.Errorf("marshal verification: %w", err)
	}
	reasons, err := json.Marshal(recruiter.FlaggedReasons)
	if err != nil {
		return false, fmt.Errorf("marshal flagged reasons: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE recruiters SET
			name = $2, company = $3, linked_url = $4, company_website = $5, position = $6,
			domain_score = $7, verified_identity_link = $8, trust_score = $9,
			feedback_count = $10, rating_sum = $11, sentiment_sum = $12,
			average_rating = $13, sentiment_score = $14,
			is_verified = $15, is_flagged = $16, flagged_reasons = $17,
			verification = $18, profile_views = $19,
			version = $20, updated_at = $21
		WHERE id = $1 AND version = $22`,
		recruiter.ID.String(),
		recruiter.Name, recruiter.Company, recruiter.LinkedURL, recruiter.CompanyWebsite, recruiter.Position,
		recruiter.DomainScore, recruiter.VerifiedIdentityLink, recruiter.TrustScore,
		recruiter.FeedbackCount, recruiter.RatingSum, recruiter.SentimentSum,
		recruiter.AverageRating, recruiter.SentimentScore,
		recruiter.IsVerified, recruiter.IsFlagged, reasons,
		verification, recruiter.ProfileViews,
		recruiter.Version, recruiter.UpdatedAt,
		loadedVersion,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresRecruiterStore) Search(ctx context.Context, query string, limit int) ([]*models.Recruiter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recruiterColumns+` FROM recruiters
		WHERE name ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%'
			OR company ILIKE '%' || $1 || '%'
		ORDER BY trust_score DESC, name ASC
		LIMIT $2`,
		query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecruiters(rows)
}

func (s *PostgresRecruiterStore) TopByTrust(ctx context.Context, limit int) ([]*models.Recruiter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recruiterColumns+` FROM recruiters
		ORDER BY trust_score DESC, name ASC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecruiters(rows)
}

func (s *PostgresRecruiterStore) Stats(ctx context.Context) (RecruiterStats, error) {
	var stats RecruiterStats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE is_verified),
			count(*) FILTER (WHERE is_flagged),
			coalesce(avg(trust_score), 0)
		FROM recruiters`).
		Scan(&stats.Total, &stats.Verified, &stats.Flagged, &stats.AverageTrust)
	return stats, err
}

func scanRecruiter(row pgx.Row) (*models.Recruiter, error) {
	var (
		recruiter    models.Recruiter
		rawID        string
		reasons      []byte
		verification []byte
	)
	err := row.Scan(
		&rawID, &recruiter.Name, &recruiter.Email, &recruiter.Company,
		&recruiter.LinkedURL, &recruiter.CompanyWebsite, &recruiter.Position,
		&recruiter.DomainScore, &recruiter.VerifiedIdentityLink, &recruiter.TrustScore,
		&recruiter.FeedbackCount, &recruiter.RatingSum, &recruiter.SentimentSum,
		&recruiter.AverageRating, &recruiter.SentimentScore,
		&recruiter.IsVerified, &recruiter.IsFlagged, &reasons, &verification, &recruiter.ProfileViews,
		&recruiter.Version, &recruiter.CreatedAt, &recruiter.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	recruiterID, err := id.ParseRecruiterID(rawID)
	if err != nil {
		return nil, err
	}
	recruiter.ID = recruiterID

	if err := json.Unmarshal(reasons, &recruiter.FlaggedReasons); err != nil {
		return nil, fmt.Errorf("unmarshal flagged reasons: %w", err)
	}
	if err := json.Unmarshal(verification, &recruiter.Verification); err != nil {
		return nil, fmt.Errorf("unmarshal verification: %w", err)
	}
	return &recruiter, nil
}

func scanRecruiters(rows pgx.Rows) ([]*models.Recruiter, error) {
	var recruiters []*models.Recruiter
	for rows.Next() {
		recruiter, err := scanRecruiter(rows)
		if err != nil {
			return nil, err
		}
		recruiters = append(recruiters, recruiter)
	}
	return recruiters, rows.Err()
}

// PostgresFeedbackStore is the pgx-backed FeedbackStore. The one-review-per
// candidate rule lives in a unique index on (candidate_id, recruiter_id).
type PostgresFeedbackStore struct {
	pool *pgxpool.Pool
}

// NewPostgresFeedbackStore builds the store over an existing pool.
func NewPostgresFeedbackStore(pool *pgxpool.Pool) *PostgresFeedbackStore {
	return &PostgresFeedbackStore{pool: pool}
}

const feedbackColumns = `id, candidate_id, recruiter_id, rating, comment, sentiment_score,
	tags, is_reported, report_reason, recruiter_response, responded_at, created_at`

func (s *PostgresFeedbackStore) Create(ctx context.Context, feedback *models.Feedback) error {
	tags, err := json.Marshal(feedback.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO feedback (`+feedbackColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		feedback.ID.String(), feedback.CandidateID.String(), feedback.RecruiterID.String(),
		feedback.Rating, feedback.Comment, feedback.SentimentScore,
		tags, feedback.IsReported, string(feedback.ReportReason),
		feedback.RecruiterResponse, feedback.RespondedAt, feedback.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresFeedbackStore) FindByID(ctx context.Context, feedbackID id.FeedbackID) (*models.Feedback, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`,
		feedbackID.String())
	return scanFeedback(row)
}

func (s *PostgresFeedbackStore) ListByRecruiter(ctx context.Context, recruiterID id.RecruiterID, limit, offset int) ([]*models.Feedback, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM feedback WHERE recruiter_id = $1`,
		recruiterID.String()).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+feedbackColumns+` FROM feedback
		WHERE recruiter_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		recruiterID.String(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanFeedbacks(rows)
	return items, total, err
}

func (s *PostgresFeedbackStore) ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Feedback, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+feedbackColumns+` FROM feedback
		WHERE candidate_id = $1
		ORDER BY created_at DESC, id DESC`,
		candidateID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeedbacks(rows)
}

func (s *PostgresFeedbackStore) UpdateResponse(ctx context.Context, feedback *models.Feedback) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE feedback SET recruiter_response = $2, responded_at = $3
		WHERE id = $1`,
		feedback.ID.String(), feedback.RecruiterResponse, feedback.RespondedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresFeedbackStore) Delete(ctx context.Context, feedbackID id.FeedbackID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM feedback WHERE id = $1`,
		feedbackID.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresFeedbackStore) Stats(ctx context.Context) (FeedbackStats, error) {
	var stats FeedbackStats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE is_reported)
		FROM feedback`).
		Scan(&stats.Total, &stats.Reported)
	return stats, err
}

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	var (
		feedback       models.Feedback
		rawID          string
		rawCandidateID string
		rawRecruiterID string
		tags           []byte
		reportReason   string
		respondedAt    *time.Time
	)
	err := row.Scan(
		&rawID, &rawCandidateID, &rawRecruiterID,
		&feedback.Rating, &feedback.Comment, &feedback.SentimentScore,
		&tags, &feedback.IsReported, &reportReason,
		&feedback.RecruiterResponse, &respondedAt, &feedback.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	feedbackID, err := id.ParseFeedbackID(rawID)
	if err != nil {
		return nil, err
	}
	candidateID, err := id.ParseCandidateID(rawCandidateID)
	if err != nil {
		return nil, err
	}
	recruiterID, err := id.ParseRecruiterID(rawRecruiterID)
	if err != nil {
		return nil, err
	}
	feedback.ID = feedbackID
	feedback.CandidateID = candidateID
	feedback.RecruiterID = recruiterID
	feedback.ReportReason = models.ReportReason(reportReason)
	feedback.RespondedAt = respondedAt

	if err := json.Unmarshal(tags, &feedback.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return &feedback, nil
}

func scanFeedbacks(rows pgx.Rows) ([]*models.Feedback, error) {
	var feedbacks []*models.Feedback
	for rows.Next() {
		feedback, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, feedback)
	}
	return feedbacks, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
