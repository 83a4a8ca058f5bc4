// Package service coordinates verification runs and feedback submissions
// against the recruiter aggregate. All writes to one recruiter flow through
// the store's Execute path, which serializes them; everything derived (trust
// score, flags, leaderboard position, audit trail) is recomputed inside that
// path so readers never observe a half-applied update.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"recruiterrisk/internal/trust/audit"
	"recruiterrisk/internal/trust/insight"
	"recruiterrisk/internal/trust/leaderboard"
	"recruiterrisk/internal/trust/metrics"
	"recruiterrisk/internal/trust/models"
	"recruiterrisk/internal/trust/policy"
	"recruiterrisk/internal/trust/score"
	"recruiterrisk/internal/trust/sentiment"
	"recruiterrisk/internal/trust/store"
	"recruiterrisk/internal/trust/verify"
	id "recruiterrisk/pkg/domain"
	dErrors "recruiterrisk/pkg/domain-errors"
	"recruiterrisk/pkg/platform/sentinel"
	"recruiterrisk/pkg/requestcontext"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// neutralSentiment feeds the trust formula before any feedback exists.
const neutralSentiment = 50

// AuditPublisher is the slice of the audit publisher the service needs.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

type nopAudit struct{}

func (nopAudit) Publish(context.Context, audit.Event) {}

// Service is the coordinator for all trust operations.
type Service struct {
	recruiters store.RecruiterStore
	feedback   store.FeedbackStore
	verifier   *verify.Aggregator
	sentiment  *sentiment.Scorer
	ranker     leaderboard.Ranker
	audit      AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics

	recentFeedbackLimit int
}

// Option configures the service.
type Option func(*Service)

// WithVerifier replaces the default heuristic-only verification aggregator.
func WithVerifier(verifier *verify.Aggregator) Option {
	return func(s *Service) { s.verifier = verifier }
}

// WithRanker replaces the default in-memory leaderboard.
func WithRanker(ranker leaderboard.Ranker) Option {
	return func(s *Service) { s.ranker = ranker }
}

// WithAudit attaches an audit publisher.
func WithAudit(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRecentFeedbackLimit bounds the feedback list on the profile read.
func WithRecentFeedbackLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.recentFeedbackLimit = limit
		}
	}
}

// New builds a service over the given stores.
func New(recruiters store.RecruiterStore, feedback store.FeedbackStore, opts ...Option) *Service {
	s := &Service{
		recruiters:          recruiters,
		feedback:            feedback,
		verifier:            verify.New(),
		sentiment:           sentiment.New(),
		ranker:              leaderboard.NewMemoryRanker(),
		audit:               nopAudit{},
		logger:              slog.Default(),
		recentFeedbackLimit: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyRecruiter runs the verification fan-out and creates or refreshes the
// recruiter aggregate. A recruiter already known by email is re-verified:
// the domain signals and verification detail are replaced, feedback-derived
// fields stay untouched, and the trust score is recomputed over both.
func (s *Service) VerifyRecruiter(ctx context.Context, req *models.VerifyRecruiterRequest) (*models.Recruiter, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.VerificationRequests.Inc()
	}

	result := s.verifier.Verify(ctx, verify.Identity{
		Email:          req.Email,
		CompanyDomain:  req.EmailDomain(),
		LinkedURL:      req.LinkedURL,
		CompanyWebsite: req.CompanyWebsite,
	})
	now := requestcontext.Now(ctx).UTC()

	existing, err := s.recruiters.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return s.reverify(ctx, existing.ID, req, result, now)
	case errors.Is(err, sentinel.ErrNotFound):
		return s.createVerified(ctx, req, result, now)
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up recruiter")
	}
}

func (s *Service) createVerified(ctx context.Context, req *models.VerifyRecruiterRequest, result models.VerificationResult, now time.Time) (*models.Recruiter, error) {
	recruiter := models.NewRecruiter(id.NewRecruiterID(), req.Name, req.Email, req.Company, req.LinkedURL, req.CompanyWebsite, now)
	trust := score.Calculate(result.DomainScore, result.VerifiedIdentityLink, 0, neutralSentiment)
	recruiter.ApplyVerification(result, trust, now)

	if err := s.recruiters.Create(ctx, recruiter); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "recruiter already exists for this email")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create recruiter")
	}

	s.syncLeaderboard(ctx, recruiter)
	s.audit.Publish(ctx, audit.Event{
		Type:        audit.EventRecruiterVerified,
		RecruiterID: recruiter.ID,
		TrustScore:  recruiter.TrustScore,
		OccurredAt:  now,
	})
	s.logger.InfoContext(ctx, "recruiter verified",
		"recruiter_id", recruiter.ID.String(),
		"trust_score", recruiter.TrustScore,
		"domain_score", recruiter.DomainScore,
	)
	return recruiter, nil
}

func (s *Service) reverify(ctx context.Context, recruiterID id.RecruiterID, req *models.VerifyRecruiterRequest, result models.VerificationResult, now time.Time) (*models.Recruiter, error) {
	updated, err := s.recruiters.Execute(ctx, recruiterID, func(r *models.Recruiter) error {
		r.Name = req.Name
		r.Company = req.Company
		r.LinkedURL = req.LinkedURL
		r.CompanyWebsite = req.CompanyWebsite

		rating, sentimentScore := feedbackSignals(r)
		trust := score.Calculate(result.DomainScore, result.VerifiedIdentityLink, rating, sentimentScore)
		r.ApplyVerification(result, trust, now)

		eval := policy.Evaluate(trust, r.FeedbackCount, r.AverageRating, r.SentimentScore)
		r.ApplyScore(trust, eval.ShouldFlag, eval.Reasons, now)
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "recruiter")
	}

	s.syncLeaderboard(ctx, updated)
	s.audit.Publish(ctx, audit.Event{
		Type:        audit.EventRecruiterVerified,
		RecruiterID: updated.ID,
		TrustScore:  updated.TrustScore,
		OccurredAt:  now,
	})
	s.logger.InfoContext(ctx, "recruiter re-verified",
		"recruiter_id", updated.ID.String(),
		"trust_score", updated.TrustScore,
	)
	return updated, nil
}

// feedbackSignals returns the rating and sentiment inputs for the trust
// formula. Before any feedback exists the rating term contributes nothing and
// sentiment sits at the neutral midpoint.
func feedbackSignals(r *models.Recruiter) (float64, int) {
	if r.FeedbackCount == 0 {
		return 0, neutralSentiment
	}
	return r.AverageRating, r.SentimentScore
}

// SubmitFeedback validates and stores one feedback, then folds it into the
// recruiter's aggregates inside the serialized write path. The duplicate
// check and the aggregate update are a single logical operation: a rejected
// duplicate mutates nothing.
func (s *Service) SubmitFeedback(ctx context.Context, req *models.SubmitFeedbackRequest) (*models.SubmitFeedbackResponse, error) {
	candidateID := requestcontext.CandidateID(ctx)
	if candidateID.IsZero() {
		return nil, dErrors.New(dErrors.CodeForbidden, "candidate identity required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		s.rejectFeedback("validation")
		return nil, err
	}
	recruiterID, err := id.ParseRecruiterID(req.RecruiterID)
	if err != nil {
		s.rejectFeedback("validation")
		return nil, err
	}
	if _, err := s.recruiters.FindByID(ctx, recruiterID); err != nil {
		s.rejectFeedback("recruiter_not_found")
		return nil, s.translate(err, "recruiter")
	}

	now := requestcontext.Now(ctx).UTC()
	sentimentScore := s.sentiment.Score(req.Comment)

	feedback := &models.Feedback{
		ID:             id.NewFeedbackID(),
		CandidateID:    candidateID,
		RecruiterID:    recruiterID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		SentimentScore: sentimentScore,
		Tags:           req.TagValues(),
		IsReported:     req.ReportReason != "",
		ReportReason:   models.ReportReason(req.ReportReason),
		CreatedAt:      now,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.rejectFeedback("duplicate")
			return nil, dErrors.New(dErrors.CodeConflict, "you have already reviewed this recruiter")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store feedback")
	}

	var newlyFlagged bool
	var flagReasons []string
	updated, err := s.recruiters.Execute(ctx, recruiterID, func(r *models.Recruiter) error {
		wasFlagged := r.IsFlagged

		r.ApplyFeedback(req.Rating, sentimentScore)
		trust := score.Calculate(r.DomainScore, r.VerifiedIdentityLink, r.AverageRating, r.SentimentScore)
		eval := policy.Evaluate(trust, r.FeedbackCount, r.AverageRating, r.SentimentScore)
		r.ApplyScore(trust, eval.ShouldFlag, eval.Reasons, now)

		newlyFlagged = !wasFlagged && r.IsFlagged
		flagReasons = eval.Reasons
		return nil
	})
	if err != nil {
		s.rollbackFeedback(ctx, feedback)
		return nil, s.translate(err, "recruiter")
	}

	if s.metrics != nil {
		s.metrics.FeedbackSubmitted.Inc()
		if newlyFlagged {
			for _, reason := range flagReasons {
				s.metrics.FlagsRaised.WithLabelValues(ruleLabel(reason)).Inc()
			}
		}
	}
	s.syncLeaderboard(ctx, updated)
	s.audit.Publish(ctx, audit.Event{
		Type:        audit.EventFeedbackSubmitted,
		RecruiterID: recruiterID,
		CandidateID: candidateID,
		FeedbackID:  feedback.ID,
		TrustScore:  updated.TrustScore,
		OccurredAt:  now,
	})
	if newlyFlagged {
		s.audit.Publish(ctx, audit.Event{
			Type:        audit.EventRecruiterFlagged,
			RecruiterID: recruiterID,
			TrustScore:  updated.TrustScore,
			Reasons:     flagReasons,
			OccurredAt:  now,
		})
		s.logger.WarnContext(ctx, "recruiter flagged for review",
			"recruiter_id", recruiterID.String(),
			"reasons", flagReasons,
		)
	}
	s.logger.InfoContext(ctx, "feedback submitted",
		"recruiter_id", recruiterID.String(),
		"feedback_id", feedback.ID.String(),
		"rating", req.Rating,
		"trust_score", updated.TrustScore,
	)

	return &models.SubmitFeedbackResponse{
		Feedback: feedback,
		Recruiter: models.AggregateSnapshot{
			TrustScore:     updated.TrustScore,
			AverageRating:  updated.AverageRating,
			SentimentScore: updated.SentimentScore,
			FeedbackCount:  updated.FeedbackCount,
			IsFlagged:      updated.IsFlagged,
			FlaggedReasons: updated.FlaggedReasons,
		},
	}, nil
}

// GetRecruiter returns the profile read model. The view counter increment is
// the one mutation on this path and goes through the serialized write.
func (s *Service) GetRecruiter(ctx context.Context, rawID string) (*models.RecruiterProfile, error) {
	recruiterID, err := id.ParseRecruiterID(rawID)
	if err != nil {
		return nil, err
	}

	recruiter, err := s.recruiters.Execute(ctx, recruiterID, func(r *models.Recruiter) error {
		r.RecordProfileView()
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "recruiter")
	}
	if s.metrics != nil {
		s.metrics.ProfileViews.Inc()
	}

	recent, _, err := s.feedback.ListByRecruiter(ctx, recruiterID, s.recentFeedbackLimit, 0)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list recent feedback")
	}

	return &models.RecruiterProfile{
		Recruiter:      recruiter,
		TrustLevel:     score.LevelFor(recruiter.TrustScore),
		Insights:       insight.Generate(recruiter),
		RecentFeedback: recent,
	}, nil
}

// ListFeedback pages a recruiter's feedback newest first.
func (s *Service) ListFeedback(ctx context.Context, rawRecruiterID string, limit, offset int) (*models.FeedbackPage, error) {
	recruiterID, err := id.ParseRecruiterID(rawRecruiterID)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, defaultListLimit, maxListLimit)
	if offset < 0 {
		offset = 0
	}

	if _, err := s.recruiters.FindByID(ctx, recruiterID); err != nil {
		return nil, s.translate(err, "recruiter")
	}

	items, total, err := s.feedback.ListByRecruiter(ctx, recruiterID, limit, offset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list feedback")
	}
	return &models.FeedbackPage{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+len(items) < total,
	}, nil
}

// RespondToFeedback attaches the recruiter's response to one feedback. The
// caller's gateway-asserted recruiter identity must be the recruiter the
// feedback targets; overwriting an earlier response is allowed.
func (s *Service) RespondToFeedback(ctx context.Context, rawRecruiterID, rawFeedbackID string, req *models.RespondToFeedbackRequest) (*models.Feedback, error) {
	recruiterID, err := id.ParseRecruiterID(rawRecruiterID)
	if err != nil {
		return nil, err
	}
	feedbackID, err := id.ParseFeedbackID(rawFeedbackID)
	if err != nil {
		return nil, err
	}
	callerID := requestcontext.RecruiterID(ctx)
	if callerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeForbidden, "recruiter identity required")
	}
	if callerID != recruiterID {
		return nil, dErrors.New(dErrors.CodeForbidden, "you may only respond to your own feedback")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	feedback, err := s.feedback.FindByID(ctx, feedbackID)
	if err != nil {
		return nil, s.translate(err, "feedback")
	}
	if feedback.RecruiterID != recruiterID {
		return nil, dErrors.New(dErrors.CodeNotFound, "feedback not found for this recruiter")
	}

	now := requestcontext.Now(ctx).UTC()
	feedback.SetResponse(req.Response, now)
	if err := s.feedback.UpdateResponse(ctx, feedback); err != nil {
		return nil, s.translate(err, "feedback")
	}

	s.audit.Publish(ctx, audit.Event{
		Type:        audit.EventFeedbackResponded,
		RecruiterID: recruiterID,
		FeedbackID:  feedbackID,
		OccurredAt:  now,
	})
	return feedback, nil
}

// ListMyFeedback returns everything the authenticated candidate has written.
func (s *Service) ListMyFeedback(ctx context.Context) ([]*models.Feedback, error) {
	candidateID := requestcontext.CandidateID(ctx)
	if candidateID.IsZero() {
		return nil, dErrors.New(dErrors.CodeForbidden, "candidate identity required")
	}
	items, err := s.feedback.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list feedback")
	}
	return items, nil
}

// SetFlag is the administrative flag/unflag. This is the only path that
// clears a flag; policy evaluation never does.
func (s *Service) SetFlag(ctx context.Context, rawID string, req *models.SetFlagRequest) (*models.Recruiter, error) {
	if !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "administrative access required")
	}
	recruiterID, err := id.ParseRecruiterID(rawID)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx).UTC()
	updated, err := s.recruiters.Execute(ctx, recruiterID, func(r *models.Recruiter) error {
		r.SetFlag(req.Flagged, req.Reasons, now)
		return nil
	})
	if err != nil {
		return nil, s.translate(err, "recruiter")
	}

	eventType := audit.EventRecruiterUnflagged
	if req.Flagged {
		eventType = audit.EventRecruiterFlagged
	}
	s.syncLeaderboard(ctx, updated)
	s.audit.Publish(ctx, audit.Event{
		Type:        eventType,
		RecruiterID: recruiterID,
		TrustScore:  updated.TrustScore,
		Reasons:     updated.FlaggedReasons,
		OccurredAt:  now,
	})
	s.logger.InfoContext(ctx, "recruiter flag updated",
		"recruiter_id", recruiterID.String(),
		"flagged", req.Flagged,
	)
	return updated, nil
}

// Leaderboard returns the top recruiters by trust score. Entries whose
// aggregate has since disappeared are skipped.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	limit = clampLimit(limit, defaultLeaderboardLimit, maxLeaderboardLimit)

	ranked, err := s.ranker.Top(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "read leaderboard")
	}

	entries := make([]models.LeaderboardEntry, 0, len(ranked))
	for _, entry := range ranked {
		recruiter, err := s.recruiters.FindByID(ctx, entry.RecruiterID)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve leaderboard entry")
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:       len(entries) + 1,
			ID:         recruiter.ID,
			Name:       recruiter.Name,
			Company:    recruiter.Company,
			TrustScore: entry.TrustScore,
		})
	}
	return entries, nil
}

// Search matches recruiters by name, email or company, best trust first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*models.Recruiter, error) {
	if query == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "query is required")
	}
	limit = clampLimit(limit, defaultListLimit, maxListLimit)

	results, err := s.recruiters.Search(ctx, query, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search recruiters")
	}
	return results, nil
}

// Dashboard aggregates corpus-wide statistics. Administrative.
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	if !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "administrative access required")
	}

	recruiterStats, err := s.recruiters.Stats(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "recruiter stats")
	}
	feedbackStats, err := s.feedback.Stats(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "feedback stats")
	}

	return &models.DashboardStats{
		TotalRecruiters:   recruiterStats.Total,
		VerifiedCount:     recruiterStats.Verified,
		FlaggedCount:      recruiterStats.Flagged,
		TotalFeedback:     feedbackStats.Total,
		ReportedFeedback:  feedbackStats.Reported,
		AverageTrustScore: math.Round(recruiterStats.AverageTrust*10) / 10,
	}, nil
}

// rollbackFeedback removes a feedback whose aggregate fold failed. The stored
// feedback set must never drift from the aggregate, and the unique pair index
// must not block the candidate's retry. Runs detached from the request's
// cancellation; a failed rollback is logged for manual repair.
func (s *Service) rollbackFeedback(ctx context.Context, feedback *models.Feedback) {
	if err := s.feedback.Delete(context.WithoutCancel(ctx), feedback.ID); err != nil {
		s.logger.ErrorContext(ctx, "feedback rollback failed",
			"feedback_id", feedback.ID.String(),
			"recruiter_id", feedback.RecruiterID.String(),
			"error", err,
		)
	}
}

// syncLeaderboard keeps the ranking consistent with the aggregate: only
// verified, unflagged recruiters compete. Ranking failures are logged, never
// surfaced; the aggregate is the source of truth.
func (s *Service) syncLeaderboard(ctx context.Context, r *models.Recruiter) {
	var err error
	if r.IsVerified && !r.IsFlagged {
		err = s.ranker.Update(ctx, r.ID, r.TrustScore)
	} else {
		err = s.ranker.Remove(ctx, r.ID)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "leaderboard sync failed",
			"recruiter_id", r.ID.String(),
			"error", err,
		)
	}
}

func (s *Service) rejectFeedback(reason string) {
	if s.metrics != nil {
		s.metrics.FeedbackRejected.WithLabelValues(reason).Inc()
	}
}

// translate maps store sentinels to coded domain errors.
func (s *Service) translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, what+" already exists")
	case errors.Is(err, sentinel.ErrVersionMismatch):
		return dErrors.New(dErrors.CodeConflict, "concurrent update, retry the request")
	default:
		var coded *dErrors.Error
		if errors.As(err, &coded) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "store operation failed")
	}
}

func ruleLabel(reason string) string {
	switch reason {
	case policy.ReasonLowTrust:
		return "low_trust"
	case policy.ReasonPoorRatings:
		return "poor_ratings"
	case policy.ReasonNegativeTone:
		return "negative_sentiment"
	default:
		return "other"
	}
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
