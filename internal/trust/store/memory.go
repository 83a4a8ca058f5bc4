package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"recruiterrisk/internal/trust/models"
	id "recruiterrisk/pkg/domain"
	"recruiterrisk/pkg/platform/sentinel"
)

// recruiterEntry pairs the stored aggregate with its write lock. The lock
// serializes Execute calls per recruiter; readers go through the table lock
// and clone, so they never block behind a writer's mutate function.
type recruiterEntry struct {
	mu        sync.Mutex
	recruiter *models.Recruiter
}

// MemoryRecruiterStore is the in-process RecruiterStore.
type MemoryRecruiterStore struct {
	mu      sync.RWMutex
	byID    map[id.RecruiterID]*recruiterEntry
	byEmail map[string]id.RecruiterID
}

// NewMemoryRecruiterStore builds an empty store.
func NewMemoryRecruiterStore() *MemoryRecruiterStore {
	return &MemoryRecruiterStore{
		byID:    make(map[id.RecruiterID]*recruiterEntry),
		byEmail: make(map[string]id.RecruiterID),
	}
}

func (s *MemoryRecruiterStore) Create(_ context.Context, recruiter *models.Recruiter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(recruiter.Email)
	if _, exists := s.byEmail[email]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byID[recruiter.ID]; exists {
		return sentinel.ErrConflict
	}

	s.byID[recruiter.ID] = &recruiterEntry{recruiter: recruiter.Clone()}
	s.byEmail[email] = recruiter.ID
	return nil
}

func (s *MemoryRecruiterStore) FindByID(_ context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error) {
	s.mu.RLock()
	entry, ok := s.byID[recruiterID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.recruiter.Clone(), nil
}

func (s *MemoryRecruiterStore) FindByEmail(ctx context.Context, email string) (*models.Recruiter, error) {
	s.mu.RLock()
	recruiterID, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, recruiterID)
}

func (s *MemoryRecruiterStore) Execute(ctx context.Context, recruiterID id.RecruiterID, mutate MutateFunc) (*models.Recruiter, error) {
	s.mu.RLock()
	entry, ok := s.byID[recruiterID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Mutate a clone so an aborted write leaves the stored state untouched.
	working := entry.recruiter.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.Version++
	entry.recruiter = working
	return working.Clone(), nil
}

func (s *MemoryRecruiterStore) Search(_ context.Context, query string, limit int) ([]*models.Recruiter, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	matches := make([]*models.Recruiter, 0)
	for _, entry := range s.byID {
		entry.mu.Lock()
		recruiter := entry.recruiter
		if needle == "" ||
			strings.Contains(strings.ToLower(recruiter.Name), needle) ||
			strings.Contains(strings.ToLower(recruiter.Email), needle) ||
			strings.Contains(strings.ToLower(recruiter.Company), needle) {
			matches = append(matches, recruiter.Clone())
		}
		entry.mu.Unlock()
	}
	s.mu.RUnlock()

	sortByTrust(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *MemoryRecruiterStore) TopByTrust(ctx context.Context, limit int) ([]*models.Recruiter, error) {
	return s.Search(ctx, "", limit)
}

func (s *MemoryRecruiterStore) Stats(_ context.Context) (RecruiterStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats RecruiterStats
	var trustSum int
	for _, entry := range s.byID {
		entry.mu.Lock()
		stats.Total++
		if entry.recruiter.IsVerified {
			stats.Verified++
		}
		if entry.recruiter.IsFlagged {
			stats.Flagged++
		}
		trustSum += entry.recruiter.TrustScore
		entry.mu.Unlock()
	}
	if stats.Total > 0 {
		stats.AverageTrust = float64(trustSum) / float64(stats.Total)
	}
	return stats, nil
}

// sortByTrust orders best trust first, with name as a deterministic
// tie-breaker.
func sortByTrust(recruiters []*models.Recruiter) {
	sort.Slice(recruiters, func(i, j int) bool {
		if recruiters[i].TrustScore != recruiters[j].TrustScore {
			return recruiters[i].TrustScore > recruiters[j].TrustScore
		}
		return recruiters[i].Name < recruiters[j].Name
	})
}

type candidateRecruiterKey struct {
	candidateID id.CandidateID
	recruiterID id.RecruiterID
}

// MemoryFeedbackStore is the in-process FeedbackStore.
type MemoryFeedbackStore struct {
	mu          sync.RWMutex
	byID        map[id.FeedbackID]*models.Feedback
	byRecruiter map[id.RecruiterID][]id.FeedbackID
	byCandidate map[id.CandidateID][]id.FeedbackID
	byPair      map[candidateRecruiterKey]id.FeedbackID
}

// NewMemoryFeedbackStore builds an empty store.
func NewMemoryFeedbackStore() *MemoryFeedbackStore {
	return &MemoryFeedbackStore{
		byID:        make(map[id.FeedbackID]*models.Feedback),
		byRecruiter: make(map[id.RecruiterID][]id.FeedbackID),
		byCandidate: make(map[id.CandidateID][]id.FeedbackID),
		byPair:      make(map[candidateRecruiterKey]id.FeedbackID),
	}
}

func (s *MemoryFeedbackStore) Create(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := candidateRecruiterKey{feedback.CandidateID, feedback.RecruiterID}
	if _, exists := s.byPair[key]; exists {
		return sentinel.ErrConflict
	}

	stored := feedback.Clone()
	s.byID[stored.ID] = stored
	s.byRecruiter[stored.RecruiterID] = append(s.byRecruiter[stored.RecruiterID], stored.ID)
	s.byCandidate[stored.CandidateID] = append(s.byCandidate[stored.CandidateID], stored.ID)
	s.byPair[key] = stored.ID
	return nil
}

func (s *MemoryFeedbackStore) FindByID(_ context.Context, feedbackID id.FeedbackID) (*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feedback, ok := s.byID[feedbackID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return feedback.Clone(), nil
}

func (s *MemoryFeedbackStore) ListByRecruiter(_ context.Context, recruiterID id.RecruiterID, limit, offset int) ([]*models.Feedback, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byRecruiter[recruiterID]
	total := len(ids)

	// Insertion order is chronological, so newest first walks backwards.
	items := make([]*models.Feedback, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(items) < limit; i-- {
		items = append(items, s.byID[ids[i]].Clone())
	}
	return items, total, nil
}

func (s *MemoryFeedbackStore) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byCandidate[candidateID]
	items := make([]*models.Feedback, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		items = append(items, s.byID[ids[i]].Clone())
	}
	return items, nil
}

func (s *MemoryFeedbackStore) UpdateResponse(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[feedback.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.RecruiterResponse = feedback.RecruiterResponse
	if feedback.RespondedAt != nil {
		t := *feedback.RespondedAt
		stored.RespondedAt = &t
	}
	return nil
}

func (s *MemoryFeedbackStore) Delete(_ context.Context, feedbackID id.FeedbackID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[feedbackID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, feedbackID)
	delete(s.byPair, candidateRecruiterKey{stored.CandidateID, stored.RecruiterID})
	s.byRecruiter[stored.RecruiterID] = removeID(s.byRecruiter[stored.RecruiterID], feedbackID)
	s.byCandidate[stored.CandidateID] = removeID(s.byCandidate[stored.CandidateID], feedbackID)
	return nil
}

func removeID(ids []id.FeedbackID, feedbackID id.FeedbackID) []id.FeedbackID {
	for i, candidate := range ids {
		if candidate == feedbackID {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (s *MemoryFeedbackStore) Stats(_ context.Context) (FeedbackStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := FeedbackStats{Total: len(s.byID)}
	for _, feedback := range s.byID {
		if feedback.IsReported {
			stats.Reported++
		}
	}
	return stats, nil
}
