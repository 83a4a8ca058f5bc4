// Package leaderboard maintains the trust-score ranking. The redis
// implementation keeps a sorted set so reads are cheap at any corpus size;
// the in-memory one backs tests and single-process deployments.
package leaderboard

import (
	"context"
	"sort"
	"sync"

	id "recruiterrisk/pkg/domain"
)

// Entry is one ranked recruiter. Rank is 1-based.
type Entry struct {
	Rank        int
	RecruiterID id.RecruiterID
	TrustScore  int
}

// Ranker maintains the ranking. Update is called after every trust-score
// write; Remove takes a recruiter out of the running (flagged or unverified);
// Top reads the current best.
type Ranker interface {
	Update(ctx context.Context, recruiterID id.RecruiterID, trustScore int) error
	Remove(ctx context.Context, recruiterID id.RecruiterID) error
	Top(ctx context.Context, n int) ([]Entry, error)
}

// MemoryRanker is the in-process Ranker.
type MemoryRanker struct {
	mu     sync.RWMutex
	scores map[id.RecruiterID]int
}

// NewMemoryRanker builds an empty ranker.
func NewMemoryRanker() *MemoryRanker {
	return &MemoryRanker{scores: make(map[id.RecruiterID]int)}
}

func (r *MemoryRanker) Update(_ context.Context, recruiterID id.RecruiterID, trustScore int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[recruiterID] = trustScore
	return nil
}

func (r *MemoryRanker) Remove(_ context.Context, recruiterID id.RecruiterID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scores, recruiterID)
	return nil
}

func (r *MemoryRanker) Top(_ context.Context, n int) ([]Entry, error) {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.scores))
	for recruiterID, score := range r.scores {
		entries = append(entries, Entry{RecruiterID: recruiterID, TrustScore: score})
	}
	r.mu.RUnlock()

	// Ties break on ID so the order is stable across calls.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TrustScore != entries[j].TrustScore {
			return entries[i].TrustScore > entries[j].TrustScore
		}
		return entries[i].RecruiterID.String() < entries[j].RecruiterID.String()
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
