package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"recruiterrisk/internal/trust/models"
	id "recruiterrisk/pkg/domain"
	"recruiterrisk/pkg/platform/sentinel"
)

type MemoryRecruiterStoreSuite struct {
	suite.Suite
	store *MemoryRecruiterStore
	ctx   context.Context
}

func TestMemoryRecruiterStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryRecruiterStoreSuite))
}

func (s *MemoryRecruiterStoreSuite) SetupTest() {
	s.store = NewMemoryRecruiterStore()
	s.ctx = context.Background()
}

func (s *MemoryRecruiterStoreSuite) newRecruiter(name, email string) *models.Recruiter {
	recruiter := models.NewRecruiter(id.NewRecruiterID(), name, email, "Acme", "", "", time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, recruiter))
	return recruiter
}

func (s *MemoryRecruiterStoreSuite) TestCreateAndFind() {
	recruiter := s.newRecruiter("Jane", "jane@acme.io")

	s.Run("find by id", func() {
		found, err := s.store.FindByID(s.ctx, recruiter.ID)
		s.Require().NoError(err)
		s.Equal(recruiter.ID, found.ID)
		s.Equal("Jane", found.Name)
	})

	s.Run("find by email is case insensitive", func() {
		found, err := s.store.FindByEmail(s.ctx, "JANE@ACME.IO")
		s.Require().NoError(err)
		s.Equal(recruiter.ID, found.ID)
	})

	s.Run("duplicate email conflicts", func() {
		dup := models.NewRecruiter(id.NewRecruiterID(), "Other", "jane@acme.io", "Acme", "", "", time.Now().UTC())
		s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, id.NewRecruiterID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryRecruiterStoreSuite) TestExecute() {
	recruiter := s.newRecruiter("Jane", "jane@acme.io")

	s.Run("persists the mutation and bumps the version", func() {
		updated, err := s.store.Execute(s.ctx, recruiter.ID, func(r *models.Recruiter) error {
			r.ApplyFeedback(5, 60)
			return nil
		})
		s.Require().NoError(err)
		s.Equal(1, updated.FeedbackCount)
		s.Equal(1, updated.Version)

		found, err := s.store.FindByID(s.ctx, recruiter.ID)
		s.Require().NoError(err)
		s.Equal(1, found.FeedbackCount)
	})

	s.Run("aborted mutation leaves state untouched", func() {
		boom := errors.New("boom")
		_, err := s.store.Execute(s.ctx, recruiter.ID, func(r *models.Recruiter) error {
			r.ApplyFeedback(1, -100)
			return boom
		})
		s.ErrorIs(err, boom)

		found, err := s.store.FindByID(s.ctx, recruiter.ID)
		s.Require().NoError(err)
		s.Equal(1, found.FeedbackCount)
	})

	s.Run("unknown recruiter is not found", func() {
		_, err := s.store.Execute(s.ctx, id.NewRecruiterID(), func(*models.Recruiter) error { return nil })
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryRecruiterStoreSuite) TestExecuteSerializesWriters() {
	recruiter := s.newRecruiter("Jane", "jane@acme.io")

	const writers = 100
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(s.ctx, recruiter.ID, func(r *models.Recruiter) error {
				r.ApplyFeedback(4, 20)
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	found, err := s.store.FindByID(s.ctx, recruiter.ID)
	s.Require().NoError(err)
	s.Equal(writers, found.FeedbackCount)
	s.Equal(writers*4, found.RatingSum)
	s.Equal(writers, found.Version)
	s.InDelta(4.0, found.AverageRating, 1e-9)
}

func (s *MemoryRecruiterStoreSuite) TestSearchAndRanking() {
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		recruiter := s.newRecruiter(name, fmt.Sprintf("%s@acme.io", name))
		_, err := s.store.Execute(s.ctx, recruiter.ID, func(r *models.Recruiter) error {
			r.TrustScore = 50 + i*10
			return nil
		})
		s.Require().NoError(err)
	}
	outsider := models.NewRecruiter(id.NewRecruiterID(), "Dave", "dave@other.io", "Globex", "", "", time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, outsider))

	s.Run("matches company case-insensitively", func() {
		results, err := s.store.Search(s.ctx, "acme", 10)
		s.Require().NoError(err)
		s.Len(results, 3)
	})

	s.Run("orders best trust first", func() {
		results, err := s.store.Search(s.ctx, "acme", 10)
		s.Require().NoError(err)
		s.Equal("Carol", results[0].Name)
		s.Equal("Bob", results[1].Name)
		s.Equal("Alice", results[2].Name)
	})

	s.Run("top by trust honors the limit", func() {
		results, err := s.store.TopByTrust(s.ctx, 2)
		s.Require().NoError(err)
		s.Len(results, 2)
		s.Equal("Carol", results[0].Name)
	})
}

func (s *MemoryRecruiterStoreSuite) TestStats() {
	a := s.newRecruiter("Alice", "alice@acme.io")
	s.newRecruiter("Bob", "bob@acme.io")

	_, err := s.store.Execute(s.ctx, a.ID, func(r *models.Recruiter) error {
		r.IsVerified = true
		r.IsFlagged = true
		r.TrustScore = 80
		return nil
	})
	s.Require().NoError(err)

	stats, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.Total)
	s.Equal(1, stats.Verified)
	s.Equal(1, stats.Flagged)
	s.InDelta(40.0, stats.AverageTrust, 1e-9)
}

type MemoryFeedbackStoreSuite struct {
	suite.Suite
	store *MemoryFeedbackStore
	ctx   context.Context
}

func TestMemoryFeedbackStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryFeedbackStoreSuite))
}

func (s *MemoryFeedbackStoreSuite) SetupTest() {
	s.store = NewMemoryFeedbackStore()
	s.ctx = context.Background()
}

func (s *MemoryFeedbackStoreSuite) newFeedback(candidateID id.CandidateID, recruiterID id.RecruiterID, rating int) *models.Feedback {
	feedback := &models.Feedback{
		ID:          id.NewFeedbackID(),
		CandidateID: candidateID,
		RecruiterID: recruiterID,
		Rating:      rating,
		Comment:     "a comment long enough to be valid",
		CreatedAt:   time.Now().UTC(),
	}
	s.Require().NoError(s.store.Create(s.ctx, feedback))
	return feedback
}

func (s *MemoryFeedbackStoreSuite) TestCreateRejectsSecondReview() {
	candidateID := id.NewCandidateID()
	recruiterID := id.NewRecruiterID()
	s.newFeedback(candidateID, recruiterID, 5)

	dup := &models.Feedback{
		ID:          id.NewFeedbackID(),
		CandidateID: candidateID,
		RecruiterID: recruiterID,
		Rating:      1,
		Comment:     "changed my mind about everything",
		CreatedAt:   time.Now().UTC(),
	}
	s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)

	// Same candidate reviewing a different recruiter is fine.
	s.newFeedback(candidateID, id.NewRecruiterID(), 3)
}

func (s *MemoryFeedbackStoreSuite) TestListByRecruiterPagesNewestFirst() {
	recruiterID := id.NewRecruiterID()
	var created []*models.Feedback
	for i := 0; i < 5; i++ {
		created = append(created, s.newFeedback(id.NewCandidateID(), recruiterID, i%5+1))
	}

	items, total, err := s.store.ListByRecruiter(s.ctx, recruiterID, 2, 0)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(items, 2)
	s.Equal(created[4].ID, items[0].ID)
	s.Equal(created[3].ID, items[1].ID)

	items, total, err = s.store.ListByRecruiter(s.ctx, recruiterID, 2, 4)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(items, 1)
	s.Equal(created[0].ID, items[0].ID)
}

func (s *MemoryFeedbackStoreSuite) TestListByCandidate() {
	candidateID := id.NewCandidateID()
	first := s.newFeedback(candidateID, id.NewRecruiterID(), 4)
	second := s.newFeedback(candidateID, id.NewRecruiterID(), 2)
	s.newFeedback(id.NewCandidateID(), id.NewRecruiterID(), 5)

	items, err := s.store.ListByCandidate(s.ctx, candidateID)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal(second.ID, items[0].ID)
	s.Equal(first.ID, items[1].ID)
}

func (s *MemoryFeedbackStoreSuite) TestUpdateResponse() {
	feedback := s.newFeedback(id.NewCandidateID(), id.NewRecruiterID(), 3)

	now := time.Now().UTC()
	feedback.SetResponse("thanks for the honest review", now)
	s.Require().NoError(s.store.UpdateResponse(s.ctx, feedback))

	found, err := s.store.FindByID(s.ctx, feedback.ID)
	s.Require().NoError(err)
	s.Equal("thanks for the honest review", found.RecruiterResponse)
	s.Require().NotNil(found.RespondedAt)
	s.WithinDuration(now, *found.RespondedAt, time.Second)

	s.Run("unknown feedback is not found", func() {
		missing := &models.Feedback{ID: id.NewFeedbackID()}
		s.ErrorIs(s.store.UpdateResponse(s.ctx, missing), sentinel.ErrNotFound)
	})
}

func (s *MemoryFeedbackStoreSuite) TestDelete() {
	candidateID := id.NewCandidateID()
	recruiterID := id.NewRecruiterID()
	feedback := s.newFeedback(candidateID, recruiterID, 4)

	s.Require().NoError(s.store.Delete(s.ctx, feedback.ID))

	s.Run("record is gone from every index", func() {
		_, err := s.store.FindByID(s.ctx, feedback.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)

		items, total, err := s.store.ListByRecruiter(s.ctx, recruiterID, 10, 0)
		s.Require().NoError(err)
		s.Zero(total)
		s.Empty(items)

		mine, err := s.store.ListByCandidate(s.ctx, candidateID)
		s.Require().NoError(err)
		s.Empty(mine)
	})

	s.Run("frees the candidate-recruiter pair", func() {
		s.newFeedback(candidateID, recruiterID, 2)
	})

	s.Run("unknown feedback is not found", func() {
		s.ErrorIs(s.store.Delete(s.ctx, id.NewFeedbackID()), sentinel.ErrNotFound)
	})
}

func (s *MemoryFeedbackStoreSuite) TestStats() {
	recruiterID := id.NewRecruiterID()
	s.newFeedback(id.NewCandidateID(), recruiterID, 5)
	reported := &models.Feedback{
		ID:           id.NewFeedbackID(),
		CandidateID:  id.NewCandidateID(),
		RecruiterID:  recruiterID,
		Rating:       1,
		Comment:      "this recruiter is a complete scam",
		IsReported:   true,
		ReportReason: models.ReportScam,
		CreatedAt:    time.Now().UTC(),
	}
	s.Require().NoError(s.store.Create(s.ctx, reported))

	stats, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.Total)
	s.Equal(1, stats.Reported)
}
