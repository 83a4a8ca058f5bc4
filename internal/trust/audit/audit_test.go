package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "recruiterrisk/pkg/domain"
)

type blockingSink struct {
	mu      sync.Mutex
	release chan struct{}
	events  []Event
}

func (s *blockingSink) Write(_ context.Context, event Event) error {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *blockingSink) Close() error { return nil }

type failingSink struct{ writes int }

func (s *failingSink) Write(context.Context, Event) error {
	s.writes++
	return errors.New("broker unavailable")
}

func (s *failingSink) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPublisherDeliversInOrder(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, discardLogger(), 16)

	recruiterID := id.NewRecruiterID()
	for _, eventType := range []string{EventRecruiterVerified, EventFeedbackSubmitted, EventRecruiterFlagged} {
		publisher.Publish(context.Background(), Event{
			Type:        eventType,
			RecruiterID: recruiterID,
			OccurredAt:  time.Now().UTC(),
		})
	}
	require.NoError(t, publisher.Close())

	events := sink.Events()
	require.Len(t, events, 3)
	assert.Equal(t, EventRecruiterVerified, events[0].Type)
	assert.Equal(t, EventFeedbackSubmitted, events[1].Type)
	assert.Equal(t, EventRecruiterFlagged, events[2].Type)
}

func TestPublishNeverBlocks(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	publisher := NewPublisher(sink, discardLogger(), 1)

	// One event occupies the worker, one fills the queue, the rest must be
	// dropped without blocking the caller.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			publisher.Publish(context.Background(), Event{
				Type:        EventFeedbackSubmitted,
				RecruiterID: id.NewRecruiterID(),
			})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a saturated queue")
	}

	close(sink.release)
	require.NoError(t, publisher.Close())
}

func TestPublisherSurvivesSinkErrors(t *testing.T) {
	sink := &failingSink{}
	publisher := NewPublisher(sink, discardLogger(), 16)

	publisher.Publish(context.Background(), Event{Type: EventRecruiterFlagged, RecruiterID: id.NewRecruiterID()})
	publisher.Publish(context.Background(), Event{Type: EventRecruiterUnflagged, RecruiterID: id.NewRecruiterID()})
	require.NoError(t, publisher.Close())

	assert.Equal(t, 2, sink.writes)
}

func TestCloseIsIdempotent(t *testing.T) {
	publisher := NewPublisher(NewMemorySink(), discardLogger(), 4)
	require.NoError(t, publisher.Close())
	require.NotPanics(t, func() { _ = publisher.Close() })
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, discardLogger(), 4)
	require.NoError(t, publisher.Close())

	require.NotPanics(t, func() {
		publisher.Publish(context.Background(), Event{
			Type:        EventFeedbackSubmitted,
			RecruiterID: id.NewRecruiterID(),
		})
	})
	assert.Empty(t, sink.Events())
}
