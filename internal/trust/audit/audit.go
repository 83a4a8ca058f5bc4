// Package audit records the trust-affecting events as an append-only trail.
// Events flow through an asynchronous publisher into a sink; the kafka sink
// ships them off-process, the memory sink backs tests and deployments without
// a broker.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "recruiterrisk/pkg/domain"
)

// Event types.
const (
	EventRecruiterVerified  = "recruiter.verified"
	EventFeedbackSubmitted  = "feedback.submitted"
	EventFeedbackResponded  = "feedback.responded"
	EventRecruiterFlagged   = "recruiter.flagged"
	EventRecruiterUnflagged = "recruiter.unflagged"
)

// Event is one audit record. RecruiterID is always set; the other reference
// fields depend on the event type.
type Event struct {
	Type        string         `json:"type"`
	RecruiterID id.RecruiterID `json:"recruiterId"`
	CandidateID id.CandidateID `json:"candidateId,omitempty"`
	FeedbackID  id.FeedbackID  `json:"feedbackId,omitempty"`
	TrustScore  int            `json:"trustScore"`
	Reasons     []string       `json:"reasons,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// Sink receives published events.
type Sink interface {
	Write(ctx context.Context, event Event) error
	Close() error
}

// Publisher decouples event emission from sink latency: Publish enqueues and
// returns immediately, a single worker drains the queue into the sink. A full
// queue drops the event with a warning; the audit trail is best-effort and
// must never stall a write path.
type Publisher struct {
	sink   Sink
	logger *slog.Logger

	// mu guards closed so Publish never races a Close into a send on the
	// closed queue.
	mu     sync.RWMutex
	closed bool

	queue chan Event
	done  chan struct{}
	once  sync.Once
}

// NewPublisher starts the worker. buffer bounds the queue.
func NewPublisher(sink Sink, logger *slog.Logger, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &Publisher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues the event. Never blocks and never panics, even after
// Close; late events are dropped with a warning.
func (p *Publisher) Publish(_ context.Context, event Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("audit publisher closed, dropping event",
			"type", event.Type,
			"recruiter_id", event.RecruiterID.String(),
		)
		return
	}
	select {
	case p.queue <- event:
	default:
		p.logger.Warn("audit queue full, dropping event",
			"type", event.Type,
			"recruiter_id", event.RecruiterID.String(),
		)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.sink.Write(ctx, event); err != nil {
			p.logger.Error("audit sink write failed",
				"type", event.Type,
				"error", err,
			)
		}
		cancel()
	}
}

// Close drains the queue, waits for the worker, and closes the sink.
func (p *Publisher) Close() error {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.queue)
	})
	<-p.done
	return p.sink.Close()
}

// MemorySink retains events in order. Safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink builds an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Close() error { return nil }

// Events returns a snapshot of everything written so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}
