// Package metrics exposes the service's prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector the service updates. Construct once and
// share; the zero value is not usable.
type Metrics struct {
	VerificationRequests prometheus.Counter
	FeedbackSubmitted    prometheus.Counter
	FeedbackRejected     *prometheus.CounterVec
	FlagsRaised          *prometheus.CounterVec
	ProfileViews         prometheus.Counter

	ProviderFallbacks *prometheus.CounterVec
	ProviderLatency   *prometheus.HistogramVec
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VerificationRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "recruiterrisk_verification_requests_total",
			Help: "Verification runs started.",
		}),
		FeedbackSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "recruiterrisk_feedback_submitted_total",
			Help: "Feedback records accepted.",
		}),
		FeedbackRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruiterrisk_feedback_rejected_total",
			Help: "Feedback submissions rejected, by reason.",
		}, []string{"reason"}),
		FlagsRaised: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruiterrisk_flags_raised_total",
			Help: "Automatic review flags raised, by rule.",
		}, []string{"rule"}),
		ProfileViews: factory.NewCounter(prometheus.CounterOpts{
			Name: "recruiterrisk_profile_views_total",
			Help: "Recruiter profile reads.",
		}),
		ProviderFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruiterrisk_provider_fallbacks_total",
			Help: "Verification provider calls that degraded to the heuristic fallback.",
		}, []string{"provider"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recruiterrisk_provider_latency_seconds",
			Help:    "Verification provider call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}

// ObserveProviderLatency satisfies the verification aggregator's hook.
func (m *Metrics) ObserveProviderLatency(provider string, d time.Duration) {
	m.ProviderLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// IncrementProviderFallback satisfies the verification aggregator's hook.
func (m *Metrics) IncrementProviderFallback(provider string) {
	m.ProviderFallbacks.WithLabelValues(provider).Inc()
}
