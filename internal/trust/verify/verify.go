// Package verify fans out to the three verification capabilities and fuses
// their scores into the recruiter's domain signal.
//
// Each capability is an interface with interchangeable implementations chosen
// at construction time. Live transports are external collaborators; this
// package ships deterministic heuristic implementations that double as the
// per-provider fallback. A provider that errors, times out, or simply is not
// configured degrades its own signal only; verification as a whole never
// fails because of a provider.
package verify

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"recruiterrisk/internal/trust/models"
)

// EmailVerifier classifies an email address.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) (models.EmailVerification, error)
}

// DomainVerifier looks up a company by domain.
type DomainVerifier interface {
	VerifyDomain(ctx context.Context, domain string) (models.DomainVerification, error)
}

// URLSafetyChecker classifies a URL as safe or unsafe.
type URLSafetyChecker interface {
	CheckURL(ctx context.Context, url string) (models.URLSafety, error)
}

// Metrics is the observation hook the aggregator calls into. Defined here so
// the package has no dependency on the metrics implementation.
type Metrics interface {
	ObserveProviderLatency(provider string, d time.Duration)
	IncrementProviderFallback(provider string)
}

// Identity carries the signals a verification run works from.
type Identity struct {
	Email          string
	CompanyDomain  string
	LinkedURL      string
	CompanyWebsite string
}

// Aggregator runs the three capability calls concurrently, each under its own
// timeout, and assembles the fused result.
type Aggregator struct {
	email     EmailVerifier
	domain    DomainVerifier
	urlSafety URLSafetyChecker

	fallbackEmail  EmailVerifier
	fallbackDomain DomainVerifier
	fallbackURL    URLSafetyChecker

	timeout time.Duration
	logger  *slog.Logger
	metrics Metrics
}

// Option configures the aggregator.
type Option func(*Aggregator)

// WithEmailVerifier installs a live email provider.
func WithEmailVerifier(v EmailVerifier) Option {
	return func(a *Aggregator) { a.email = v }
}

// WithDomainVerifier installs a live company-domain provider.
func WithDomainVerifier(v DomainVerifier) Option {
	return func(a *Aggregator) { a.domain = v }
}

// WithURLSafetyChecker installs a live URL safety provider.
func WithURLSafetyChecker(c URLSafetyChecker) Option {
	return func(a *Aggregator) { a.urlSafety = c }
}

// WithProviderTimeout bounds each provider call independently.
func WithProviderTimeout(d time.Duration) Option {
	return func(a *Aggregator) { a.timeout = d }
}

// WithLogger attaches a logger for degradation events.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithMetrics attaches the observation hook.
func WithMetrics(m Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// New builds an aggregator. Without options every capability runs on its
// deterministic heuristic, which is also the fallback for configured
// providers.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		fallbackEmail:  NewHeuristicEmailVerifier(),
		fallbackDomain: NewHeuristicDomainVerifier(),
		fallbackURL:    NewHeuristicURLChecker(),
		timeout:        3 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.email == nil {
		a.email = a.fallbackEmail
	}
	if a.domain == nil {
		a.domain = a.fallbackDomain
	}
	if a.urlSafety == nil {
		a.urlSafety = a.fallbackURL
	}
	return a
}

// Verify runs the three checks concurrently and fuses the outcome. The fused
// domain score is the rounded average of the email and domain scores; the
// identity link counts as verified when a professional-profile URL was given
// and matches the expected domain.
func (a *Aggregator) Verify(ctx context.Context, identity Identity) models.VerificationResult {
	var (
		email     models.EmailVerification
		domain    models.DomainVerification
		urlSafety models.URLSafety
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		email = a.verifyEmail(gctx, identity.Email)
		return nil
	})
	g.Go(func() error {
		domain = a.verifyDomain(gctx, identity.CompanyDomain)
		return nil
	})
	g.Go(func() error {
		urlSafety = a.checkURL(gctx, identity.CompanyWebsite)
		return nil
	})

	// Goroutines never return errors; Wait only joins them.
	_ = g.Wait()

	domainScore := int(math.Round(float64(email.Score+domain.Score) / 2))

	return models.VerificationResult{
		DomainScore:          domainScore,
		VerifiedIdentityLink: isProfessionalProfile(identity.LinkedURL),
		Detail: models.VerificationDetail{
			Email:     email,
			Domain:    domain,
			URLSafety: urlSafety,
		},
	}
}

func (a *Aggregator) verifyEmail(ctx context.Context, email string) models.EmailVerification {
	result, degraded := callProvider(ctx, a.timeout, "email", a.metrics,
		func(ctx context.Context) (models.EmailVerification, error) {
			return a.email.VerifyEmail(ctx, email)
		})
	if !degraded {
		return result
	}
	a.logDegraded(ctx, "email")
	fallback, _ := a.fallbackEmail.VerifyEmail(context.WithoutCancel(ctx), email)
	return fallback
}

func (a *Aggregator) verifyDomain(ctx context.Context, domain string) models.DomainVerification {
	result, degraded := callProvider(ctx, a.timeout, "domain", a.metrics,
		func(ctx context.Context) (models.DomainVerification, error) {
			return a.domain.VerifyDomain(ctx, domain)
		})
	if !degraded {
		return result
	}
	a.logDegraded(ctx, "domain")
	fallback, _ := a.fallbackDomain.VerifyDomain(context.WithoutCancel(ctx), domain)
	return fallback
}

func (a *Aggregator) checkURL(ctx context.Context, url string) models.URLSafety {
	// No website supplied: nothing to check, signal stays clean.
	if url == "" {
		return models.URLSafety{Safe: true, Score: 100}
	}
	result, degraded := callProvider(ctx, a.timeout, "url_safety", a.metrics,
		func(ctx context.Context) (models.URLSafety, error) {
			return a.urlSafety.CheckURL(ctx, url)
		})
	if !degraded {
		return result
	}
	a.logDegraded(ctx, "url_safety")
	fallback, _ := a.fallbackURL.CheckURL(context.WithoutCancel(ctx), url)
	return fallback
}

// callProvider runs one provider call under its own deadline. The provider
// goroutine writes into a buffered channel so a hung provider cannot block
// the caller past the timeout. Returns degraded=true when the fallback must
// be used instead.
func callProvider[T any](ctx context.Context, timeout time.Duration, name string, metrics Metrics, call func(context.Context) (T, error)) (T, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result T
		err    error
	}
	ch := make(chan outcome, 1)
	start := time.Now()

	go func() {
		result, err := call(ctx)
		ch <- outcome{result: result, err: err}
	}()

	select {
	case out := <-ch:
		if metrics != nil {
			metrics.ObserveProviderLatency(name, time.Since(start))
		}
		if out.err != nil {
			if metrics != nil {
				metrics.IncrementProviderFallback(name)
			}
			var zero T
			return zero, true
		}
		return out.result, false
	case <-ctx.Done():
		if metrics != nil {
			metrics.ObserveProviderLatency(name, time.Since(start))
			metrics.IncrementProviderFallback(name)
		}
		var zero T
		return zero, true
	}
}

func (a *Aggregator) logDegraded(ctx context.Context, provider string) {
	if a.logger != nil {
		a.logger.WarnContext(ctx, "verification provider degraded, using fallback",
			"provider", provider,
		)
	}
}

// isProfessionalProfile reports whether the supplied URL points at the
// expected professional-network domain.
func isProfessionalProfile(linkedURL string) bool {
	return linkedURL != "" && strings.Contains(strings.ToLower(linkedURL), "linkedin.com")
}
