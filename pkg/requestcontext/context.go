// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Values are set by middleware and consumed by services. Keeping this package
// free of net/http lets services import only what they need. Tests inject
// fixed values (notably time) without running the middleware chain.
package requestcontext

import (
	"context"
	"time"

	id "recruiterrisk/pkg/domain"
)

type (
	candidateIDKey struct{}
	recruiterIDKey struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	adminKey       struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyCandidateID = candidateIDKey{}
	ContextKeyRecruiterID = recruiterIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyAdmin       = adminKey{}
)

// CandidateID retrieves the authenticated candidate ID from the context.
// Returns the zero value if not set.
func CandidateID(ctx context.Context) id.CandidateID {
	if candidateID, ok := ctx.Value(ContextKeyCandidateID).(id.CandidateID); ok {
		return candidateID
	}
	return id.CandidateID{}
}

// WithCandidateID injects a candidate ID into the context.
func WithCandidateID(ctx context.Context, candidateID id.CandidateID) context.Context {
	return context.WithValue(ctx, ContextKeyCandidateID, candidateID)
}

// RecruiterID retrieves the authenticated recruiter ID from the context.
// Returns the zero value if not set.
func RecruiterID(ctx context.Context) id.RecruiterID {
	if recruiterID, ok := ctx.Value(ContextKeyRecruiterID).(id.RecruiterID); ok {
		return recruiterID
	}
	return id.RecruiterID{}
}

// WithRecruiterID injects a recruiter ID into the context.
func WithRecruiterID(ctx context.Context, recruiterID id.RecruiterID) context.Context {
	return context.WithValue(ctx, ContextKeyRecruiterID, recruiterID)
}

// RequestID retrieves the correlation ID for the current request.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now returns the request time from the context, falling back to time.Now.
// Timestamp assignment in update paths goes through this accessor so tests
// can pin the clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time in the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// IsAdmin reports whether the gateway marked this request as administrative.
func IsAdmin(ctx context.Context) bool {
	admin, ok := ctx.Value(ContextKeyAdmin).(bool)
	return ok && admin
}

// WithAdmin marks the context as administrative.
func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, ContextKeyAdmin, admin)
}
