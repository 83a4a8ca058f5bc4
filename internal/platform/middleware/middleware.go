// Package middleware carries the HTTP middleware chain shared by all routers.
//
// Authentication itself is an external collaborator: the gateway in front of
// this service authenticates callers and asserts identity through trusted
// headers. The middleware here only lifts those assertions into the request
// context; nothing in this process validates credentials.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	id "recruiterrisk/pkg/domain"
	dErrors "recruiterrisk/pkg/domain-errors"
	"recruiterrisk/pkg/requestcontext"
)

// Header names asserted by the authenticating gateway.
const (
	HeaderRequestID   = "X-Request-ID"
	HeaderCandidateID = "X-Candidate-ID"
	HeaderRecruiterID = "X-Recruiter-ID"
	HeaderRole        = "X-Auth-Role"
)

// RequestID attaches a correlation ID to every request, minting one when the
// gateway did not supply it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recovery converts panics into 500 responses instead of killing the process.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", requestcontext.RequestID(r.Context()),
					)
					writeJSONError(w, http.StatusInternalServerError, string(dErrors.CodeInternal), "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Logger emits one structured line per request.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestcontext.RequestID(r.Context()),
			)
		})
	}
}

// Timeout bounds the whole request.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContentTypeJSON rejects writes that are not application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if ct := r.Header.Get("Content-Type"); ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
				writeJSONError(w, http.StatusUnsupportedMediaType, string(dErrors.CodeBadRequest), "content type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CandidateIdentity lifts the gateway-asserted candidate identity into the
// request context. Requests without a parseable identity are rejected.
func CandidateIdentity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidateID, err := id.ParseCandidateID(r.Header.Get(HeaderCandidateID))
			if err != nil {
				logger.WarnContext(r.Context(), "unauthenticated request",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "candidate identity is required")
				return
			}
			ctx := requestcontext.WithCandidateID(r.Context(), candidateID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RecruiterIdentity lifts the gateway-asserted recruiter identity into the
// request context. Requests without a parseable identity are rejected.
func RecruiterIdentity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recruiterID, err := id.ParseRecruiterID(r.Header.Get(HeaderRecruiterID))
			if err != nil {
				logger.WarnContext(r.Context(), "unauthenticated request",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "recruiter identity is required")
				return
			}
			ctx := requestcontext.WithRecruiterID(r.Context(), recruiterID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates administrative routes on the gateway-asserted role.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderRole) != "admin" {
				logger.WarnContext(r.Context(), "forbidden admin access",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusForbidden, string(dErrors.CodeForbidden), "admin role required")
				return
			}
			ctx := requestcontext.WithAdmin(r.Context(), true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
