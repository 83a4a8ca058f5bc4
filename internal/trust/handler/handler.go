// Package handler exposes the trust service over HTTP. Handlers decode,
// delegate and encode; every rule lives in the service layer.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"recruiterrisk/internal/platform/middleware"
	"recruiterrisk/internal/trust/models"
	"recruiterrisk/internal/trust/service"
	dErrors "recruiterrisk/pkg/domain-errors"
	"recruiterrisk/pkg/requestcontext"
)

// Handler wires the trust service into a chi router.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New builds a handler.
func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts all routes. Candidate-only and admin-only routes carry
// their gates here so the service checks are the second line of defense.
func (h *Handler) Register(r chi.Router) {
	r.Route("/recruiters", func(r chi.Router) {
		r.Post("/verify", h.verifyRecruiter)
		r.Get("/leaderboard", h.leaderboard)
		r.Get("/search", h.search)

		r.Route("/{recruiterID}", func(r chi.Router) {
			r.Get("/", h.getRecruiter)
			r.Get("/feedback", h.listFeedback)
			r.With(middleware.CandidateIdentity(h.logger)).
				Post("/feedback", h.submitFeedback)
			r.With(middleware.RecruiterIdentity(h.logger)).
				Post("/feedback/{feedbackID}/response", h.respondToFeedback)
			r.With(middleware.RequireAdmin(h.logger)).
				Put("/flag", h.setFlag)
		})
	})

	r.With(middleware.CandidateIdentity(h.logger)).
		Get("/feedback/mine", h.listMyFeedback)
	r.With(middleware.RequireAdmin(h.logger)).
		Get("/dashboard", h.dashboard)
}

func (h *Handler) verifyRecruiter(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRecruiterRequest
	if !h.decode(w, r, &req) {
		return
	}
	recruiter, err := h.service.VerifyRecruiter(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, recruiter)
}

func (h *Handler) getRecruiter(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetRecruiter(r.Context(), chi.URLParam(r, "recruiterID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitFeedbackRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.RecruiterID = chi.URLParam(r, "recruiterID")

	response, err := h.service.SubmitFeedback(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response)
}

func (h *Handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListFeedback(r.Context(),
		chi.URLParam(r, "recruiterID"),
		queryInt(r, "limit"),
		queryInt(r, "offset"),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}

func (h *Handler) respondToFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.RespondToFeedbackRequest
	if !h.decode(w, r, &req) {
		return
	}
	feedback, err := h.service.RespondToFeedback(r.Context(),
		chi.URLParam(r, "recruiterID"),
		chi.URLParam(r, "feedbackID"),
		&req,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, feedback)
}

func (h *Handler) listMyFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.service.ListMyFeedback(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, feedback)
}

func (h *Handler) setFlag(w http.ResponseWriter, r *http.Request) {
	var req models.SetFlagRequest
	if !h.decode(w, r, &req) {
		return
	}
	recruiter, err := h.service.SetFlag(r.Context(), chi.URLParam(r, "recruiterID"), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recruiter)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context(), queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(code),
		"message": dErrors.MessageOf(err),
	})
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
