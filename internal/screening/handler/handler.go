// Package handler wires the screening engine to the HTTP surface.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dossier/internal/dossier/models"
	dErrors "dossier/pkg/domainerrors"
)

// Service defines the interface for screening operations.
type Service interface {
	Evaluate(ctx context.Context, clientID string, rec *models.Record) models.Verdict
}

// Handler exposes dossier evaluation over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a screening handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/screening/evaluate", h.HandleEvaluate)
}

// EvaluateRequest is the HTTP request body for POST /screening/evaluate.
type EvaluateRequest struct {
	ClientID string         `json:"client_id"`
	Dossier  map[string]any `json:"dossier"`
}

// Validate checks the request shape; the dossier content itself is what the
// engine judges, so only the envelope is validated here.
func (r *EvaluateRequest) Validate() error {
	if r.Dossier == nil {
		return dErrors.New(dErrors.CodeValidation, "dossier is required and must be an object")
	}
	if r.ClientID != "" && !govalidator.StringLength(r.ClientID, "1", "128") {
		return dErrors.New(dErrors.CodeValidation, "client_id must be at most 128 characters")
	}
	return nil
}

// EvaluateResponse returns the verdict together with the annotated dossier.
type EvaluateResponse struct {
	ClientID    string         `json:"client_id"`
	Accepted    bool           `json:"accepted"`
	Explanation string         `json:"explanation"`
	Dossier     map[string]any `json:"dossier"`
}

// HandleEvaluate handles POST /screening/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "request body must be valid JSON"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if req.ClientID == "" {
		req.ClientID = uuid.NewString()
	}

	rec, err := models.Decode(req.Dossier)
	if err != nil {
		writeError(w, err)
		return
	}

	verdict := h.service.Evaluate(ctx, req.ClientID, rec)

	h.logger.InfoContext(ctx, "dossier screened",
		"client_id", req.ClientID,
		"accepted", verdict.Accepted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, EvaluateResponse{
		ClientID:    req.ClientID,
		Accepted:    verdict.Accepted,
		Explanation: verdict.Explanation,
		Dossier:     rec.Raw(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeBadRequest):
		status = http.StatusBadRequest
	case dErrors.HasCode(err, dErrors.CodeUnauthorized):
		status = http.StatusUnauthorized
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
