package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "estimmo/internal/errors"
	"estimmo/internal/middleware"
	"estimmo/internal/model"
	"estimmo/pkg/contracts/domain"
)

// EstimateServiceInterface is the service surface the handler needs.
type EstimateServiceInterface interface {
	Estimate(ctx context.Context, req domain.EstimateRequest) (*domain.EstimateResult, error)
	Metadata() model.Metadata
}

// EstimateHandler handles estimation HTTP requests with RFC 7807 errors
type EstimateHandler struct {
	service      EstimateServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(service EstimateServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *EstimateHandler {
	return &EstimateHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "estimate_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the estimation routes
func (h *EstimateHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Estimate)
	r.Get("/model", h.ModelInfo)
	return r
}

// Estimate handles POST /api/estimate
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req domain.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "malformed estimate request",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	result, err := h.service.Estimate(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "estimate failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("postal_code", req.PostalCode),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// ModelInfo handles GET /api/estimate/model
func (h *EstimateHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Metadata())
}
