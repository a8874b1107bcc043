package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gdreport/internal/errors"
	"gdreport/internal/feedback"
	"gdreport/internal/middleware"
	"gdreport/internal/services"
)

// maxListLimit bounds ?limit on GET /api/feedback.
const maxListLimit = 1000

// FeedbackHandler handles the JSON feedback API
type FeedbackHandler struct {
	service      FeedbackServiceInterface
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service FeedbackServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FeedbackHandler {
	return &FeedbackHandler{
		service:      service,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "feedback_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the feedback routes. submit wraps the POST route, for
// example with a rate limiter.
func (h *FeedbackHandler) Routes(submit ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.With(submit...).Post("/", h.Submit)

	return r
}

// FeedbackListResponse is the body of GET /api/feedback
type FeedbackListResponse struct {
	Status string            `json:"status"`
	Count  int               `json:"count"`
	Total  int               `json:"total"`
	Data   []feedback.Record `json:"data"`
}

// Submit handles POST /api/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in services.FeedbackInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		case errors.Is(err, io.EOF):
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "request body is required"))
		default:
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		}
		return
	}

	rec, err := h.service.Submit(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "feedback submitted",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("role", string(rec.Role)))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, rec)
}

// List handles GET /api/feedback. ?limit=N returns the N most recent entries.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 0, maxListLimit, 0)
	if !ok {
		return
	}

	records, err := h.service.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	total := len(records)
	if limit > 0 && limit < total {
		records = records[total-limit:]
	}

	render.JSON(w, r, FeedbackListResponse{
		Status: "success",
		Count:  len(records),
		Total:  total,
		Data:   records,
	})
}
