package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gdreport/internal/config"
	apierrors "gdreport/internal/errors"
	"gdreport/internal/feedback"
	"gdreport/internal/report"
	"gdreport/internal/services"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const pageTemplate = "page.html.tmpl"

// Messages shown above the feedback form.
const (
	msgFixFields   = "Please correct the highlighted fields and submit again."
	msgWriteFailed = "Sorry, your feedback could not be saved. Please try again later."
	msgRateLimited = "You are sending feedback too quickly. Please wait a moment and try again."
)

// PageHandler serves the report page and its feedback form.
type PageHandler struct {
	reports      ReportServiceInterface
	feedback     FeedbackServiceInterface
	tmpl         *template.Template
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewPageHandler parses the embedded page template.
func NewPageHandler(reports ReportServiceInterface, fb FeedbackServiceInterface, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) (*PageHandler, error) {
	md := newMarkdownRenderer()
	tmpl, err := template.New(pageTemplate).
		Funcs(template.FuncMap{"markdown": md.render}).
		ParseFS(templateFS, "templates/"+pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &PageHandler{
		reports:      reports,
		feedback:     fb,
		tmpl:         tmpl,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "page_handler")),
	}, nil
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	state := report.FeedbackState{Submitted: r.URL.Query().Get("submitted") == "1"}
	h.renderPage(w, r, http.StatusOK, state)
}

// SubmitFeedback handles POST /feedback from the HTML form. Success
// redirects back to the page so a reload does not resubmit.
func (h *PageHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	values := report.FormValues{
		Name:     r.PostForm.Get("name"),
		Role:     r.PostForm.Get("role"),
		Rating:   r.PostForm.Get("rating"),
		Comments: r.PostForm.Get("comments"),
	}
	// An unparsable rating stays 0 and fails the range check
	rating, _ := strconv.Atoi(strings.TrimSpace(values.Rating))

	_, err := h.feedback.Submit(ctx, services.FeedbackInput{
		Name:     values.Name,
		Role:     values.Role,
		Rating:   rating,
		Comments: values.Comments,
	})
	if err == nil {
		http.Redirect(w, r, config.FeedbackThanksURL, http.StatusSeeOther)
		return
	}

	state := report.FeedbackState{Submitted: true, Values: values}

	var verr *feedback.ValidationError
	switch {
	case errors.As(err, &verr):
		state.Error = msgFixFields
		state.FieldErrors = make(map[string]string, len(verr.Fields))
		for _, f := range verr.Fields {
			state.FieldErrors[f.Field] = f.Message
		}
		h.renderPage(w, r, http.StatusUnprocessableEntity, state)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.errorHandler.HandleError(w, r, err)
	default:
		state.Error = msgWriteFailed
		h.renderPage(w, r, http.StatusInternalServerError, state)
	}
}

// RateLimited re-renders the page with a notice instead of saving the form.
func (h *PageHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	state := report.FeedbackState{Submitted: true, Error: msgRateLimited}
	if err := r.ParseForm(); err == nil {
		state.Values = report.FormValues{
			Name:     r.PostForm.Get("name"),
			Role:     r.PostForm.Get("role"),
			Rating:   r.PostForm.Get("rating"),
			Comments: r.PostForm.Get("comments"),
		}
	}
	h.renderPage(w, r, http.StatusTooManyRequests, state)
}

// renderPage executes the template into a buffer first so a template
// failure can still produce a clean error response.
func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, state report.FeedbackState) {
	ctx := r.Context()

	view, err := h.reports.Render(ctx, state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, pageTemplate, view); err != nil {
		h.logger.ErrorContext(ctx, "failed to execute page template", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, fmt.Errorf("render page: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.DebugContext(ctx, "client went away while writing page", slog.String("error", err.Error()))
	}
}

// ImagesHandler serves files from dir. Directory listings are refused.
func ImagesHandler(dir string, errorHandler *apierrors.ErrorHandler) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if name == "" || strings.HasSuffix(name, "/") {
			errorHandler.NotFound(w, r)
			return
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errorHandler.NotFound(w, r)
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + name
		fileServer.ServeHTTP(w, r2)
	})
}
