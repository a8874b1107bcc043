package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gdreport/internal/errors"
	"gdreport/internal/middleware"
	"gdreport/internal/report"
	"gdreport/internal/services"
	"gdreport/internal/survey"
)

// Export file names and content types.
const (
	summaryFileBase = "survey_summary"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler exposes the report as JSON, Markdown and file exports
type ReportHandler struct {
	service      ReportServiceInterface
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Group(func(r chi.Router) {
		r.Get("/", h.GetReport)
		r.Get("/survey", h.GetSurvey)
		r.Get("/summary", h.GetSummary)
	})

	r.Get("/markdown", h.GetMarkdown)
	r.Get("/summary.csv", h.exportAs(services.FormatCSV))
	r.Get("/summary.xlsx", h.exportAs(services.FormatXLSX))
	r.Get("/export", h.Export)

	return r
}

// SurveyResponse is the raw survey table
type SurveyResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Count   int        `json:"count"`
}

// SummaryResponse is the aggregated survey with display labels
type SummaryResponse struct {
	Labels  []string             `json:"labels"`
	Summary *survey.SummaryTable `json:"summary"`
	Groups  int                  `json:"groups"`
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Render(r.Context(), report.FeedbackState{})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetSurvey handles GET /api/report/survey
func (h *ReportHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Survey(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, SurveyResponse{
		Columns: table.Columns,
		Rows:    table.Rows(),
		Count:   table.Len(),
	})
}

// GetSummary handles GET /api/report/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, SummaryResponse{
		Labels:  h.service.Labels(),
		Summary: summary,
		Groups:  len(summary.Rows),
	})
}

// GetMarkdown handles GET /api/report/markdown
func (h *ReportHandler) GetMarkdown(w http.ResponseWriter, r *http.Request) {
	md, err := h.service.Markdown(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if _, err := io.WriteString(w, md); err != nil {
		h.logger.DebugContext(r.Context(), "client went away while writing markdown", slog.String("error", err.Error()))
	}
}

// Export handles GET /api/report/export?format=csv|xlsx
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := h.query.ValidateEnum(w, r, "format", services.ExportFormats(), services.FormatCSV)
	if !ok {
		return
	}
	h.writeExport(w, r, format)
}

func (h *ReportHandler) exportAs(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeExport(w, r, format)
	}
}

// writeExport buffers the whole file so a failure still yields a problem
// response instead of a truncated download.
func (h *ReportHandler) writeExport(w http.ResponseWriter, r *http.Request, format string) {
	var buf bytes.Buffer
	if err := h.service.ExportSummary(r.Context(), format, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	contentType := contentTypeCSV
	if format == services.FormatXLSX {
		contentType = contentTypeXLSX
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", summaryFileBase+"."+format))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export download interrupted",
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}
