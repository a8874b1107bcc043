package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "gdreport/internal/errors"
	"gdreport/internal/exporter"
	"gdreport/internal/infrastructure"
	"gdreport/internal/report"
	"gdreport/internal/survey"
)

// Export formats accepted by ExportSummary.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportFormats lists the supported summary export formats.
func ExportFormats() []string {
	return []string{FormatCSV, FormatXLSX}
}

// ReportService runs one load, aggregate and render pass per call. It holds
// no state between calls, so every request sees the file as it is on disk.
type ReportService struct {
	dataFile  string
	imagesDir string
	imageBase string
	schema    survey.Schema
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// ReportServiceConfig holds the locations a ReportService reads from.
type ReportServiceConfig struct {
	DataFile  string
	ImagesDir string
	// ImageBase is the URL prefix the images directory is served under.
	ImageBase string
	Schema    survey.Schema
}

// NewReportService creates a report service. metrics may be nil.
func NewReportService(cfg ReportServiceConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		dataFile:  cfg.DataFile,
		imagesDir: cfg.ImagesDir,
		imageBase: cfg.ImageBase,
		schema:    cfg.Schema,
		metrics:   metrics,
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    logger.With(slog.String("service", "report")),
	}
}

// DataFile returns the survey file the service reads.
func (s *ReportService) DataFile() string {
	return s.dataFile
}

// Render builds the full page. A missing or unusable survey is reported
// inside the view; only a cancelled context is returned as an error.
func (s *ReportService) Render(ctx context.Context, state report.FeedbackState) (report.View, error) {
	ctx, span := s.tracer.Start(ctx, "report.render")
	defer span.End()

	start := time.Now()

	table, loadErr := s.load(ctx)
	if loadErr != nil && isContextErr(loadErr) {
		return report.View{}, loadErr
	}

	view := report.Render(report.Inputs{
		Table:     table,
		LoadErr:   loadErr,
		DataFile:  s.dataFile,
		Schema:    s.schema,
		Images:    s.probeImages(),
		ImageBase: s.imageBase,
		Feedback:  state,
	})

	status := "ok"
	switch {
	case !view.Survey.Available && view.Survey.Error == "":
		status = "unavailable"
	case view.Survey.Error != "":
		status = "error"
	}
	span.SetAttributes(attribute.String("survey.status", status))
	infrastructure.RecordRender(ctx, s.metrics, "page", status, time.Since(start))
	if view.Survey.SummaryData != nil {
		infrastructure.RecordSummary(ctx, s.metrics, len(view.Survey.SummaryData.Rows))
	}

	if view.Survey.Error != "" {
		s.logger.WarnContext(ctx, "survey section rendered with error",
			slog.String("data_file", s.dataFile),
			slog.String("error", view.Survey.Error))
	}

	return view, nil
}

// Markdown renders the page as a Markdown document.
func (s *ReportService) Markdown(ctx context.Context) (string, error) {
	view, err := s.Render(ctx, report.FeedbackState{})
	if err != nil {
		return "", err
	}
	return report.Markdown(view), nil
}

// Survey loads the raw survey table.
func (s *ReportService) Survey(ctx context.Context) (*survey.Table, error) {
	ctx, span := s.tracer.Start(ctx, "report.survey")
	defer span.End()

	table, err := s.load(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, s.wrap(err)
	}
	return table, nil
}

// Summary loads the survey and aggregates it by the configured schema.
func (s *ReportService) Summary(ctx context.Context) (*survey.SummaryTable, error) {
	ctx, span := s.tracer.Start(ctx, "report.summary")
	defer span.End()

	table, err := s.load(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, s.wrap(err)
	}

	summary, err := survey.AggregateSchema(table, s.schema)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, s.wrap(err)
	}

	span.SetAttributes(attribute.Int("summary.groups", len(summary.Rows)))
	infrastructure.RecordSummary(ctx, s.metrics, len(summary.Rows))
	return summary, nil
}

// Labels returns the display label of each metric column.
func (s *ReportService) Labels() []string {
	return s.schema.Labels()
}

// ExportSummary writes the summary to out in the given format.
func (s *ReportService) ExportSummary(ctx context.Context, format string, out io.Writer) error {
	if !slices.Contains(ExportFormats(), format) {
		return apierrors.NewAppValidationError("unsupported export format", []apierrors.ValidationError{
			{Field: "format", Message: fmt.Sprintf("format must be one of: %s, %s", FormatCSV, FormatXLSX)},
		}, nil)
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		return err
	}

	labels := s.schema.Labels()
	if format == FormatXLSX {
		err = exporter.WriteSummaryXLSX(out, summary, labels, report.Title)
	} else {
		header, rows := exporter.SummaryRecords(summary, labels)
		err = exporter.EncodeCSV(out, header, rows, true)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "summary export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		return fmt.Errorf("export summary as %s: %w", format, err)
	}

	infrastructure.RecordExport(ctx, s.metrics, format)
	s.logger.InfoContext(ctx, "summary exported",
		slog.String("format", format),
		slog.Int("groups", len(summary.Rows)))
	return nil
}

func (s *ReportService) load(ctx context.Context) (*survey.Table, error) {
	table, err := survey.Load(ctx, s.dataFile)
	switch {
	case err == nil:
		infrastructure.RecordSurveyLoad(ctx, s.metrics, "ok", table.Len())
		s.logger.DebugContext(ctx, "survey loaded",
			slog.String("data_file", s.dataFile),
			slog.Int("records", table.Len()))
	case errors.Is(err, survey.ErrDataUnavailable):
		infrastructure.RecordSurveyLoad(ctx, s.metrics, "unavailable", 0)
		s.logger.InfoContext(ctx, "survey data unavailable", slog.String("data_file", s.dataFile))
	case isContextErr(err):
	default:
		infrastructure.RecordSurveyLoad(ctx, s.metrics, "error", 0)
		s.logger.ErrorContext(ctx, "survey load failed",
			slog.String("data_file", s.dataFile),
			slog.String("error", err.Error()))
	}
	return table, err
}

// wrap converts survey errors into application errors for the API surface.
func (s *ReportService) wrap(err error) error {
	switch {
	case isContextErr(err):
		return err
	case errors.Is(err, survey.ErrDataUnavailable):
		return apierrors.NewNotFoundError("survey data", err).
			WithContext("data_file", filepath.Base(s.dataFile))
	case errors.Is(err, survey.ErrMissingColumn):
		return apierrors.NewSchemaError("survey schema mismatch", err)
	case errors.Is(err, survey.ErrMalformed):
		return apierrors.NewParsingError("survey file could not be parsed", err)
	default:
		return fmt.Errorf("read survey: %w", err)
	}
}

func (s *ReportService) probeImages() map[string]bool {
	images := make(map[string]bool, 1)
	for _, name := range []string{report.MentorImage} {
		info, err := os.Stat(filepath.Join(s.imagesDir, name))
		images[name] = err == nil && !info.IsDir()
	}
	return images
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
