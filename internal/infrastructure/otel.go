package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"gdreport/internal/config"
)

const (
	ServiceName = config.AppName
	MeterName   = "gdreport"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	EnableMetrics  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Registry       *promclient.Registry
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: config.AppVersion,
		Environment:    env,
		TraceExporter:  "none",
		EnableMetrics:  true,
		SampleRatio:    1.0,
	}
}

// NewOTelConfig derives the OpenTelemetry configuration from the telemetry section
func NewOTelConfig(cfg config.TelemetryConfig) *OTelConfig {
	out := DefaultOTelConfig()
	if cfg.ServiceName != "" {
		out.ServiceName = cfg.ServiceName
	}
	if cfg.TracesExporter != "" {
		out.TraceExporter = cfg.TracesExporter
	}
	out.EnableMetrics = cfg.MetricsEnabled
	return out
}

// InitializeOTel sets up tracing and metrics providers
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}

	ctx := context.Background()

	logger.InfoContext(ctx, "initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res := createResource(cfg)

	providers := &OTelProviders{
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	// Set up global propagators for trace context
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	case "none", "":
		// No exporter; the global tracer stays a no-op
		providers.Tracer = otel.Tracer(MeterName)
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up a Prometheus-backed meter provider on a private
// registry that also carries the Go runtime and process collectors.
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return fmt.Errorf("failed to register process collector: %w", err)
	}

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

	otel.SetMeterProvider(mp)

	providers.Logger.InfoContext(ctx, "metrics initialized", slog.String("exporter", "prometheus"))

	return nil
}

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Report metrics
	ReportRendersTotal    metric.Int64Counter
	ReportRenderDuration  metric.Float64Histogram
	SurveyLoadsTotal      metric.Int64Counter
	SurveyRecords         metric.Int64Histogram
	SummaryGroups         metric.Int64Histogram
	SummaryExportsTotal   metric.Int64Counter
	FeedbackSubmissions   metric.Int64Counter
	FeedbackWriteDuration metric.Float64Histogram

	// System metrics
	SystemErrors metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.ReportRendersTotal, err = meter.Int64Counter(
		"report_renders_total",
		metric.WithDescription("Total number of report renders by surface and survey status"),
	); err != nil {
		return nil, err
	}

	if m.ReportRenderDuration, err = meter.Float64Histogram(
		"report_render_duration_seconds",
		metric.WithDescription("Time spent loading, aggregating and rendering one report view"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.SurveyLoadsTotal, err = meter.Int64Counter(
		"survey_loads_total",
		metric.WithDescription("Total number of survey file loads by outcome"),
	); err != nil {
		return nil, err
	}

	if m.SurveyRecords, err = meter.Int64Histogram(
		"survey_records",
		metric.WithDescription("Number of records in each loaded survey table"),
	); err != nil {
		return nil, err
	}

	if m.SummaryGroups, err = meter.Int64Histogram(
		"summary_groups",
		metric.WithDescription("Number of groups in each computed summary"),
	); err != nil {
		return nil, err
	}

	if m.SummaryExportsTotal, err = meter.Int64Counter(
		"summary_exports_total",
		metric.WithDescription("Total number of summary exports by format"),
	); err != nil {
		return nil, err
	}

	if m.FeedbackSubmissions, err = meter.Int64Counter(
		"feedback_submissions_total",
		metric.WithDescription("Total number of feedback submissions by outcome"),
	); err != nil {
		return nil, err
	}

	if m.FeedbackWriteDuration, err = meter.Float64Histogram(
		"feedback_write_duration_seconds",
		metric.WithDescription("Time spent appending one feedback record"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.SystemErrors, err = meter.Int64Counter(
		"system_errors_total",
		metric.WithDescription("Total number of system errors"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// AddSpanEvent adds an event to the current span with structured attributes
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// RecordRender records one report render. status is the survey section
// outcome: "ok", "unavailable" or "error".
func RecordRender(ctx context.Context, metrics *BusinessMetrics, surface, status string, duration time.Duration) {
	if metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("surface", surface),
		attribute.String("status", status),
	)
	metrics.ReportRendersTotal.Add(ctx, 1, attrs)
	metrics.ReportRenderDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSurveyLoad records the outcome of one survey load
func RecordSurveyLoad(ctx context.Context, metrics *BusinessMetrics, status string, records int) {
	if metrics == nil {
		return
	}

	metrics.SurveyLoadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if status == "ok" {
		metrics.SurveyRecords.Record(ctx, int64(records))
	}
}

// RecordSummary records the size of a computed summary
func RecordSummary(ctx context.Context, metrics *BusinessMetrics, groups int) {
	if metrics == nil {
		return
	}
	metrics.SummaryGroups.Record(ctx, int64(groups))
}

// RecordExport records one summary export
func RecordExport(ctx context.Context, metrics *BusinessMetrics, format string) {
	if metrics == nil {
		return
	}
	metrics.SummaryExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordFeedback records one feedback submission. status is "saved",
// "invalid" or "failed".
func RecordFeedback(ctx context.Context, metrics *BusinessMetrics, status string, duration time.Duration) {
	if metrics == nil {
		return
	}

	metrics.FeedbackSubmissions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if status != "invalid" {
		metrics.FeedbackWriteDuration.Record(ctx, duration.Seconds())
	}
	if status == "failed" {
		metrics.SystemErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("component", "feedback")))
	}
}
