package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"gdreport/internal/config"
	"gdreport/internal/shared/testutil"
)

func TestOTelInitialization(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(nil, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.TelemetryConfig
		wantErr     bool
		wantTracing bool
		wantMetrics bool
	}{
		{name: "stdout traces", cfg: config.TelemetryConfig{TracesExporter: "stdout", MetricsEnabled: true}, wantTracing: true, wantMetrics: true},
		{name: "metrics disabled", cfg: config.TelemetryConfig{TracesExporter: "none"}},
		{name: "unknown exporter", cfg: config.TelemetryConfig{TracesExporter: "zipkin"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)

			providers, err := InitializeOTel(NewOTelConfig(tt.cfg), logger)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer providers.Shutdown(context.Background())

			assert.Equal(t, tt.wantTracing, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.MeterProvider != nil)
		})
	}
}

func TestNewOTelConfig(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{ServiceName: "custom", TracesExporter: "stdout", MetricsEnabled: true})

	assert.Equal(t, "custom", cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, config.AppVersion, cfg.ServiceVersion)
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	server := httptest.NewServer(h)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestBusinessMetrics_Exported(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(DefaultOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordRender(ctx, metrics, "html", "ok", 20*time.Millisecond)
	RecordSurveyLoad(ctx, metrics, "ok", 12)
	RecordSurveyLoad(ctx, metrics, "missing", 0)
	RecordSummary(ctx, metrics, 3)
	RecordExport(ctx, metrics, "xlsx")
	RecordFeedback(ctx, metrics, "saved", time.Millisecond)
	RecordFeedback(ctx, metrics, "failed", time.Millisecond)

	body := scrape(t, providers.PrometheusHTTP)
	for _, name := range []string{
		"report_renders",
		"report_render_duration_seconds",
		"survey_loads",
		"survey_records",
		"summary_groups",
		"summary_exports",
		"feedback_submissions",
		"system_errors",
		"go_goroutines",
	} {
		assert.Contains(t, body, name)
	}
	assert.Contains(t, body, `format="xlsx"`)
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		RecordRender(ctx, nil, "api", "error", time.Second)
		RecordSurveyLoad(ctx, nil, "ok", 1)
		RecordSummary(ctx, nil, 1)
		RecordExport(ctx, nil, "csv")
		RecordFeedback(ctx, nil, "saved", time.Second)
	})
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "report.render")
	assert.NotEmpty(t, TraceIDFromContext(ctx))

	AddSpanEvent(ctx, "survey.loaded", attribute.Int("records", 4))
	RecordError(ctx, errors.New("column missing"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 2)
	assert.Equal(t, "survey.loaded", spans[0].Events()[0].Name)
	assert.Equal(t, "column missing", spans[0].Status().Description)

	assert.Empty(t, TraceIDFromContext(context.Background()))
}
