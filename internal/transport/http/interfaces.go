package http

import (
	"context"
	"io"

	"gdreport/internal/feedback"
	"gdreport/internal/report"
	"gdreport/internal/services"
	"gdreport/internal/survey"
)

// ReportServiceInterface defines the report operations the handlers need
type ReportServiceInterface interface {
	Render(ctx context.Context, state report.FeedbackState) (report.View, error)
	Markdown(ctx context.Context) (string, error)
	Survey(ctx context.Context) (*survey.Table, error)
	Summary(ctx context.Context) (*survey.SummaryTable, error)
	Labels() []string
	ExportSummary(ctx context.Context, format string, out io.Writer) error
}

// FeedbackServiceInterface defines the feedback operations the handlers need
type FeedbackServiceInterface interface {
	Submit(ctx context.Context, in services.FeedbackInput) (feedback.Record, error)
	List(ctx context.Context) ([]feedback.Record, error)
}

// HealthServiceInterface defines the health operations the handlers need
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
