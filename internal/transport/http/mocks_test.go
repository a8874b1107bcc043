package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"gdreport/internal/feedback"
	"gdreport/internal/report"
	"gdreport/internal/services"
	"gdreport/internal/survey"
)

// MockReportService is a mock implementation of ReportServiceInterface.
// Render may be given a func(report.FeedbackState) report.View so the view
// reflects the state the handler passed in.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Render(ctx context.Context, state report.FeedbackState) (report.View, error) {
	args := m.Called(ctx, state)
	switch v := args.Get(0).(type) {
	case func(report.FeedbackState) report.View:
		return v(state), args.Error(1)
	case report.View:
		return v, args.Error(1)
	}
	return report.View{}, args.Error(1)
}

func (m *MockReportService) Markdown(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) Survey(ctx context.Context) (*survey.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*survey.Table), args.Error(1)
}

func (m *MockReportService) Summary(ctx context.Context) (*survey.SummaryTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*survey.SummaryTable), args.Error(1)
}

func (m *MockReportService) Labels() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockReportService) ExportSummary(ctx context.Context, format string, out io.Writer) error {
	args := m.Called(ctx, format, out)
	if body := args.String(0); body != "" {
		io.WriteString(out, body)
	}
	return args.Error(1)
}

// MockFeedbackService is a mock implementation of FeedbackServiceInterface
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Submit(ctx context.Context, in services.FeedbackInput) (feedback.Record, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(feedback.Record), args.Error(1)
}

func (m *MockFeedbackService) List(ctx context.Context) ([]feedback.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]feedback.Record), args.Error(1)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
