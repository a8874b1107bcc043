package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "gdreport/internal/errors"
	"gdreport/internal/feedback"
	"gdreport/internal/infrastructure"
)

// FeedbackInput is a submission as it arrives from a form or a JSON body.
type FeedbackInput struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

// FeedbackStore is the append-only log behind FeedbackService.
type FeedbackStore interface {
	Append(ctx context.Context, rec feedback.Record) error
	List(ctx context.Context) ([]feedback.Record, error)
}

// FeedbackService validates submissions and appends them to the log.
type FeedbackService struct {
	store   FeedbackStore
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
	now     func() time.Time
}

// NewFeedbackService creates a feedback service. metrics may be nil.
func NewFeedbackService(store FeedbackStore, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *FeedbackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackService{
		store:   store,
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.MeterName),
		logger:  logger.With(slog.String("service", "feedback")),
		now:     time.Now,
	}
}

// Submit stamps the input with the current time and appends it. Invalid
// input yields a validation AppError listing each field; a failed write
// yields a storage AppError.
func (s *FeedbackService) Submit(ctx context.Context, in FeedbackInput) (feedback.Record, error) {
	ctx, span := s.tracer.Start(ctx, "feedback.submit")
	defer span.End()

	start := time.Now()
	rec := feedback.NewRecord(in.Name, feedback.Role(in.Role), in.Rating, in.Comments, s.now())

	err := s.store.Append(ctx, rec)
	if err == nil {
		infrastructure.RecordFeedback(ctx, s.metrics, "saved", time.Since(start))
		span.SetAttributes(attribute.String("feedback.role", string(rec.Role)))
		return rec, nil
	}

	infrastructure.RecordError(ctx, err)

	var verr *feedback.ValidationError
	switch {
	case errors.As(err, &verr):
		infrastructure.RecordFeedback(ctx, s.metrics, "invalid", time.Since(start))
		fields := make([]apierrors.ValidationError, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = apierrors.ValidationError{Field: f.Field, Message: f.Message}
		}
		s.logger.InfoContext(ctx, "feedback rejected", slog.Int("invalid_fields", len(fields)))
		return feedback.Record{}, apierrors.NewAppValidationError("feedback is invalid", fields, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return feedback.Record{}, err
	default:
		infrastructure.RecordFeedback(ctx, s.metrics, "failed", time.Since(start))
		s.logger.ErrorContext(ctx, "feedback could not be saved", slog.String("error", err.Error()))
		return feedback.Record{}, apierrors.NewStorageError("feedback could not be saved", err)
	}
}

// List returns every stored submission in the order received.
func (s *FeedbackService) List(ctx context.Context) ([]feedback.Record, error) {
	ctx, span := s.tracer.Start(ctx, "feedback.list")
	defer span.End()

	records, err := s.store.List(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "feedback log unreadable", slog.String("error", err.Error()))
		return nil, apierrors.NewParsingError("feedback log could not be read", err)
	}
	span.SetAttributes(attribute.Int("feedback.count", len(records)))
	return records, nil
}
