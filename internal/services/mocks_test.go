package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gdreport/internal/feedback"
)

// MockFeedbackStore is a mock for the FeedbackStore interface
type MockFeedbackStore struct {
	mock.Mock
}

func (m *MockFeedbackStore) Append(ctx context.Context, rec feedback.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockFeedbackStore) List(ctx context.Context) ([]feedback.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]feedback.Record), args.Error(1)
}
