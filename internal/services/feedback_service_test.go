package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "gdreport/internal/errors"
	"gdreport/internal/feedback"
	"gdreport/internal/shared/testutil"
)

func fixedNow() time.Time {
	return time.Date(2024, 11, 3, 9, 30, 15, 500_000_000, time.FixedZone("ICT", 7*3600))
}

func TestFeedbackService_Submit(t *testing.T) {
	tests := []struct {
		name       string
		input      FeedbackInput
		setupMock  func(*MockFeedbackStore)
		wantType   apierrors.ErrorType
		wantFields []string
	}{
		{
			name:  "saved",
			input: FeedbackInput{Name: "  Minh ", Role: "Classmate", Rating: 5, Comments: "Clear examples"},
			setupMock: func(m *MockFeedbackStore) {
				m.On("Append", mock.Anything, mock.MatchedBy(func(r feedback.Record) bool {
					return r.Name == "Minh" && r.Role == feedback.RoleClassmate &&
						r.Timestamp.Equal(time.Date(2024, 11, 3, 2, 30, 15, 0, time.UTC))
				})).Return(nil)
			},
		},
		{
			name:  "invalid fields",
			input: FeedbackInput{Role: "Stranger", Rating: 9},
			setupMock: func(m *MockFeedbackStore) {
				m.On("Append", mock.Anything, mock.Anything).Return(&feedback.ValidationError{Fields: []feedback.FieldError{
					{Field: "role", Message: "role must be one of: Professor, Classmate, Friend, Other"},
					{Field: "rating", Message: "rating must be between 1 and 5"},
				}})
			},
			wantType:   apierrors.ErrTypeValidation,
			wantFields: []string{"role", "rating"},
		},
		{
			name:  "write failure",
			input: FeedbackInput{Role: "Friend", Rating: 3},
			setupMock: func(m *MockFeedbackStore) {
				m.On("Append", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: disk full", feedback.ErrWriteFailed))
			},
			wantType: apierrors.ErrTypeStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockFeedbackStore)
			tt.setupMock(store)
			logger, _ := testutil.NewTestLogger(t)

			svc := NewFeedbackService(store, nil, logger)
			svc.now = fixedNow

			rec, err := svc.Submit(context.Background(), tt.input)
			store.AssertExpectations(t)

			if tt.wantType == "" {
				require.NoError(t, err)
				assert.Equal(t, 5, rec.Rating)
				return
			}

			var appErr *apierrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type)

			if len(tt.wantFields) > 0 {
				fields, ok := appErr.Context["errors"].([]apierrors.ValidationError)
				require.True(t, ok)
				var names []string
				for _, f := range fields {
					names = append(names, f.Field)
				}
				assert.Equal(t, tt.wantFields, names)

				var verr *feedback.ValidationError
				assert.True(t, errors.As(err, &verr), "the field errors stay reachable")
			}
		})
	}
}

func TestFeedbackService_SubmitAndList(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	log := feedback.NewLog(filepath.Join(t.TempDir(), "feedback.csv"), logger)
	svc := NewFeedbackService(log, nil, logger)
	svc.now = fixedNow

	_, err := svc.Submit(context.Background(), FeedbackInput{Role: "Professor", Rating: 4, Comments: "Good, thorough"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), FeedbackInput{Role: "Other", Rating: 0})
	require.Error(t, err)

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Good, thorough", records[0].Comments)
}

func TestFeedbackService_ListError(t *testing.T) {
	store := new(MockFeedbackStore)
	store.On("List", mock.Anything).Return(nil, errors.New("bad row"))
	logger, _ := testutil.NewTestLogger(t)

	_, err := NewFeedbackService(store, nil, logger).List(context.Background())

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeParsing, appErr.Type)
}
