package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gdreport/internal/config"
	apierrors "gdreport/internal/errors"
	"gdreport/internal/feedback"
	"gdreport/internal/report"
	"gdreport/internal/services"
	"gdreport/internal/shared/testutil"
	"gdreport/internal/survey"
)

func sampleView(state report.FeedbackState) report.View {
	return report.Render(report.Inputs{
		Table:    survey.NewTable(testutil.SurveyHeader(), testutil.SampleSurveyRows()),
		DataFile: "survey_data.csv",
		Schema:   survey.DefaultSchema(),
		Feedback: state,
	})
}

func unavailableView(state report.FeedbackState) report.View {
	return report.Render(report.Inputs{
		LoadErr:  survey.ErrDataUnavailable,
		DataFile: "survey_data.csv",
		Schema:   survey.DefaultSchema(),
		Feedback: state,
	})
}

func newTestPageHandler(t *testing.T, reports *MockReportService, fb *MockFeedbackService) *PageHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h, err := NewPageHandler(reports, fb, apierrors.NewErrorHandler(logger, false), logger)
	require.NoError(t, err)
	return h
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPageHandler_Index(t *testing.T) {
	tests := []struct {
		name         string
		view         func(report.FeedbackState) report.View
		query        string
		wantContains []string
		wantAbsent   []string
	}{
		{
			name: "survey available",
			view: sampleView,
			wantContains: []string{
				"<title>" + report.PageTitle + "</title>",
				"<strong>BUS 222F – Global Dexterity</strong>",
				"<svg viewBox=",
				"<polyline",
				"Vietnam",
				"Comfort with disagreement",
				`<form method="post" action="/feedback">`,
			},
			wantAbsent: []string{`class="success">Thank you! Your feedback was saved.`},
		},
		{
			name:         "survey unavailable",
			view:         unavailableView,
			wantContains: []string{`class="notice">Could not find`, "survey_data.csv"},
			wantAbsent:   []string{"<polyline"},
		},
		{
			name:         "after a submission",
			view:         sampleView,
			query:        "?submitted=1",
			wantContains: []string{"Thank you! Your feedback was saved."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := new(MockReportService)
			reports.On("Render", mock.Anything, mock.Anything).Return(tt.view, nil)
			h := newTestPageHandler(t, reports, new(MockFeedbackService))

			rec := httptest.NewRecorder()
			h.Index(rec, httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			for _, s := range tt.wantContains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.wantAbsent {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestPageHandler_Index_RenderError(t *testing.T) {
	reports := new(MockReportService)
	reports.On("Render", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)
	h := newTestPageHandler(t, reports, new(MockFeedbackService))

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestPageHandler_SubmitFeedback(t *testing.T) {
	form := url.Values{
		"name":     {"Minh"},
		"role":     {"Classmate"},
		"rating":   {"4"},
		"comments": {"Loved the <diary> section"},
	}

	t.Run("saved redirects", func(t *testing.T) {
		fb := new(MockFeedbackService)
		fb.On("Submit", mock.Anything, services.FeedbackInput{
			Name: "Minh", Role: "Classmate", Rating: 4, Comments: "Loved the <diary> section",
		}).Return(feedback.Record{Role: feedback.RoleClassmate, Rating: 4}, nil)
		h := newTestPageHandler(t, new(MockReportService), fb)

		rec := httptest.NewRecorder()
		h.SubmitFeedback(rec, postForm(form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, config.FeedbackThanksURL, rec.Header().Get("Location"))
		fb.AssertExpectations(t)
	})

	t.Run("invalid fields re-render", func(t *testing.T) {
		verr := &feedback.ValidationError{Fields: []feedback.FieldError{
			{Field: "rating", Message: "rating must be between 1 and 5"},
		}}
		fb := new(MockFeedbackService)
		fb.On("Submit", mock.Anything, mock.Anything).
			Return(feedback.Record{}, apierrors.NewAppValidationError("feedback is invalid", nil, verr))
		reports := new(MockReportService)
		reports.On("Render", mock.Anything, mock.MatchedBy(func(s report.FeedbackState) bool {
			return s.Submitted && s.Error == msgFixFields && s.FieldErrors["rating"] != ""
		})).Return(sampleView, nil)
		h := newTestPageHandler(t, reports, fb)

		bad := url.Values{"name": {"Minh"}, "role": {"Classmate"}, "rating": {"nine"}}
		rec := httptest.NewRecorder()
		h.SubmitFeedback(rec, postForm(bad))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `class="field-error">rating must be between 1 and 5`)
		assert.Contains(t, body, `value="Minh"`)
		assert.NotContains(t, body, "Thank you! Your feedback was saved.")
		reports.AssertExpectations(t)
	})

	t.Run("write failure re-renders with error", func(t *testing.T) {
		fb := new(MockFeedbackService)
		fb.On("Submit", mock.Anything, mock.Anything).
			Return(feedback.Record{}, apierrors.NewStorageError("feedback could not be saved", feedback.ErrWriteFailed))
		reports := new(MockReportService)
		reports.On("Render", mock.Anything, mock.Anything).Return(sampleView, nil)
		h := newTestPageHandler(t, reports, fb)

		rec := httptest.NewRecorder()
		h.SubmitFeedback(rec, postForm(form))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, msgWriteFailed)
		assert.Contains(t, body, "Loved the &lt;diary&gt; section")
	})
}

func TestPageHandler_RateLimited(t *testing.T) {
	reports := new(MockReportService)
	reports.On("Render", mock.Anything, mock.Anything).Return(sampleView, nil)
	h := newTestPageHandler(t, reports, new(MockFeedbackService))

	rec := httptest.NewRecorder()
	h.RateLimited(rec, postForm(url.Values{"name": {"Lan"}}))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), msgRateLimited)
	assert.Contains(t, rec.Body.String(), `value="Lan"`)
}

func TestImagesHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, report.MentorImage), []byte("jpeg-bytes"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "private"), 0o755))

	logger, _ := testutil.NewTestLogger(t)
	r := chi.NewRouter()
	r.Get("/images/*", ImagesHandler(dir, apierrors.NewErrorHandler(logger, false)).ServeHTTP)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{path: "/images/" + report.MentorImage, wantStatus: http.StatusOK},
		{path: "/images/missing.jpg", wantStatus: http.StatusNotFound},
		{path: "/images/private/", wantStatus: http.StatusNotFound},
		{path: "/images/", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
