package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gdreport/internal/config"
	apierrors "gdreport/internal/errors"
	"gdreport/internal/feedback"
	"gdreport/internal/shared/testutil"
)

// newTestConfig returns defaults rooted in a temp directory holding the
// sample survey.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Paths.BaseDir = base

	paths, err := cfg.Paths.Resolve()
	require.NoError(t, err)
	cfg.Paths = paths
	cfg.Paths.DataFile = testutil.WriteSampleSurvey(t, filepath.Dir(paths.DataFile))
	require.NoError(t, os.MkdirAll(cfg.Paths.ImagesDir, 0o755))

	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) (*Application, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	return app, logs
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestNewApplication(t *testing.T) {
	t.Run("requires configuration", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		app, err := NewApplication(nil, logger)
		assert.Error(t, err)
		assert.Nil(t, app)
	})

	t.Run("wires services and server", func(t *testing.T) {
		cfg := newTestConfig(t)
		app, logs := newTestApplication(t, cfg)

		assert.NotNil(t, app.Router)
		assert.NotNil(t, app.Services.Report)
		assert.NotNil(t, app.Services.Feedback)
		assert.NotNil(t, app.Services.Health)
		assert.NotNil(t, app.Metrics)
		assert.Equal(t, cfg.Paths.FeedbackFile, app.Services.Store.Path())
		assert.Equal(t, "127.0.0.1:8080", app.Server.Addr)
		assert.Equal(t, cfg.Server.ReadTimeout, app.Server.ReadTimeout)
		assert.Equal(t, cfg.Server.MaxHeaderBytes, app.Server.MaxHeaderBytes)
		assert.DirExists(t, filepath.Dir(cfg.Paths.FeedbackFile))
		testutil.AssertLogContains(t, logs, slog.LevelInfo, "application starting")
	})

	t.Run("metrics disabled", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Telemetry.MetricsEnabled = false
		app, _ := newTestApplication(t, cfg)

		assert.Nil(t, app.Metrics)
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestApplication_Routes(t *testing.T) {
	app, _ := newTestApplication(t, newTestConfig(t))

	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		contentType  string
		wantStatus   int
		wantContains string
	}{
		{name: "report page", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantContains: `action="/feedback"`},
		{name: "report json", method: http.MethodGet, path: "/api/report", wantStatus: http.StatusOK, wantContains: `"available":true`},
		{name: "summary json", method: http.MethodGet, path: "/api/report/summary", wantStatus: http.StatusOK, wantContains: `"group":"Vietnam"`},
		{name: "summary csv", method: http.MethodGet, path: "/api/report/summary.csv", wantStatus: http.StatusOK, wantContains: "Vietnam,2,"},
		{name: "markdown", method: http.MethodGet, path: "/api/report/markdown", wantStatus: http.StatusOK, wantContains: "# "},
		{name: "health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK, wantContains: `"status":"ok"`},
		{name: "ready", method: http.MethodGet, path: "/api/health/ready", wantStatus: http.StatusOK, wantContains: `"feedback"`},
		{name: "live", method: http.MethodGet, path: "/api/health/live", wantStatus: http.StatusOK, wantContains: `"alive"`},
		{name: "version", method: http.MethodGet, path: "/api/version", wantStatus: http.StatusOK, wantContains: config.AppVersion},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "feedback list", method: http.MethodGet, path: "/api/feedback", wantStatus: http.StatusOK, wantContains: `"total":0`},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound, wantContains: apierrors.TypeNotFound},
		{name: "missing image", method: http.MethodGet, path: "/images/mentor.jpg", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodDelete, path: "/api/feedback", wantStatus: http.StatusMethodNotAllowed},
		{
			name:        "feedback wrong content type",
			method:      http.MethodPost,
			path:        "/api/feedback",
			body:        "role=Friend",
			contentType: "text/plain",
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "feedback invalid json",
			method:      http.MethodPost,
			path:        "/api/feedback",
			body:        `{"role":`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := serve(app, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			if tt.wantContains != "" {
				assert.Contains(t, rec.Body.String(), tt.wantContains)
			}
		})
	}
}

func TestApplication_SubmitFeedback(t *testing.T) {
	cfg := newTestConfig(t)
	app, _ := newTestApplication(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback",
		strings.NewReader(`{"name":"Lan","role":"Classmate","rating":4,"comments":"Clear charts"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(app, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	form := url.Values{"role": {"Professor"}, "rating": {"5"}, "comments": {"Good reflection"}}
	req = httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(app, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, config.FeedbackThanksURL, rec.Header().Get("Location"))

	records, err := feedback.NewLog(cfg.Paths.FeedbackFile, nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Lan", records[0].Name)
	assert.Equal(t, feedback.RoleProfessor, records[1].Role)

	rec = serve(app, httptest.NewRequest(http.MethodGet, "/api/feedback?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int               `json:"count"`
		Total int               `json:"total"`
		Data  []feedback.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "Good reflection", body.Data[0].Comments)
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Security.RateLimit.RPS = 0.001
	cfg.Security.RateLimit.Burst = 1
	app, logs := newTestApplication(t, cfg)

	apiSubmit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(`{"role":"Friend","rating":3}`))
		req.Header.Set("Content-Type", "application/json")
		return serve(app, req)
	}
	formSubmit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader("role=Friend&rating=3"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(app, req)
	}

	assert.Equal(t, http.StatusCreated, apiSubmit().Code)
	rec := apiSubmit()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeRateLimit)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// The form has its own budget and answers with the page
	assert.Equal(t, http.StatusSeeOther, formSubmit().Code)
	rec = formSubmit()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	// Reads are never limited
	assert.Equal(t, http.StatusOK, serve(app, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "rate limit exceeded")
}

func TestApplication_RateLimitDisabled(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Security.RateLimit.Enabled = false
	cfg.Security.RateLimit.Burst = 1
	app, _ := newTestApplication(t, cfg)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(`{"role":"Other","rating":2}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusCreated, serve(app, req).Code)
	}
}

func TestApplication_BodyLimit(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Security.MaxFeedbackBody = 64
	app, _ := newTestApplication(t, cfg)

	big := fmt.Sprintf(`{"role":"Friend","rating":3,"comments":%q}`, strings.Repeat("x", 200))
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(app, req).Code)

	form := url.Values{"role": {"Friend"}, "rating": {"3"}, "comments": {strings.Repeat("y", 200)}}
	req = httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(app, req).Code)
}

func TestApplication_CORS(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Security.AllowedOrigins = []string{"https://report.example"}
	app, _ := newTestApplication(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://report.example")
	rec := serve(app, req)
	assert.Equal(t, "https://report.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = serve(app, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_MissingSurvey(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, os.Remove(cfg.Paths.DataFile))
	app, _ := newTestApplication(t, cfg)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not find")

	rec = serve(app, httptest.NewRequest(http.MethodGet, "/api/report/summary", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeDataUnavailable)
}

func TestApplication_Serve(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app, logs := newTestApplication(t, newTestConfig(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/api/health/live")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "application shutdown complete")
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "startup health check passed")
}

func TestApplication_performStartupHealthCheck(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, os.Remove(cfg.Paths.ImagesDir))
	app, logs := newTestApplication(t, cfg)

	app.performStartupHealthCheck(context.Background())

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "startup health check warning")
	testutil.AssertLogAttr(t, logs, "check", "images")
	assert.False(t, logs.ContainsMessage("startup health check passed"))
}

func TestApplication_Serve_ListenerClosed(t *testing.T) {
	app, _ := newTestApplication(t, newTestConfig(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln.Close()

	err = app.Serve(context.Background(), ln)
	assert.Error(t, err)
}
