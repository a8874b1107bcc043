package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdreport/internal/config"
	"gdreport/internal/shared/testutil"
)

func testPaths(dir string) config.PathsConfig {
	return config.PathsConfig{
		BaseDir:      dir,
		DataFile:     filepath.Join(dir, "data", "survey_data.csv"),
		FeedbackFile: filepath.Join(dir, "data", "feedback.csv"),
		ImagesDir:    filepath.Join(dir, "images"),
		LogsDir:      filepath.Join(dir, "logs"),
	}
}

func TestHealthService_HealthCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", testPaths(t.TempDir()), logger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	t.Run("missing survey is only a warning", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		hs := NewHealthService("1.0.0", testPaths(t.TempDir()), logger)

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, StatusReady, status.Status)
		assert.Equal(t, StatusWarning, status.Services["survey"].(ServiceHealth).Status)
		assert.Equal(t, StatusWarning, status.Services["images"].(ServiceHealth).Status)
		assert.Equal(t, StatusReady, status.Services["feedback"].(ServiceHealth).Status)
		assert.True(t, hs.Ready(context.Background()))
	})

	t.Run("all present", func(t *testing.T) {
		dir := t.TempDir()
		paths := testPaths(dir)
		require.NoError(t, os.MkdirAll(paths.ImagesDir, 0o755))
		require.NoError(t, os.MkdirAll(filepath.Dir(paths.DataFile), 0o755))
		testutil.WriteSampleSurvey(t, filepath.Dir(paths.DataFile))

		logger, _ := testutil.NewTestLogger(t)
		status := NewHealthService("1.0.0", paths, logger).ReadinessCheck(context.Background())

		for name, svc := range status.Services {
			assert.Equal(t, StatusReady, svc.(ServiceHealth).Status, name)
		}
	})

	t.Run("feedback directory blocked", func(t *testing.T) {
		dir := t.TempDir()
		paths := testPaths(dir)
		// A regular file where the feedback directory should be
		require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("x"), 0o644))

		logger, logs := testutil.NewTestLogger(t)
		hs := NewHealthService("1.0.0", paths, logger)

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, StatusNotReady, status.Status)
		assert.False(t, hs.Ready(context.Background()))
		assert.True(t, logs.ContainsMessage("readiness check failed"))
	})
}

func TestHealthService_Version(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthServiceWithBuildInfo("2.0.0", "2024-11-01T00:00:00Z", "abc123", testPaths(t.TempDir()), logger)

	v := hs.Version()
	assert.Equal(t, "2.0.0", v["version"])
	assert.Equal(t, runtime.Version(), v["go_version"])
	assert.Equal(t, "abc123", v["build_id"])
	assert.Equal(t, "2024-11-01T00:00:00Z", v["build_time"])

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}
