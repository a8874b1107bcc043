package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gdreport/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	paths     config.PathsConfig
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Readiness states. A warning does not make the service not ready.
const (
	StatusReady    = "ready"
	StatusWarning  = "warning"
	StatusNotReady = "not_ready"
)

// NewHealthService creates a new health service
func NewHealthService(version string, paths config.PathsConfig, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, "", "", paths, logger)
}

// NewHealthServiceWithBuildInfo creates a new health service with build information
func NewHealthServiceWithBuildInfo(version, buildTime, buildID string, paths config.PathsConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("health service initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("build_id", buildID))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		buildID:   buildID,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the feedback log can be written. A missing
// survey file or images directory is only a warning: the page still renders.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["survey"] = hs.checkSurvey()
	status.Services["feedback"] = hs.checkFeedback()
	status.Services["images"] = hs.checkImages()

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status == StatusNotReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("check", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

// Ready reports whether ReadinessCheck would return StatusReady.
func (hs *HealthService) Ready(ctx context.Context) bool {
	return hs.ReadinessCheck(ctx).Status == StatusReady
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}

	return result
}

func (hs *HealthService) checkSurvey() ServiceHealth {
	info, err := os.Stat(hs.paths.DataFile)
	if err != nil || info.IsDir() {
		return ServiceHealth{
			Status:  StatusWarning,
			Message: fmt.Sprintf("survey file not found: %s", filepath.Base(hs.paths.DataFile)),
		}
	}
	return ServiceHealth{Status: StatusReady, Message: "survey file present"}
}

// checkFeedback probes the feedback directory by creating and removing a
// temporary file.
func (hs *HealthService) checkFeedback() ServiceHealth {
	dir := filepath.Dir(hs.paths.FeedbackFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("cannot create feedback directory: %v", err),
		}
	}

	probe, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("feedback directory not writable: %v", err),
		}
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	return ServiceHealth{Status: StatusReady, Message: "feedback directory writable"}
}

func (hs *HealthService) checkImages() ServiceHealth {
	info, err := os.Stat(hs.paths.ImagesDir)
	if err != nil || !info.IsDir() {
		return ServiceHealth{Status: StatusWarning, Message: "images directory not found"}
	}
	return ServiceHealth{Status: StatusReady, Message: "images directory present"}
}
