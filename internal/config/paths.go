package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// PathsConfig contains file system paths configuration.
// Relative entries are resolved against BaseDir, which defaults to the
// working directory.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataFile     string `yaml:"data_file" envconfig:"DATA_FILE" default:"data/survey_data.csv"`
	FeedbackFile string `yaml:"feedback_file" envconfig:"FEEDBACK_FILE" default:"data/feedback.csv"`
	ImagesDir    string `yaml:"images_dir" envconfig:"IMAGES_DIR" default:"images"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Resolve returns a copy with every path made absolute.
func (p PathsConfig) Resolve() (PathsConfig, error) {
	base := p.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return p, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return p, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	return PathsConfig{
		BaseDir:      base,
		DataFile:     anchor(base, p.DataFile),
		FeedbackFile: anchor(base, p.FeedbackFile),
		ImagesDir:    anchor(base, p.ImagesDir),
		LogsDir:      anchor(base, p.LogsDir),
	}, nil
}

func anchor(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// EnsureDirectories creates the directories the service writes into.
// The survey file and images directory are read-only inputs and are left alone.
func (p PathsConfig) EnsureDirectories(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	directories := []string{
		filepath.Dir(p.FeedbackFile),
		p.LogsDir,
	}

	for _, dir := range directories {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p PathsConfig) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("path resolution summary",
		slog.String("base_dir", p.BaseDir),
		slog.Group("files",
			slog.String("survey", p.DataFile),
			slog.Bool("survey_present", FileExists(p.DataFile)),
			slog.String("feedback", p.FeedbackFile),
		),
		slog.Group("directories",
			slog.String("images", p.ImagesDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
