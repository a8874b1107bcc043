package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"gdreport/internal/survey"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "GDR"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Survey    SurveyConfig    `yaml:"survey" envconfig:"SURVEY"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"10s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins  []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS      bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	MaxFeedbackBody int64           `yaml:"max_feedback_body" envconfig:"MAX_FEEDBACK_BODY" default:"65536"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig limits feedback submissions per client
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"1"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"5"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/gdreport.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// SurveyConfig describes which survey columns are aggregated.
// Metrics can only be overridden from the YAML file.
type SurveyConfig struct {
	GroupColumn string          `yaml:"group_column" envconfig:"GROUP_COLUMN" default:"Where did you grow up?"`
	Metrics     []survey.Metric `yaml:"metrics" ignored:"true"`
}

// Schema returns the survey schema described by the configuration.
func (s SurveyConfig) Schema() survey.Schema {
	return survey.Schema{
		GroupColumn: s.GroupColumn,
		Metrics:     slices.Clone(s.Metrics),
	}
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"gdreport"`
	TracesExporter string `yaml:"traces_exporter" envconfig:"TRACES_EXPORTER" default:"none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
}

// Load loads configuration from .env, environment variables and the first
// config file found in the default locations.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration using the given YAML file. An empty path
// searches the default locations; a missing default file is not an error.
func LoadFrom(configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	cfg.Survey.Metrics = survey.DefaultSchema().Metrics

	explicit := configFile != ""
	if !explicit {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg, *Default())
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads variables from a .env file without overriding the
// process environment.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// loadFromFile loads configuration from YAML file on top of the defaults
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// pick returns the environment value when it differs from the default,
// otherwise the file value.
func pick[T comparable](env, file, def T) T {
	if env != def {
		return env
	}
	return file
}

// mergeConfigs merges file config with env config (env takes precedence).
// A field counts as set by the environment when it differs from its default.
func mergeConfigs(fileConfig, envConfig, def Config) Config {
	out := fileConfig

	// Server config
	out.Server.Host = pick(envConfig.Server.Host, fileConfig.Server.Host, def.Server.Host)
	out.Server.Port = pick(envConfig.Server.Port, fileConfig.Server.Port, def.Server.Port)
	out.Server.ReadTimeout = pick(envConfig.Server.ReadTimeout, fileConfig.Server.ReadTimeout, def.Server.ReadTimeout)
	out.Server.WriteTimeout = pick(envConfig.Server.WriteTimeout, fileConfig.Server.WriteTimeout, def.Server.WriteTimeout)
	out.Server.IdleTimeout = pick(envConfig.Server.IdleTimeout, fileConfig.Server.IdleTimeout, def.Server.IdleTimeout)
	out.Server.RequestTimeout = pick(envConfig.Server.RequestTimeout, fileConfig.Server.RequestTimeout, def.Server.RequestTimeout)
	out.Server.MaxHeaderBytes = pick(envConfig.Server.MaxHeaderBytes, fileConfig.Server.MaxHeaderBytes, def.Server.MaxHeaderBytes)
	out.Server.ShutdownTimeout = pick(envConfig.Server.ShutdownTimeout, fileConfig.Server.ShutdownTimeout, def.Server.ShutdownTimeout)

	// Security config
	if !slices.Equal(envConfig.Security.AllowedOrigins, def.Security.AllowedOrigins) {
		out.Security.AllowedOrigins = envConfig.Security.AllowedOrigins
	}
	out.Security.EnableCORS = pick(envConfig.Security.EnableCORS, fileConfig.Security.EnableCORS, def.Security.EnableCORS)
	out.Security.MaxFeedbackBody = pick(envConfig.Security.MaxFeedbackBody, fileConfig.Security.MaxFeedbackBody, def.Security.MaxFeedbackBody)
	out.Security.RateLimit = RateLimitConfig{
		Enabled: pick(envConfig.Security.RateLimit.Enabled, fileConfig.Security.RateLimit.Enabled, def.Security.RateLimit.Enabled),
		RPS:     pick(envConfig.Security.RateLimit.RPS, fileConfig.Security.RateLimit.RPS, def.Security.RateLimit.RPS),
		Burst:   pick(envConfig.Security.RateLimit.Burst, fileConfig.Security.RateLimit.Burst, def.Security.RateLimit.Burst),
	}

	// Logging config
	out.Logging = LoggingConfig{
		Level:       pick(envConfig.Logging.Level, fileConfig.Logging.Level, def.Logging.Level),
		Format:      pick(envConfig.Logging.Format, fileConfig.Logging.Format, def.Logging.Format),
		Output:      pick(envConfig.Logging.Output, fileConfig.Logging.Output, def.Logging.Output),
		FilePath:    pick(envConfig.Logging.FilePath, fileConfig.Logging.FilePath, def.Logging.FilePath),
		Development: pick(envConfig.Logging.Development, fileConfig.Logging.Development, def.Logging.Development),
	}

	// Paths config
	out.Paths = PathsConfig{
		BaseDir:      pick(envConfig.Paths.BaseDir, fileConfig.Paths.BaseDir, def.Paths.BaseDir),
		DataFile:     pick(envConfig.Paths.DataFile, fileConfig.Paths.DataFile, def.Paths.DataFile),
		FeedbackFile: pick(envConfig.Paths.FeedbackFile, fileConfig.Paths.FeedbackFile, def.Paths.FeedbackFile),
		ImagesDir:    pick(envConfig.Paths.ImagesDir, fileConfig.Paths.ImagesDir, def.Paths.ImagesDir),
		LogsDir:      pick(envConfig.Paths.LogsDir, fileConfig.Paths.LogsDir, def.Paths.LogsDir),
	}

	// Survey config; metrics only come from the file
	out.Survey.GroupColumn = pick(envConfig.Survey.GroupColumn, fileConfig.Survey.GroupColumn, def.Survey.GroupColumn)

	// Telemetry config
	out.Telemetry = TelemetryConfig{
		ServiceName:    pick(envConfig.Telemetry.ServiceName, fileConfig.Telemetry.ServiceName, def.Telemetry.ServiceName),
		TracesExporter: pick(envConfig.Telemetry.TracesExporter, fileConfig.Telemetry.TracesExporter, def.Telemetry.TracesExporter),
		MetricsEnabled: pick(envConfig.Telemetry.MetricsEnabled, fileConfig.Telemetry.MetricsEnabled, def.Telemetry.MetricsEnabled),
	}

	return out
}

// resolvePaths anchors relative paths on the base directory
func (c *Config) resolvePaths() error {
	resolved, err := c.Paths.Resolve()
	if err != nil {
		return err
	}
	c.Paths = resolved
	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.MaxFeedbackBody <= 0 {
		return fmt.Errorf("max feedback body must be positive")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if err := c.Survey.validate(); err != nil {
		return err
	}

	switch c.Telemetry.TracesExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("unknown traces exporter: %q", c.Telemetry.TracesExporter)
	}

	// JSON is the only supported log format
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/gdreport.log"
	}

	return nil
}

func (s SurveyConfig) validate() error {
	if strings.TrimSpace(s.GroupColumn) == "" {
		return fmt.Errorf("survey group column must not be empty")
	}
	if len(s.Metrics) == 0 {
		return fmt.Errorf("at least one survey metric must be specified")
	}
	seen := make(map[string]bool, len(s.Metrics))
	for _, m := range s.Metrics {
		if m.Key == "" || m.Column == "" {
			return fmt.Errorf("survey metric needs a key and a column: %+v", m)
		}
		if seen[m.Key] {
			return fmt.Errorf("duplicate survey metric key: %q", m.Key)
		}
		seen[m.Key] = true
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  10 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins:  []string{"http://localhost:8080"},
			EnableCORS:      true,
			MaxFeedbackBody: 64 << 10,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     1,
				Burst:   5,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/gdreport.log",
		},
		Paths: PathsConfig{
			DataFile:     DefaultDataFile,
			FeedbackFile: DefaultFeedbackFile,
			ImagesDir:    DefaultImagesDir,
			LogsDir:      DefaultLogsDir,
		},
		Survey: SurveyConfig{
			GroupColumn: survey.ColCountry,
			Metrics:     survey.DefaultSchema().Metrics,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TracesExporter: "none",
			MetricsEnabled: true,
		},
	}
}
