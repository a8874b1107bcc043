package config

// Application constants
const (
	// Application Info
	AppName    = "gdreport"
	AppTitle   = "Global Dexterity Report"
	AppVersion = "1.0.0"

	// File Paths (relative to the base directory)
	DefaultDataFile     = "data/survey_data.csv"
	DefaultFeedbackFile = "data/feedback.csv"
	DefaultImagesDir    = "images"
	DefaultLogsDir      = "logs"

	// API Endpoints
	APIBasePath       = "/api"
	ReportEndpoint    = "/api/report"
	FeedbackEndpoint  = "/api/feedback"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	ImagesURLPrefix   = "/images"
	FeedbackFormPath  = "/feedback"
	FeedbackThanksURL = "/?submitted=1#feedback"
)

// Version information, set at build time with -ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
