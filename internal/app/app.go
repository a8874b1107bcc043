package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"gdreport/internal/config"
	apierrors "gdreport/internal/errors"
	"gdreport/internal/feedback"
	"gdreport/internal/infrastructure"
	customMiddleware "gdreport/internal/middleware"
	"gdreport/internal/services"
	handlers "gdreport/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Report   *services.ReportService
	Feedback *services.FeedbackService
	Health   *services.HealthService
	Store    *feedback.Log
}

// NewServices wires the services over the configured paths. metrics may be nil.
func NewServices(cfg *config.Config, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ServiceContainer {
	store := feedback.NewLog(cfg.Paths.FeedbackFile, logger)

	return &ServiceContainer{
		Report: services.NewReportService(services.ReportServiceConfig{
			DataFile:  cfg.Paths.DataFile,
			ImagesDir: cfg.Paths.ImagesDir,
			ImageBase: config.ImagesURLPrefix,
			Schema:    cfg.Survey.Schema(),
		}, metrics, logger),
		Feedback: services.NewFeedbackService(store, metrics, logger),
		Health:   services.NewHealthServiceWithBuildInfo(config.AppVersion, config.BuildTime, config.GitCommit, cfg.Paths, logger),
		Store:    store,
	}
}

// NewApplication creates a new application instance with dependency injection.
// The caller owns logger; configuration must already be loaded.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("build_time", config.BuildTime))

	if err := cfg.Paths.EnsureDirectories(logger); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	cfg.Paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	var metrics *infrastructure.BusinessMetrics
	if otelProviders.Meter != nil {
		metrics, err = infrastructure.CreateBusinessMetrics(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		Services:      NewServices(cfg, metrics, logger),
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → security → compress → CORS → Timeout.
func (a *Application) setupRouter() error {
	cfg := a.Config
	eh := a.ErrorHandler

	page, err := handlers.NewPageHandler(a.Services.Report, a.Services.Feedback, eh, a.Logger)
	if err != nil {
		return err
	}
	reportHandler := handlers.NewReportHandler(a.Services.Report, a.Logger, eh)
	feedbackHandler := handlers.NewFeedbackHandler(a.Services.Feedback, a.Logger, eh)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	r := chi.NewRouter()
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(eh))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))
	if cfg.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: cfg.Security.AllowedOrigins,
		}))
	}

	r.NotFound(eh.NotFound)
	r.MethodNotAllowed(eh.MethodNotAllowed)

	// Scrapes skip the request timeout
	r.Handle(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, eh))

	// The HTML form and the JSON API keep separate per-client budgets
	formSubmit := []func(http.Handler) http.Handler{customMiddleware.BodyLimit(cfg.Security.MaxFeedbackBody)}
	apiSubmit := []func(http.Handler) http.Handler{
		customMiddleware.BodyLimit(cfg.Security.MaxFeedbackBody),
		customMiddleware.ContentTypeValidator(eh, "application/json"),
		customMiddleware.NewValidationMiddleware(a.Logger, eh, cfg.Security.MaxFeedbackBody).ValidateRequest,
	}
	if rl := cfg.Security.RateLimit; rl.Enabled {
		formLimiter := customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).OnLimit(page.RateLimited)
		apiLimiter := customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger)
		formSubmit = append([]func(http.Handler) http.Handler{formLimiter.Handler}, formSubmit...)
		apiSubmit = append([]func(http.Handler) http.Handler{apiLimiter.Handler}, apiSubmit...)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(cfg.Server.RequestTimeout))

		r.Get("/", page.Index)
		r.With(formSubmit...).Post(config.FeedbackFormPath, page.SubmitFeedback)
		r.Handle(config.ImagesURLPrefix+"/*", handlers.ImagesHandler(cfg.Paths.ImagesDir, eh))

		r.Mount(config.ReportEndpoint, reportHandler.Routes())
		r.Mount(config.FeedbackEndpoint, feedbackHandler.Routes(apiSubmit...))

		r.Route(config.HealthEndpoint, func(r chi.Router) {
			r.Get("/", healthHandler.HealthCheck)
			r.Get("/ready", healthHandler.ReadinessCheck)
			r.Get("/live", healthHandler.LivenessCheck)
		})
		r.Get(config.APIBasePath+"/version", healthHandler.Version)
	})

	a.Router = r
	return nil
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Run listens on the configured address and serves until ctx is cancelled
// or SIGINT/SIGTERM arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.performStartupHealthCheck(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "server listening",
			slog.String("address", ln.Addr().String()),
			slog.String("survey", a.Config.Paths.DataFile))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// performStartupHealthCheck logs every readiness check that is not ready so
// a missing survey file shows up at boot rather than on the first request.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	status := a.Services.Health.ReadinessCheck(ctx)

	warnings := 0
	for name, check := range status.Services {
		sh, ok := check.(services.ServiceHealth)
		if !ok || sh.Status == services.StatusReady {
			continue
		}
		warnings++
		a.Logger.WarnContext(ctx, "startup health check warning",
			slog.String("check", name),
			slog.String("status", sh.Status),
			slog.String("message", sh.Message))
	}

	if warnings == 0 {
		a.Logger.InfoContext(ctx, "startup health check passed")
	}
}
