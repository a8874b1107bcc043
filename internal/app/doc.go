// Package app wires the report server together: configuration, logging,
// OpenTelemetry, services, HTTP handlers and the middleware chain.
//
// # Initialization Flow
//
//	1. The caller loads configuration and creates the logger
//	2. NewApplication ensures the feedback and log directories exist
//	3. OpenTelemetry providers and business metrics are created
//	4. Services are built over the configured paths (NewServices)
//	5. The chi router and http.Server are configured
//
// # Usage
//
//	app, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// # Graceful Shutdown
//
// Run stops on SIGINT, SIGTERM or cancellation of ctx. In-flight requests
// get Server.ShutdownTimeout to finish before the telemetry providers are
// flushed. The package never calls os.Exit.
package app
