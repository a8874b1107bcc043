// Package services implements the business logic layer between the HTTP
// handlers and the survey, report and feedback packages.
//
// # Available Services
//
//	- ReportService: loads the survey, aggregates it and renders the page
//	- FeedbackService: validates submissions and appends them to the log
//	- HealthService: health, readiness and version information
//
// # Error Handling
//
// Services translate domain errors into *errors.AppError values so the
// handlers can answer with RFC 7807 problem details:
//
//	survey.ErrDataUnavailable  -> NotFound (404)
//	survey.ErrMissingColumn    -> Schema (422)
//	survey.ErrMalformed        -> Parsing (500)
//	feedback.ValidationError   -> Validation (422, one entry per field)
//	feedback.ErrWriteFailed    -> Storage (500)
//
// ReportService.Render is the exception: a missing or unusable survey is
// part of the rendered page, not an error.
package services
