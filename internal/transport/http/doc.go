// Package http implements the HTTP handlers of the report server. Handlers
// stay thin: they parse the request, call a service and format the answer.
//
// # Routes
//
//	GET  /                     report page (html/template, embedded)
//	POST /feedback             feedback form, 303 to /?submitted=1#feedback
//	GET  /images/*             files from the images directory
//	GET  /api/report           full page model as JSON
//	GET  /api/report/survey    raw survey table
//	GET  /api/report/summary   per-group means
//	GET  /api/report/markdown  page as Markdown
//	GET  /api/report/export    summary file, ?format=csv|xlsx
//	GET  /api/feedback         stored feedback, ?limit=N
//	POST /api/feedback         JSON submission, 201 on success
//	GET  /api/health[/ready|/live], /api/version
//	GET  /metrics              Prometheus exposition
//
// # Error Handling
//
// JSON endpoints answer errors with RFC 7807 problem details through
// errors.ErrorHandler. The page keeps rendering when the survey is missing
// or unusable and shows the problem inline; form errors re-render the page
// with the submitted values and a message per field.
package http
