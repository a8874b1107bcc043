package http

import (
	"net/http"

	apierrors "gdreport/internal/errors"
)

// MetricsHandler serves the Prometheus exposition when metrics are enabled
type MetricsHandler struct {
	exposition   http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. exposition may be nil,
// in which case /metrics answers 404.
func NewMetricsHandler(exposition http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		h.errorHandler.NotFound(w, r)
		return
	}
	h.exposition.ServeHTTP(w, r)
}
