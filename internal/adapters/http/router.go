package http

import (
	"log/slog"
	"net/http"

	"github.com/preetatdate/docpipeline/internal/observability/metrics"
)

// NewRouter wires every route with its middleware chain. The model-calling
// routes sit behind the traffic controller; intake and reads do not.
func NewRouter(h *Handlers, tc *TrafficControl, m *metrics.HTTPMetrics, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	route := func(pattern, label string, handler http.HandlerFunc, limited bool) {
		var wrapped http.Handler = handler
		if limited {
			wrapped = tc.Wrap(wrapped)
		}
		mux.Handle(pattern, m.Middleware(label, wrapped))
	}

	route("GET /healthz", "/healthz", h.Health, false)
	route("POST /v1/documents", "/v1/documents", h.Upload, false)
	route("GET /v1/documents/{id}", "/v1/documents/{id}", h.GetDocument, false)
	route("POST /v1/documents/classify", "/v1/documents/classify", h.Classify, true)
	route("POST /v1/dossiers/extract", "/v1/dossiers/extract", h.Extract, true)
	route("POST /v1/dossiers/export", "/v1/dossiers/export", h.Export, false)

	mux.Handle("GET /metrics", m.Handler())

	return RequestID(AccessLog(logger, mux))
}
