// Package server exposes the worker's health and metrics endpoints.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telhawk-systems/submission-relay/internal/logging"
)

// ReadinessCheck reports whether a dependency is ready; a non-nil error
// explains why not.
type ReadinessCheck func() error

// NewRouter constructs a ServeMux with health and metrics routes registered.
func NewRouter(checks map[string]ReadinessCheck) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", health)
	mux.HandleFunc("/readyz", ready(checks))
	mux.Handle("/metrics", promhttp.Handler())

	return RequestID(mux)
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func ready(checks map[string]ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := make(map[string]string, len(checks))
		code := http.StatusOK
		for name, check := range checks {
			if err := check(); err != nil {
				results[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		status := "ready"
		if code != http.StatusOK {
			status = "not ready"
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": results,
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// RequestID propagates X-Request-ID, generating one when absent, and stores
// it as the invocation id for context-aware logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithInvocationID(r.Context(), r.Header.Get("X-Request-ID"))
		w.Header().Set("X-Request-ID", logging.InvocationIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
