package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/meetcircle/connections-api/api"
)

// MetricsSummaryHandler returns service-level request totals
func MetricsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(api.Metrics().Summary())
}

// MetricsRoutesHandler returns per-route aggregates, slowest first
func MetricsRoutesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(api.Metrics().Routes())
}

// MetricsTracesHandler returns recent request traces, newest first
func MetricsTracesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(api.Metrics().Traces(limit))
}
