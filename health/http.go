package health

import (
	"encoding/json"
	"errors"
	"net/http"
)

// RegisterHandlers mounts the health endpoints on mux:
//
//	GET /healthz        liveness, always 200
//	GET /readyz         plain text readiness, 503 when unhealthy
//	GET /health         JSON Report
//	GET /health/{name}  JSON Result of one check
func RegisterHandlers(mux *http.ServeMux, agg *Aggregator) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		report := agg.Run(r.Context())
		writeText(w, httpStatus(report.Status), report.Status.String())
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		report := agg.Run(r.Context())
		writeJSON(w, httpStatus(report.Status), report)
	})
	mux.HandleFunc("GET /health/{name}", func(w http.ResponseWriter, r *http.Request) {
		result, err := agg.Check(r.Context(), r.PathValue("name"))
		if errors.Is(err, ErrUnknownCheck) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, httpStatus(result.Status), result)
	})
}

// Handler returns a mux serving only the health endpoints.
func Handler(agg *Aggregator) http.Handler {
	mux := http.NewServeMux()
	RegisterHandlers(mux, agg)
	return mux
}

func httpStatus(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body + "\n"))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
