package httpserver

import (
	"context"
	"log/slog"
	"net/http"
)

// HealthCheckHandler returns an HTTP handler usable for liveness and
// readiness probes.
//
//   - Liveness: with no dependency checks supplied the handler returns
//     200 OK with body "ALIVE".
//   - Readiness: with checks supplied each is executed; all passing returns
//     200 OK "READY", any failure returns 500 "NOT_READY".
func HealthCheckHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", slog.Any("error", err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
