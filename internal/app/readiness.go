package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ReadyzHandler reports readiness: the database must answer a ping within a
// short deadline. A nil pinger (tests) reports ready.
func ReadyzHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				slog.Warn("readiness probe failed", slog.Any("error", err))
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
