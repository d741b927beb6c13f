package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/telemetry"
)

// Recovery turns a handler panic into a 500 JSON response and reports it.
func Recovery(log *logger.Logger, reporter telemetry.Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := logger.RequestID(r.Context())
				stack := string(debug.Stack())

				log.Error("Panic recovered",
					"request_id", requestID,
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", stack,
				)

				reporter.CaptureError(r.Context(), "http.panic", fmt.Errorf("panic: %v", rec), map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(apperrors.Internal("Internal server error", nil).ToJSON())
			}()

			next.ServeHTTP(w, r)
		})
	}
}
