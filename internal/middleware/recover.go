package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/model"
)

func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("correlation_id", GetCorrelationID(r.Context())),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, r, http.StatusInternalServerError, model.ErrorResponse{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
