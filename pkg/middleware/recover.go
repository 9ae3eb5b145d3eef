package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/helix/pkg/handlers"
)

// Recover returns middleware that converts a handler panic into a 500
// response. http.ErrAbortHandler is re-raised so the server can abort
// the connection as it would without this middleware.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error("panic recovered", "panic", v, "stack", string(debug.Stack()))
				handlers.RespondError(
					w, r, logger,
					http.StatusInternalServerError,
					errors.New("internal error"),
				)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
