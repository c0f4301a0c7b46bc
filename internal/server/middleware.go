package server

import (
	"net/http"
	"runtime/debug"

	"github.com/optimalab/descent/internal/logging"
)

// Recovery returns a middleware that converts panics into 500
// responses. Dimension-mismatch panics from the optimization core are
// programmer errors by contract; at the HTTP boundary they must not
// take the process down with them.
func Recovery(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("recovered from panic", map[string]interface{}{
						"error":  rec,
						"stack":  string(debug.Stack()),
						"method": r.Method,
						"path":   r.URL.Path,
					})
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
