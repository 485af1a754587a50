package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/platform/logger"
)

// Recover turns a panic in a handler into a 500 envelope and logs the stack.
// http.ErrAbortHandler is re-raised so the server can abort the response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			logger.FromContext(r.Context()).Error("handler panicked", slog.String("stack", string(debug.Stack())))
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Internal Server Error",
				http.StatusInternalServerError, fmt.Errorf("panic: %v", rvr))
		}()
		next.ServeHTTP(w, r)
	})
}
