package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/transport"
	"github.com/frahmantamala/training-management/pkg/logger"
)

// Recovery converts a handler panic into a 500 envelope. The stack goes to
// the request logger, never to the client.
func Recovery(next http.Handler) http.Handler {
	base := transport.NewBaseHandler(nil)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.From(r.Context()).Error("panic recovered",
				"panic", fmt.Sprint(rec),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()))
			base.WriteAppError(w, internal.NewInternalError("Internal server error", fmt.Errorf("panic: %v", rec)))
		}()
		next.ServeHTTP(w, r)
	})
}
