package middleware

import (
	"net/http"

	"github.com/frahmantamala/training-management/pkg/logger"
	"github.com/google/uuid"
)

const (
	TraceHeader = "X-Trace-ID"

	maxTraceIDLength = 64
)

// RequestID tags the request logger with a trace id, reusing the caller's
// when it is a plausible token and minting a uuid otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if !validTraceID(traceID) {
			traceID = uuid.NewString()
		}

		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(logger.With(r.Context(), "trace_id", traceID)))
	})
}

func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
