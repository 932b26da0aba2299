package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/training-management/pkg/logger"
)

const (
	redacted = "[FILTERED]"

	// bodies above this are logged by size only
	maxLoggedBody = 8 << 10
)

// secretMarkers are matched as substrings of lower-cased JSON keys and
// header names: "newPassword", "refreshToken" and "Authorization" all hit.
var secretMarkers = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"cookie",
	"credential",
	"api_key",
	"apikey",
}

// LoggingMiddleware writes one entry per request and one per response
// through the request logger, so trace and caller fields ride along.
// Secrets are masked and uploads are never buffered.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lg := logger.From(r.Context())

		lg.Info("incoming request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
			slog.Any("headers", redactHeaders(r.Header)),
			slog.String("body", captureRequestBody(r)),
		)

		rec := &recordingWriter{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		lg.Log(r.Context(), levelFor(status), "response",
			slog.Int("status_code", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.Int("response_size", rec.size),
			slog.String("body", redactBody(rec.body.Bytes())),
		)
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// recordingWriter keeps the status, the size and the first maxLoggedBody
// bytes of the response.
type recordingWriter struct {
	http.ResponseWriter
	status int
	size   int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// captureRequestBody reads a JSON body for logging and puts it back.
func captureRequestBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return "[multipart omitted]"
	}
	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "[unreadable]"
	}
	if len(raw) > maxLoggedBody {
		return "[too large to log]"
	}
	return redactBody(raw)
}

func isSecret(name string) bool {
	name = strings.ToLower(name)
	for _, marker := range secretMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSecret(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks secret keys in JSON. Anything else is logged only when it
// does not mention a secret.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSecret(string(body)) {
			return "[FILTERED - Contains sensitive data]"
		}
		return string(body)
	}

	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return "[unloggable body]"
	}
	return string(out)
}

func redactValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for key, val := range t {
			if isSecret(key) {
				t[key] = redacted
				continue
			}
			t[key] = redactValue(val)
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	}
	return v
}
