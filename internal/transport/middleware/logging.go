package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/futsal-booking/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const filtered = "[FILTERED]"

// maxLoggedBody caps how much of a request or error body reaches the log.
const maxLoggedBody = 4 << 10

// sensitiveFields are matched as substrings of lower-cased header and JSON keys.
var sensitiveFields = []string{
	"token",
	"authorization",
	"cookie",
	"secret",
	"session",
	"credential",
}

// quietPaths are probed by load balancers and would drown the log.
var quietPaths = map[string]bool{
	"/api/v1/ping":   true,
	"/api/v1/health": true,
}

// LoggingMiddleware logs each request and its outcome through the
// request-scoped logger when one is present, so the trace ID set by RequestID
// is included. Must be mounted after RequestID.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			lg := base
			if l, ok := logger.Lookup(r.Context()); ok {
				lg = l
			}
			reqID := middleware.GetReqID(r.Context())

			logRequest(lg, r, reqID)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			logResponse(lg, r, rec, time.Since(start), reqID)
		})
	}
}

// statusRecorder keeps the status and size of a response. The body is only
// buffered once an error status has been written.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
	errBody bytes.Buffer
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	if rec.status >= http.StatusBadRequest && rec.errBody.Len() < maxLoggedBody {
		rec.errBody.Write(b)
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.written += n
	return n, err
}

func logRequest(lg *slog.Logger, r *http.Request, reqID string) {
	attrs := []any{
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"headers", redactHeaders(r.Header),
	}

	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		raw, err := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err == nil && len(raw) > 0 {
			attrs = append(attrs, "body", redactBody(raw))
		}
	}

	lg.Info("incoming request", attrs...)
}

func logResponse(lg *slog.Logger, r *http.Request, rec *statusRecorder, elapsed time.Duration, reqID string) {
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}

	attrs := []any{
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", status,
		"duration_ms", elapsed.Milliseconds(),
		"response_size", rec.written,
	}

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	if level > slog.LevelInfo && rec.errBody.Len() > 0 {
		attrs = append(attrs, "body", redactBody(rec.errBody.Bytes()))
	}

	lg.Log(context.Background(), level, "response", attrs...)
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, field := range sensitiveFields {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody returns body with sensitive JSON keys masked. Non-JSON bodies
// are dropped entirely when they mention a sensitive field.
func redactBody(body []byte) string {
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSensitive(string(body)) {
			return filtered
		}
		return string(body)
	}

	out, err := json.Marshal(redactJSON(doc))
	if err != nil {
		return filtered
	}
	return string(out)
}

func redactJSON(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for key, value := range node {
			if isSensitive(key) {
				out[key] = filtered
				continue
			}
			out[key] = redactJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, item := range node {
			out[i] = redactJSON(item)
		}
		return out
	default:
		return v
	}
}
