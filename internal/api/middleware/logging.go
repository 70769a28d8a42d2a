package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nurlyy/customer_data/pkg/logger"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware logs every HTTP request and its outcome
type LoggingMiddleware struct {
	logger logger.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware
func NewLoggingMiddleware(logger logger.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// LogRequest logs the incoming request and the completed response.
// A client supplied X-Request-ID is reused when it is a valid UUID.
func (m *LoggingMiddleware) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		rw := newResponseWriterWithStatus(w)
		startTime := time.Now()

		m.logger.Info("Incoming request", map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		})

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(rw, r)

		duration := time.Since(startTime)
		fields := map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    duration.String(),
			"duration_ms": duration.Milliseconds(),
		}

		switch {
		case rw.statusCode >= 500:
			m.logger.Error("Request completed with server error", nil, fields)
		case rw.statusCode >= 400:
			m.logger.Warn("Request completed with client error", fields)
		default:
			m.logger.Info("Request completed successfully", fields)
		}
	})
}

// responseWriterWithStatus records the status code written by the handler
type responseWriterWithStatus struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriterWithStatus(w http.ResponseWriter) *responseWriterWithStatus {
	return &responseWriterWithStatus{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the status code before writing it
func (rw *responseWriterWithStatus) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Flush forwards to the underlying writer when it supports flushing
func (rw *responseWriterWithStatus) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
