package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n

	return n, err
}

// Logging returns middleware that logs all HTTP requests.
func Logging(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				bytesWritten:   0,
			}

			// Call next handler
			next.ServeHTTP(rw, r)

			// Log request details
			duration := time.Since(start)

			level := logrus.InfoLevel
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				// Health-check traffic stays out of the main log stream
				level = logrus.DebugLevel
			}

			logger.WithFields(logrus.Fields{
				"method":        r.Method,
				"path":          r.URL.Path,
				"status":        rw.statusCode,
				"duration_ms":   duration.Milliseconds(),
				"bytes_written": rw.bytesWritten,
				"remote_addr":   r.RemoteAddr,
				"user_agent":    r.UserAgent(),
			}).Log(level, "HTTP request completed")
		})
	}
}
