package server

import (
	"net/http"
	"time"

	"blog/logging"

	"github.com/fatih/color"
)

var (
	statusOK          = color.New(color.FgGreen).SprintFunc()
	statusClientError = color.New(color.FgYellow).SprintFunc()
	statusServerError = color.New(color.FgRed).SprintFunc()
)

func disableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func loggingMiddleware(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Capture the status code the handler writes
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.Printf("[Server] %s %s %s %v", r.Method, r.URL.Path, colorStatus(rw.status), time.Since(start))
	})
}

// colorStatus renders status for the console; color turns itself off when
// stdout is not a terminal.
func colorStatus(status int) string {
	switch {
	case status >= 500:
		return statusServerError(status)
	case status >= 400:
		return statusClientError(status)
	default:
		return statusOK(status)
	}
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
