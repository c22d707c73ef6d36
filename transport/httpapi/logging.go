package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/relay/core/logger"
)

// statusWriter captures the response code for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// logRequests logs one line per handled request.
func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		a.log.Info("request handled",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.StatusCode(sw.status),
			logger.Duration(time.Since(start)),
		)
	})
}
