package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solana-proxy/internal/observability"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withMiddleware wraps next with CORS, panic recovery and access logging.
// CORS headers are attached before anything else so that even panics and
// preflight short-circuits carry them.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		requestID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("panic in handler",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.Any("panic", p),
				)
				writeJSON(rec, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
			observability.RecordHTTPRequest(r.URL.Path, strconv.Itoa(rec.status))
			s.logger.Info("request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", time.Since(start)),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}
