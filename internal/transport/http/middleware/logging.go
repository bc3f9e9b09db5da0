package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hrpayroll/internal/requestctx"
	"hrpayroll/internal/transport/http/shared"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

func newRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

var sensitiveQueryKeys = map[string]struct{}{
	"token": {}, "password": {}, "secret": {}, "access_token": {},
}

// AccessLog writes one line per request. 5xx responses log at error level.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := newRecorder(w)
		next.ServeHTTP(recorder, r)

		query := r.URL.Query()
		for key := range query {
			if _, ok := sensitiveQueryKeys[strings.ToLower(key)]; ok {
				query.Set(key, "****")
			}
		}

		level := zapcore.InfoLevel
		if recorder.Status() >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		requestctx.Logger(r.Context()).Check(level, "http").Write(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", shared.ClientIP(r)),
			zap.String("query", query.Encode()),
			zap.Int("size", recorder.size),
		)
	})
}
