package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/quickmart/internal/port"
)

const (
	requestIDHeader   = "X-Request-ID"
	idempotencyHeader = "Idempotency-Key"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// RequestLogger tags every request with an id, puts a request-scoped logger
// into the context and logs one line when the request completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		ctx := logger.WithContext(r.Context())

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// Idempotency claims the Idempotency-Key header before the wrapped handler
// runs. A replayed key gets 409. When the handler does not succeed the key is
// released so the client can retry the same request. Requests without the
// header pass through, as does everything when cache is nil.
func Idempotency(cache port.CacheRepository) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if cache == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" {
				next(w, r)
				return
			}

			logger := zerolog.Ctx(r.Context())
			ok, err := cache.SetIdempotency(r.Context(), key)
			if err != nil {
				logger.Error().Err(err).Str("key", key).Msg("idempotency check failed")
				writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "idempotency store unavailable"})
				return
			}
			if !ok {
				writeJSON(w, http.StatusConflict, ErrorResponse{Error: "duplicate request"})
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			next(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				// the request context may already be cancelled
				ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
				defer cancel()
				if err := cache.ReleaseIdempotency(ctx, key); err != nil {
					logger.Error().Err(err).Str("key", key).Msg("release idempotency key failed")
				}
			}
		}
	}
}

// NewRouter wires every route behind request logging and CORS.
func NewRouter(h *HTTPHandler, cache port.CacheRepository, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	h.Routes(mux, Idempotency(cache))

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader, idempotencyHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return RequestLogger(c.Handler(mux))
}
