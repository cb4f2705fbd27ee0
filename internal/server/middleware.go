package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// requestID tags each request with a unique id, echoed in the
// X-Request-ID response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

// requestLogger logs every API call with method, target, status, and
// duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("target", r.URL.String()).
			Str("request_id", requestIDFromContext(r.Context())).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("API call")
	})
}

// authenticate is the auth gate: it extracts the bearer token, verifies
// it, and resolves the subject to a user row attached to the request
// context. With Debug set the gate is disabled and every request proceeds
// without a resolved user.
func (s *Service) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Debug {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			s.writeError(w, r, unauthenticated("Authorization header is missing"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, r, unauthenticated("Authorization header must be a bearer token"))
			return
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			s.writeError(w, r, unauthenticated("Invalid authentication token"))
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if user == nil {
			s.writeError(w, r, notFound("User not found"))
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}
