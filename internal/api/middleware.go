package api

import (
	"context"
	"log"
	"net/http"
)

type contextKey string

const userContextKey = contextKey("userID")

// AuthMiddleware resolves the X-Token header against the session cache.
// A missing or expired session is 401; an unreachable cache is 503, never
// a silent "unauthenticated".
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Token")
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, ok, err := s.sessions.Resolve(r.Context(), token)
		if err != nil {
			log.Printf("ERROR: Session cache unavailable: %v", err)
			respondError(w, http.StatusServiceUnavailable, "Service unavailable")
			return
		}
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the authenticated user id, or 0 when the
// request did not pass AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) int64 {
	if userID, ok := ctx.Value(userContextKey).(int64); ok {
		return userID
	}
	return 0
}
