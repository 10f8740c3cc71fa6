package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey int

const sessionIDKey contextKey = iota

// SessionID returns the request's session identifier, installed by
// SessionMiddleware. Every routed request has one.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}

// SessionMiddleware assigns each browser a session cookie. The cookie is
// the only client-side state; everything else lives server-side keyed by
// this id.
func SessionMiddleware(cookieName string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				id = cookie.Value
			} else {
				id = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
