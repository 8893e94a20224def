package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	SessionCookie = "diagnosmart_session"
	SessionHeader = "X-Session-ID"
)

type ctxKey struct{}

// Sessions resolves the client session from the X-Session-ID header or the session cookie,
// issuing a new cookie when neither carries a valid id.
func Sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   365 * 24 * 60 * 60,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, "web:"+id)))
	})
}

func sessionID(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get(SessionHeader)); h != "" {
		if u, err := uuid.Parse(h); err == nil {
			return u.String()
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		if u, err := uuid.Parse(c.Value); err == nil {
			return u.String()
		}
	}
	return ""
}

// SessionKey returns the history/session key set by Sessions.
func SessionKey(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

// WithSessionKey is used by tests and non-HTTP callers.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKey{}, key)
}
