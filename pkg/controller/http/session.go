package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
)

// SessionCookieName names the cookie carrying the session id
const SessionCookieName = "unidl_session"

type sessionIDKey struct{}

// SessionMiddleware assigns every client a session id cookie and puts the id
// into the request context
func SessionMiddleware(secure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey{}, id)
			ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("session_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionIDFrom returns the id set by SessionMiddleware
func sessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
