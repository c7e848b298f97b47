package middleware

import (
	"context"
	"net/http"
	"time"

	"stocksim/internal/auth"
	"stocksim/internal/models"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	sessionIDKey contextKey = "session_id"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "session"

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok
}

type SessionStore interface {
	Get(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
}

// Session gates every portfolio-affecting route. Requests without a live
// session are redirected to the login form and never reach a handler, so
// ledger logic cannot run anonymously.
func Session(secret string, sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}
			sessionID, err := auth.ParseToken(secret, cookie.Value)
			if err != nil {
				clearCookie(w)
				redirectToLogin(w, r)
				return
			}
			session, err := sessions.Get(r.Context(), sessionID)
			if err != nil {
				clearCookie(w)
				redirectToLogin(w, r)
				return
			}
			if time.Now().After(session.ExpiresAt) {
				_ = sessions.Delete(r.Context(), sessionID)
				clearCookie(w)
				redirectToLogin(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, session.UserID)
			ctx = context.WithValue(ctx, sessionIDKey, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NoCache keeps the browser from replaying pages that show balances.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
