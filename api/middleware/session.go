package middleware

import (
	"errors"
	"net/http"

	"github.com/shophub-io/shophub-backend/api/responses"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/session"
)

// Session resolves the visitor's session from the cookie, minting a fresh
// one when absent, and attaches the logged-in user id when the session
// carries one. Every request downstream has a session id in context.
func Session(store *session.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(store.CookieName()); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = session.NewID()
				http.SetCookie(w, store.Cookie(sessionID))
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			var userID int64
			err := store.Get(ctx, sessionID, session.KeyUser, &userID)
			if err != nil && !errors.Is(err, session.ErrNotFound) && logg != nil {
				logg.Warn(ctx, "resolving session user failed")
			}
			if err == nil && userID > 0 {
				ctx = WithUserID(ctx, userID)
				if logg != nil {
					ctx = logg.WithUserID(ctx, userID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests without an authenticated user.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
