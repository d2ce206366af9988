package middleware

import (
	"context"
	"log/slog"
	"net/http"

	h "sponsorregistration/internal/delivery/http/helpers"
	"sponsorregistration/internal/domain"
)

type contextKey string

const accountKey contextKey = "account"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SetAccount returns a context with the authenticated account set.
func SetAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFromContext returns the authenticated account from the context,
// or nil for anonymous requests.
func AccountFromContext(ctx context.Context) *domain.Account {
	account, _ := ctx.Value(accountKey).(*domain.Account)
	return account
}

// LoadSession resolves the session cookie into an account and stores it in
// the request context. Requests without a valid session proceed anonymously;
// the middleware never rejects.
func LoadSession(codec domain.SessionCodec, accounts domain.AccountRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			accountID, err := codec.Verify(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			// The admin flag is re-read from storage on every request, so a
			// stale token cannot outlive a privilege change.
			account, err := accounts.GetByID(r.Context(), accountID)
			if err != nil {
				if err != domain.ErrAccountNotFound {
					logger.Error("failed to resolve session account", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetAccount(r.Context(), account)))
		})
	}
}

// RequireAdmin gates a handler behind an authenticated admin account.
// Anonymous or non-admin callers are redirected to the public index with
// a visible "Access denied." message; no HTTP-level error is raised.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := AccountFromContext(r.Context())
		if account == nil || !account.IsAdmin {
			h.Redirect(w, r, "/", "error", "Access denied.")
			return
		}
		next(w, r)
	}
}
