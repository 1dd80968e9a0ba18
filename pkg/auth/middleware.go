package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/market/domain/models"
)

const sessionName = "marketledger_session"
const sessionAccountKey = "account"

// accountHeader lets non-browser clients (and local development) pass the
// calling account directly instead of going through a session cookie.
const accountHeader = "X-Market-Account"

// RequireAccount is a chi middleware that resolves the calling account.
// It first checks the session cookie, then falls back to the X-Market-Account
// header. The resolved account is injected into the request context.
// Returns 401 Unauthorized when neither source yields a valid account.
//
// After this middleware, handlers can safely call auth.AccountFromCtx(r.Context()).
func RequireAccount(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if account, ok := accountFromSession(store, r, log); ok {
				next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
				return
			}

			if account, ok := models.NewAccount(r.Header.Get(accountHeader)); ok {
				next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
				return
			}

			httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		})
	}
}

func accountFromSession(store sessions.Store, r *http.Request, log logger.Logger) (models.Account, bool) {
	session, err := store.Get(r, sessionName)
	if err != nil {
		log.WarnContext(r.Context(), "invalid session cookie", "error", err)
		return models.ZeroAccount, false
	}

	raw, ok := session.Values[sessionAccountKey].(string)
	if !ok || raw == "" {
		return models.ZeroAccount, false
	}

	account, ok := models.NewAccount(raw)
	if !ok {
		log.WarnContext(r.Context(), "invalid account in session", "account", raw)
		return models.ZeroAccount, false
	}
	return account, true
}
