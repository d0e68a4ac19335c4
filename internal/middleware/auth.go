package middleware

import (
	"net/http"
	"strings"

	"github.com/josh-kwaku/loan-servicing/internal/auth"
	"github.com/josh-kwaku/loan-servicing/internal/handler"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

// Auth requires a bearer token issued by the login endpoint and scopes the
// request, and its logger, to the token's lender.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			switch {
			case scheme == "" && !found:
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			case !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "":
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			claims, err := auth.ValidateToken(strings.TrimSpace(token), secret)
			if err != nil {
				logging.FromContext(r.Context()).Debug("token rejected", "error", err)
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			ctx = logging.WithAttrs(ctx, "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
