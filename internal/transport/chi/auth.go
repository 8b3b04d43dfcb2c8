package chi

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const ownerCtxKey ctxKey = iota

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware resolves Bearer tokens to tenant owner IDs. Token
// issuance is an external concern; tenants maps already-issued tokens to the
// owner each one belongs to. Blank entries are ignored.
func BearerAuthMiddleware(tenants map[string]string) func(http.Handler) http.Handler {
	owners := make(map[string]string, len(tenants))
	for token, owner := range tenants {
		if token != "" && owner != "" {
			owners[token] = owner
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			owner, ok := owners[token]
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), ownerCtxKey, owner),
			))
		})
	}
}

// ownerFromContext returns the tenant owner ID resolved by the auth
// middleware, or empty for unauthenticated contexts.
func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerCtxKey).(string)
	return owner
}
