package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/memeforge/memeforge/internal/auth"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	return identity, ok
}

// requireAuth resolves the Bearer token into an Identity and stores it in
// the request context. Requests without a valid token get 401.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, r, a.log, errUnauthorized)
			return
		}

		identity, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			respondError(w, r, a.log, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates a route on the admin token claim. Must run after
// requireAuth.
func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin {
			respondError(w, r, a.log, errForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// rateLimitKey keys the generation rate limit by authenticated user.
func rateLimitKey(r *http.Request) string {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return ""
	}
	return identity.UserID.String()
}
