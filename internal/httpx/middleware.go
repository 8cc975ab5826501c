package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/users"
)

type ctxKey int

const (
	actorKey ctxKey = iota
	tokenKey
)

// AuthMiddleware resolves "Authorization: Token <token>" headers into an
// Actor on the request context. Requests without the header pass through
// anonymously; a presented-but-invalid token is rejected outright.
type AuthMiddleware struct {
	Tokens auth.TokenStore
	Users  users.Store
}

func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Token ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		userID, err := a.Tokens.Resolve(r.Context(), token)
		if errors.Is(err, auth.ErrTokenInvalid) {
			writeDetail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "auth backend unavailable")
			return
		}
		u, err := a.Users.GetByID(r.Context(), userID)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, auth.Actor{ID: u.ID, IsStaff: u.IsStaff})
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) (auth.Actor, bool) {
	a, ok := r.Context().Value(actorKey).(auth.Actor)
	return a, ok
}

func tokenFrom(r *http.Request) string {
	t, _ := r.Context().Value(tokenKey).(string)
	return t
}

// requireActor writes 401 when the request is anonymous.
func requireActor(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	a, ok := actorFrom(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "authentication required")
	}
	return a, ok
}

// requireStaff writes 401 for anonymous callers and 403 for
// authenticated non-admins.
func requireStaff(w http.ResponseWriter, r *http.Request, allowed func(auth.Actor) bool) (auth.Actor, bool) {
	a, ok := requireActor(w, r)
	if !ok {
		return a, false
	}
	if !allowed(a) {
		writeDetail(w, http.StatusForbidden, "admin privileges required")
		return a, false
	}
	return a, true
}
