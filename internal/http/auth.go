package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/session"
)

type userKey struct{}

// RequireUser rejects requests without a valid bearer token
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token", "UNAUTHORIZED")
			return
		}

		claims, err := session.Verify(h.secret, token)
		if err != nil {
			code := "INVALID_TOKEN"
			if errors.Is(err, session.ErrExpiredToken) {
				code = "TOKEN_EXPIRED"
			}
			writeError(w, http.StatusUnauthorized, err.Error(), code)
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the user set by RequireUser
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}
