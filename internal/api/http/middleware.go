package http

import (
	"context"
	"net/http"
	"strings"

	"rentloop-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "user_claims"

// AuthMiddleware resolves the caller's identity from a bearer token. The core
// trusts the provider's claims; no authentication happens here.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func claimsFrom(r *http.Request) *security.UserClaims {
	claims, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	return claims
}
