package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/services"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

type contextKey string

const (
	ContextKeyClaims = contextKey("claims")
	ContextKeyToken  = contextKey("rawToken")
)

// AuthMiddleware guards protected endpoints: it extracts the bearer
// token, runs the token manager's full validation chain, and injects
// the claims (and the raw token string) into the request context.
func AuthMiddleware(tokenManager services.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			claims, vErr := tokenManager.Validate(r.Context(), tokenStr)
			if vErr != nil {
				if errors.Is(vErr, utils.ErrInvalidToken) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeInvalidToken, "Invalid token", vErr,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusInternalServerError, utils.ErrCodeInternal, "Token validation failed", nil, vErr,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			ctx = context.WithValue(ctx, ContextKeyToken, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the validated claims placed by
// AuthMiddleware, or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *models.TokenClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*models.TokenClaims)
	return claims
}

// TokenFromContext returns the raw bearer token string placed by
// AuthMiddleware.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeyToken).(string)
	return token
}

func extractBearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	token := strings.TrimPrefix(h, "Bearer ")
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
