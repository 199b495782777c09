package middleware

import (
	"net/http"

	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/utils"
)

// Operation names one authorization-relevant endpoint.
type Operation string

const (
	OpSignOut        Operation = "auth:sign-out"
	OpRevokeTokens   Operation = "auth:revoke-tokens"
	OpUpdatePassword Operation = "auth:update-password"
)

// RoutePolicy is the statically declared table mapping each protected
// operation to the roles allowed to call it. Declared in one place so
// the whole authorization surface is reviewable at a glance.
var RoutePolicy = map[Operation][]models.Role{
	OpSignOut:        {models.RoleAdmin, models.RoleEmployee, models.RoleCustomer},
	OpRevokeTokens:   {models.RoleAdmin, models.RoleEmployee, models.RoleCustomer},
	OpUpdatePassword: {models.RoleAdmin, models.RoleEmployee, models.RoleCustomer},
}

// Allowed is the single authorization-check function: it consults
// RoutePolicy for the operation and reports whether role may call it.
// Operations absent from the table deny everything.
func Allowed(op Operation, role models.Role) bool {
	for _, allowed := range RoutePolicy[op] {
		if allowed == role {
			return true
		}
	}
	return false
}

// RequireRoles enforces RoutePolicy for one operation. It must run
// after AuthMiddleware, which provides the claims.
func RequireRoles(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing authentication", nil,
				)
				return
			}
			if !Allowed(op, claims.Role) {
				utils.RespondErrorWithCode(
					w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient role", nil,
				)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
