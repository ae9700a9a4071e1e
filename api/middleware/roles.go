package middleware

import (
	"net/http"

	"github.com/coloriginz/supplier-onboarding-backend/api/responses"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	pkgerrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
)

// RequireRole rejects requests whose actor holds none of the allowed roles.
// Fine-grained per-transition checks still live in the services; this guard
// keeps whole route groups off-limits.
func RequireRole(logg *logger.Logger, allowed ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if !actor.Roles.Intersects(allowed...) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbiddenRole, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
