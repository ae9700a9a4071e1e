package middleware

import (
	"net/http"
	"strings"

	"github.com/coloriginz/supplier-onboarding-backend/api/responses"
	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	pkgAuth "github.com/coloriginz/supplier-onboarding-backend/pkg/auth"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	pkgerrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the actor.
// Unknown roles or labels in an otherwise valid token are dropped rather than
// rejected, so a stale token keeps working with its remaining permissions.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			actor := lifecycle.Actor{
				UserID: claims.UserID,
				Roles:  parseRoles(claims.Roles),
				Labels: parseLabels(claims.Labels),
			}
			if len(actor.Roles) == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries no usable roles"))
				return
			}

			ctx := WithActor(r.Context(), actor)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				ctx = logg.WithActorRoles(ctx, claims.Roles)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseRoles(raw []string) enums.RoleSet {
	set := make(enums.RoleSet, 0, len(raw))
	for _, value := range raw {
		role, err := enums.ParseUserRole(value)
		if err != nil {
			continue
		}
		if !set.Has(role) {
			set = append(set, role)
		}
	}
	return set
}

func parseLabels(raw []string) []enums.Label {
	out := make([]enums.Label, 0, len(raw))
	for _, value := range raw {
		label, err := enums.ParseLabel(value)
		if err != nil {
			continue
		}
		out = append(out, label)
	}
	return out
}
