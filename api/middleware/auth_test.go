package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	pkgAuth "github.com/coloriginz/supplier-onboarding-backend/pkg/auth"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "onboard-test", ExpirationMinutes: 60}
}

func mintToken(t *testing.T, roles, labels []string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(jwtConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Roles:  roles,
		Labels: labels,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return token
}

func authProbe(captured *lifecycle.Actor) http.Handler {
	return Auth(jwtConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAuthSeedsActor(t *testing.T) {
	var actor lifecycle.Actor
	handler := authProbe(&actor)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, []string{"finance", "erp"}, []string{"coloriginz"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !actor.Roles.Has(enums.UserRoleFinance) || !actor.Roles.Has(enums.UserRoleERP) {
		t.Fatalf("roles not seeded: %v", actor.Roles)
	}
	if len(actor.Labels) != 1 || actor.Labels[0] != enums.LabelColoriginz {
		t.Fatalf("labels not seeded: %v", actor.Labels)
	}
	if actor.System {
		t.Fatal("web actors are never system actors")
	}
}

func TestAuthDropsUnknownRolesAndLabels(t *testing.T) {
	var actor lifecycle.Actor
	handler := authProbe(&actor)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, []string{"finance", "superuser"}, []string{"coloriginz", "ghost"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
	if len(actor.Roles) != 1 || actor.Roles[0] != enums.UserRoleFinance {
		t.Fatalf("unknown roles must be dropped: %v", actor.Roles)
	}
	if len(actor.Labels) != 1 {
		t.Fatalf("unknown labels must be dropped: %v", actor.Labels)
	}
}

func TestAuthRejections(t *testing.T) {
	var actor lifecycle.Actor
	handler := authProbe(&actor)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"only unknown roles", "Bearer " + mintToken(t, []string{"superuser"}, nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	allowed := RequireRole(nil, enums.UserRoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), lifecycle.Actor{Roles: enums.RoleSet{enums.UserRoleAdmin}}))
	rec := httptest.NewRecorder()
	allowed.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin should pass, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), lifecycle.Actor{Roles: enums.RoleSet{enums.UserRoleFinance}}))
	rec = httptest.NewRecorder()
	allowed.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("finance should be rejected, got %d", rec.Code)
	}
}
