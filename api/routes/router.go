package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coloriginz/supplier-onboarding-backend/api/controllers"
	"github.com/coloriginz/supplier-onboarding-backend/api/middleware"
	"github.com/coloriginz/supplier-onboarding-backend/internal/audit"
	"github.com/coloriginz/supplier-onboarding-backend/internal/auth"
	"github.com/coloriginz/supplier-onboarding-backend/internal/files"
	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	"github.com/coloriginz/supplier-onboarding-backend/internal/users"
	"github.com/coloriginz/supplier-onboarding-backend/internal/vat"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Redis     *redis.Client
	DB        controllers.HealthPinger
	Storage   controllers.HealthPinger
	Auth      auth.Service
	Users     users.Service
	Lifecycle lifecycle.Service
	Audit     audit.Service
	Files     files.Service
	VAT       vat.Checker
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.BaseURL),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(logg, controllers.ReadinessDeps(deps.DB, deps.Redis, deps.Storage)))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/activate", controllers.AuthActivate(deps.Auth, logg))
		r.Post("/forgot-password", controllers.AuthForgotPassword(deps.Auth, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(deps.Auth, logg))
	})

	// Supplier portal: token-authenticated, rate limited per IP and token.
	r.Route("/api/v1/portal/{token}", func(r chi.Router) {
		r.Use(middleware.PortalRateLimit(cfg.PortalRateLimit, deps.Redis, logg))
		r.Get("/", controllers.PortalGetRequest(deps.Lifecycle, logg))
		r.Post("/submit", controllers.PortalSubmit(deps.Lifecycle, logg))
		r.Post("/files", controllers.PortalFileUpload(deps.Lifecycle, deps.Files, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/me", controllers.Me(deps.Users, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.RequestList(deps.Lifecycle, logg))
			r.Post("/", controllers.RequestCreate(deps.Lifecycle, logg))

			r.Route("/{requestId}", func(r chi.Router) {
				r.Get("/", controllers.RequestDetail(deps.Lifecycle, logg))
				r.Get("/audit", controllers.RequestAudit(deps.Lifecycle, deps.Audit, logg))
				r.Post("/files", controllers.RequestFileUpload(deps.Lifecycle, deps.Files, logg))

				r.Post("/purchaser-submit", controllers.RequestPurchaserSubmit(deps.Lifecycle, logg))
				r.Post("/finance-submit", controllers.RequestFinanceSubmit(deps.Lifecycle, logg))
				r.Post("/erp-submit", controllers.RequestERPSubmit(deps.Lifecycle, logg))
				r.Post("/change-type", controllers.RequestChangeType(deps.Lifecycle, logg))
				r.Post("/cancel", controllers.RequestCancel(deps.Lifecycle, logg))
				r.Post("/reopen", controllers.RequestReopen(deps.Lifecycle, logg))
				r.Post("/resend-invitation", controllers.RequestResendInvitation(deps.Lifecycle, logg))
				r.Post("/remind", controllers.RequestRemind(deps.Lifecycle, logg))
			})
		})

		r.Post("/vat/check", controllers.VATCheck(deps.VAT, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
			r.Get("/", controllers.UserList(deps.Users, logg))
			r.Post("/", controllers.UserCreate(deps.Users, logg))
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", controllers.UserDetail(deps.Users, logg))
				r.Patch("/", controllers.UserUpdate(deps.Users, logg))
				r.Post("/deactivate", controllers.UserDeactivate(deps.Users, logg))
				r.Post("/reactivate", controllers.UserReactivate(deps.Users, logg))
			})
		})
	})

	return r
}
