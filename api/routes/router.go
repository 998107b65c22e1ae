package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/softsellhq/softsell-backend/api/controllers"
	"github.com/softsellhq/softsell-backend/api/middleware"
	"github.com/softsellhq/softsell-backend/internal/auth"
	"github.com/softsellhq/softsell-backend/internal/licenses"
	"github.com/softsellhq/softsell-backend/internal/proofs"
	"github.com/softsellhq/softsell-backend/pkg/auth/session"
	"github.com/softsellhq/softsell-backend/pkg/config"
	"github.com/softsellhq/softsell-backend/pkg/enums"
	"github.com/softsellhq/softsell-backend/pkg/logger"
	"github.com/softsellhq/softsell-backend/pkg/metrics"
	"github.com/softsellhq/softsell-backend/pkg/redis"
)

// Deps bundles everything the router needs from cmd/api.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	DB             controllers.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	AuthService    auth.Service
	LicenseService licenses.Service
	ProofService   proofs.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// assigning a typed-nil client would defeat the middleware's nil check
	var limiterStore middleware.RateLimiterStore
	if deps.Redis != nil {
		limiterStore = deps.Redis
	}

	pingers := map[string]controllers.Pinger{"database": deps.DB}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, pingers))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiterStore, logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Put("/profile", controllers.AuthProfileUpdate(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1/licenses", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/", controllers.LicenseList(deps.LicenseService, logg))
		r.With(middleware.RequireRole(string(enums.RoleUser), logg)).
			Get("/mypurchases", controllers.LicenseMyPurchases(deps.LicenseService, logg))
		r.Get("/{id}", controllers.LicenseGet(deps.LicenseService, logg))

		r.With(middleware.RequireRole(string(enums.RoleSeller), logg)).
			Post("/", controllers.LicenseSubmit(deps.LicenseService, logg))
		r.With(middleware.RequireAnyRole(logg, string(enums.RoleSeller), string(enums.RoleAdmin))).
			Delete("/{id}", controllers.LicenseDelete(deps.LicenseService, logg))
		r.With(middleware.RequireRole(string(enums.RoleUser), logg)).
			Post("/{id}/buy", controllers.LicenseBuy(deps.LicenseService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
			r.Get("/expired-sold", controllers.LicenseExpiredSold(deps.LicenseService, logg))
			r.Patch("/{id}/approve", controllers.LicenseApprove(deps.LicenseService, logg))
			r.Patch("/{id}/reject", controllers.LicenseReject(deps.LicenseService, logg))
			r.Patch("/{id}/paid", controllers.LicenseMarkPaid(deps.LicenseService, logg))
		})
	})

	r.Route("/api/v1/purchase", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.With(middleware.RequireRole(string(enums.RoleUser), logg)).
			Post("/proof", controllers.ProofSubmit(deps.ProofService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
			r.Get("/proofs", controllers.ProofListPending(deps.ProofService, logg))
			r.Put("/proofs/{id}/approve", controllers.ProofApprove(deps.ProofService, logg))
			r.Put("/proofs/{id}/reject", controllers.ProofReject(deps.ProofService, logg))
		})
	})

	return r
}
