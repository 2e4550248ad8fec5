package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campregistration/internal/delivery/http/controllers"
	"campregistration/internal/delivery/http/helpers"
	"campregistration/internal/delivery/http/middleware"
	"campregistration/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Shift  *controllers.ShiftController
	Member *controllers.MemberController
	Auth   *controllers.AuthController
	Health *controllers.HealthController
}

// RouterConfig holds the cross-cutting dependencies of the router.
type RouterConfig struct {
	Verifier           domain.TokenVerifier
	Logger             *slog.Logger
	CORSAllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireAdmin := middleware.RequireAdmin(cfg.Verifier, cfg.Logger)

	// Shifts
	mux.HandleFunc("POST /shifts", c.Shift.Register)
	mux.HandleFunc("GET /shifts/availability", c.Shift.Availability)
	mux.HandleFunc("GET /shifts", availabilityOr(c.Shift.Availability, requireAdmin(c.Shift.ListRegistrations)))
	mux.HandleFunc("DELETE /shifts/{id}", requireAdmin(c.Shift.Remove))

	// Members
	mux.HandleFunc("POST /members", c.Member.Create)
	mux.HandleFunc("GET /members/{id}", c.Member.GetByID)
	mux.HandleFunc("GET /admin/members", requireAdmin(c.Member.List))
	mux.HandleFunc("PATCH /admin/members/{id}", requireAdmin(c.Member.Update))
	mux.HandleFunc("PATCH /admin/members/{id}/approval", requireAdmin(c.Member.SetApproval))
	mux.HandleFunc("DELETE /admin/members/{id}", requireAdmin(c.Member.Delete))

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	mux.HandleFunc("GET /health", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.Recover(cfg.Logger)(handler)
	handler = middleware.Logging(cfg.Logger)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)
	return handler
}

// availabilityOr serves the public availability view for ?availability=true and falls through to list otherwise.
func availabilityOr(availability, list http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if helpers.QueryFlag(r, "availability") {
			availability(w, r)
			return
		}
		list(w, r)
	}
}
