package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"school-management/backend/internal/audit"
	"school-management/backend/internal/devcode"
	schoolrepo "school-management/backend/internal/school/repository"
	"school-management/backend/internal/security"
)

// Deps holds the dependencies for the HTTP router.
type Deps struct {
	// Auth is the auth service for login, password change, and reset. Required.
	Auth AuthService
	// Tokens validates Bearer session tokens on protected routes. Required.
	Tokens *security.TokenProvider
	// SchoolRepo backs the /v1/schools endpoints. If nil, the routes are not registered.
	SchoolRepo schoolrepo.Repository
	// AuditLogger records auth events. May be nil.
	AuditLogger audit.AuditLogger
	// DevCodes enables GET /dev/reset-code and captures reset codes in memory.
	// Set only when dev reset mode is enabled and not production.
	DevCodes devcode.Store
	// HealthPinger is used by /healthz for readiness (e.g. *sql.DB). If nil, the DB ping is skipped.
	HealthPinger Pinger
}

// NewRouter builds the chi router with all routes and middleware. Every
// request passes through otelhttp instrumentation and client IP resolution;
// only routes past RequireAuth see an identity in context.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(ClientIPMiddleware)

	authHandler := NewAuthHandler(deps.Auth, deps.AuditLogger, deps.DevCodes)

	r.Get("/healthz", NewHealthHandler(deps.HealthPinger).Check)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/reset/request", authHandler.RequestReset)
		r.Post("/reset/confirm", authHandler.ConfirmReset)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(deps.Tokens))
			r.Post("/change-password", authHandler.ChangePassword)
		})
	})

	if deps.SchoolRepo != nil {
		schoolHandler := NewSchoolHandler(deps.SchoolRepo)
		r.Route("/v1/schools", func(r chi.Router) {
			r.Use(RequireAuth(deps.Tokens))
			r.Get("/", schoolHandler.List)
			r.Post("/", schoolHandler.Create)
			r.Get("/{id}", schoolHandler.Get)
		})
	}

	if deps.DevCodes != nil {
		r.Get("/dev/reset-code", authHandler.DevResetCode)
	}

	return otelhttp.NewHandler(r, "http.server")
}
