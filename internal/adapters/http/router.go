package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caretrack/strokeregistry/internal/application"
	"github.com/caretrack/strokeregistry/internal/domain"
)

// Handler is the HTTP adapter entrypoint. It depends only on the application
// service so the adapter boundary stays clean.
type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers all routes and the middleware stack. Session and role
// enforcement happens here, per route group, so handlers never re-check.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)

		r.Group(func(r chi.Router) {
			r.Use(handler.requireRole(domain.RoleStandard))
			r.Post("/logout", handler.logout)
			r.Get("/me", handler.me)
		})
	})

	r.Route("/patients/v1", func(r chi.Router) {
		r.Use(handler.requireRole(domain.RoleStandard))
		r.Get("/", handler.listPatients)
		r.Post("/", handler.createPatient)
		r.Get("/{id}", handler.getPatient)
		r.Put("/{id}", handler.updatePatient)
		r.Delete("/{id}", handler.deletePatient)
	})

	r.Route("/dashboard/v1", func(r chi.Router) {
		r.Use(handler.requireRole(domain.RoleStandard))
		r.Get("/stats", handler.dashboard)
		r.Get("/analytics", handler.analytics)
	})

	r.Route("/admin/v1", func(r chi.Router) {
		r.Use(handler.requireRole(domain.RoleAdmin))
		r.Get("/users", handler.listUsers)
		r.Put("/users/{id}/role", handler.changeUserRole)
		r.Get("/login-attempts", handler.loginAttempts)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}
