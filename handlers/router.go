package handlers

import (
	"net/http"

	"timeclock/clock"
	"timeclock/config"
	"timeclock/logging"
	"timeclock/middleware"
	"timeclock/models"
	"timeclock/response"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires every route. database.DB must be initialised first.
func NewRouter(cfg *config.Config, service clock.Service, repo clock.Repository, logger *zap.Logger) http.Handler {
	authHandler := NewAuthHandler(cfg, logger)
	clockHandler := NewClockHandler(service, cfg.EvidenceMaxBytes)
	analyticsHandler := NewAnalyticsHandler(repo)
	adminHandler := NewAdminHandler(repo, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(logging.Middleware(logger))
	router.Use(chimiddleware.Recoverer)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes
	router.Post("/login", authHandler.Login)
	router.Post("/register", authHandler.Register)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		// Reachable while a password change is pending
		r.Post("/logout", authHandler.Logout)
		r.Post("/change-password", authHandler.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange)

			r.Post("/clock/in", clockHandler.ClockIn)
			r.Post("/clock/out", clockHandler.ClockOut)
			r.Get("/clock/active", clockHandler.Active)

			r.Get("/me/sessions", analyticsHandler.MySessions)
			r.Get("/me/stats", analyticsHandler.MyStats)
			r.Get("/me/analytics", analyticsHandler.MyAnalytics)

			// Employees may read their own id; managers and admins anyone's.
			r.Get("/users/{id}/sessions", analyticsHandler.UserSessions)
			r.Get("/users/{id}/stats", analyticsHandler.UserStats)
			r.Get("/users/{id}/analytics", analyticsHandler.UserAnalytics)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
				r.Get("/reports/summary", analyticsHandler.Summary)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/users", adminHandler.ListUsers)
				r.Post("/users", adminHandler.CreateUser)
				r.Put("/users/{id}", adminHandler.UpdateUser)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Get("/locations", adminHandler.ListLocations)
				r.Post("/locations", adminHandler.CreateLocation)
				r.Delete("/locations/{id}", adminHandler.DeleteLocation)
				r.Get("/invites", authHandler.ListInvites)
				r.Post("/invites", authHandler.CreateInvite)
				r.Delete("/sessions/{id}", adminHandler.DeleteSession)
			})
		})
	})

	return router
}
