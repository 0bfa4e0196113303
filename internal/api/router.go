package api

import (
	"net/http"

	"github.com/calebw/tasklist-api/internal/api/handlers"
	"github.com/calebw/tasklist-api/internal/api/middleware"
	"github.com/calebw/tasklist-api/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	userHandler := handlers.NewUserHandler(services.User)
	sessionHandler := handlers.NewSessionHandler(services.Session)
	taskHandler := handlers.NewTaskHandler(services.Task)

	r.Route("/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.Register)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Login)
			r.Patch("/{sessionID}", sessionHandler.Refresh)
			r.Delete("/{sessionID}", sessionHandler.Logout)
		})

		// Task routes require a valid access token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Session))

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/page/{page}", taskHandler.ListPage)
				r.Get("/{taskID}", taskHandler.Get)
				r.Patch("/{taskID}", taskHandler.Update)
				r.Delete("/{taskID}", taskHandler.Delete)
			})
		})
	})

	return r
}
