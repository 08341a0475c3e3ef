// internal/app/features/sprints/routes.go
package sprints

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// Routes mounts the sprint endpoints (typically under /sprints).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Post("/{id}/complete", h.HandleComplete)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
