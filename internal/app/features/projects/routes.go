// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// Routes mounts the project endpoints (typically under /projects).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Any signed-in company user can read.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	// Mutations are admin-only; the creator check inside each handler
	// narrows it further.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
