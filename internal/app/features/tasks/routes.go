// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// Routes mounts the task endpoints (typically under /tasks). Creation,
// editing and deletion belong to admins; the status transition belongs to
// the assignee, who is always a member.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleMember))
		pr.Patch("/{id}/status", h.HandleStatus)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
