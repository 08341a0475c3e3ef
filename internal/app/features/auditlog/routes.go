// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"github.com/sprinthub/sprinthub/internal/domain/models"
)

// Routes mounts the audit endpoints (typically under /audit). Admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Get("/", h.ServeList)
	})
	return r
}
