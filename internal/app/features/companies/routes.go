// internal/app/features/companies/routes.go
package companies

import "github.com/go-chi/chi/v5"

// Routes mounts the company endpoints (typically under /companies).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/suggest", h.ServeSuggest)
	return r
}
