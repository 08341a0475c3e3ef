// internal/app/features/projects/view.go
package projects

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
)

// ServeView returns one project, company-scoped. A project in another
// company is indistinguishable from one that does not exist.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	caller, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	project, err := h.Projects.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"project": project})
}
