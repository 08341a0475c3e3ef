// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList lists projects for the caller, paged. Admins see projects they
// created, or the whole company with ?all=true; members see the projects
// they belong to.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pg := paging.Parse(r)
	var (
		projects []models.Project
		err      error
	)
	switch {
	case caller.IsAdmin() && r.URL.Query().Get("all") == "true":
		projects, err = h.Projects.ListByCompany(ctx, caller.CompanyID, pg)
	case caller.IsAdmin():
		projects, err = h.Projects.ListCreatedBy(ctx, caller.CompanyID, caller.UserID, pg)
	default:
		projects, err = h.Projects.ListForMember(ctx, caller.CompanyID, caller.UserID, pg)
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	next, more := paging.Trim(pg, &projects, func(p models.Project) primitive.ObjectID { return p.ID })

	resp := map[string]any{
		"count":    len(projects),
		"projects": projects,
	}
	if more {
		resp["nextCursor"] = next
	}
	httpjson.Write(w, http.StatusOK, resp)
}
