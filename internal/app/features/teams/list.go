// internal/app/features/teams/list.go
package teams

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

// ServeList lists teams for the caller, paged. With ?project_id=… both
// roles get the teams of that project (company-scoped); otherwise members
// see teams they belong to and admins see every team in projects they can
// reach.
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
		teams []models.Team
		err   error
	)
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		var projectID primitive.ObjectID
		projectID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Message(w, http.StatusBadRequest, "invalid project id")
			return
		}
		// Resolving the project company-scoped keeps cross-tenant project
		// IDs indistinguishable from absent ones.
		if _, err = h.Projects.GetScoped(ctx, projectID, caller.CompanyID); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		teams, err = h.Teams.ListByProject(ctx, caller.CompanyID, projectID, pg)
	} else if caller.IsAdmin() {
		teams, err = h.Teams.ListCreatedBy(ctx, caller.CompanyID, caller.UserID, pg)
	} else {
		teams, err = h.Teams.ListForMember(ctx, caller.CompanyID, caller.UserID, pg)
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	next, more := paging.Trim(pg, &teams, func(t models.Team) primitive.ObjectID { return t.ID })

	resp := map[string]any{
		"count": len(teams),
		"teams": teams,
	}
	if more {
		resp["nextCursor"] = next
	}
	httpjson.Write(w, http.StatusOK, resp)
}
