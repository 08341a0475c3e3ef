// internal/app/features/teams/delete.go
package teams

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/policy/scopepolicy"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
)

// HandleDelete removes a team. Creator only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	team, err := h.Teams.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := scopepolicy.RequireCreator(team.CreatedBy, caller.UserID, "team"); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Teams.Delete(ctx, id, caller.CompanyID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Audit.Record(caller.CompanyID, caller.UserID, "delete", "team", id, team.Name)
	httpjson.Message(w, http.StatusOK, "team deleted successfully")
}
