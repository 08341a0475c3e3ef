// internal/app/features/teams/view.go
package teams

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
)

// ServeView returns one team, company-scoped. Members can only see teams
// they belong to; admins see any team in the company.
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

	team, err := h.Teams.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if caller.IsMember() && !team.HasMember(caller.UserID) {
		httpjson.Error(w, h.Log, apperr.Forbidden("you are not a member of this team"))
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"team": team})
}
