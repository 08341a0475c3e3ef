// internal/app/features/sprints/list.go
package sprints

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /sprints?project_id=…, company-scoped.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("project_id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("project_id is required"))
		return
	}

	sprints, err := h.Sprints.ListByProject(ctx, caller.CompanyID, projectID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if sprints == nil {
		sprints = []models.Sprint{}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"count":   len(sprints),
		"sprints": sprints,
	})
}

// ServeView returns one sprint, company-scoped.
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

	sprint, err := h.Sprints.GetScoped(ctx, id, caller.CompanyID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"sprint": sprint})
}
