// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	auditstore "github.com/sprinthub/sprinthub/internal/app/store/audit"
	"github.com/sprinthub/sprinthub/internal/app/system/authz"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// defaultLimit caps the audit listing; ?limit can lower it but not raise it.
const defaultLimit = 100

// Handler serves the company audit trail to admins.
type Handler struct {
	Events *auditstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events: auditstore.New(db),
		Log:    logger,
	}
}

// ServeList handles GET /audit - recent admin mutations for the caller's
// company, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	caller, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := int64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n < defaultLimit {
			limit = n
		}
	}

	events, err := h.Events.ListByCompany(ctx, caller.CompanyID, limit)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if events == nil {
		events = []models.AuditEvent{}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"count":  len(events),
		"events": events,
	})
}
