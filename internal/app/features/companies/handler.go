// internal/app/features/companies/handler.go
package companies

import (
	"context"
	"net/http"

	companystore "github.com/sprinthub/sprinthub/internal/app/store/companies"
	"github.com/sprinthub/sprinthub/internal/app/system/httpjson"
	"github.com/sprinthub/sprinthub/internal/app/system/normalize"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// suggestLimit caps how many names the suggest endpoint returns.
const suggestLimit = 10

// Handler serves company name suggestions for the registration form.
type Handler struct {
	Companies *companystore.Store
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Companies: companystore.New(db),
		Log:       logger,
	}
}

// ServeSuggest handles GET /companies/suggest?query=…. It is deliberately
// unauthenticated (registration happens before login) and returns names
// only.
func (h *Handler) ServeSuggest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	query := normalize.QueryParam(r.URL.Query().Get("query"))
	if query == "" {
		httpjson.Write(w, http.StatusOK, map[string]any{"companies": []string{}})
		return
	}

	companies, err := h.Companies.Suggest(ctx, query, suggestLimit)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	names := make([]string, 0, len(companies))
	for _, c := range companies {
		names = append(names, c.Name)
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"companies": names})
}
