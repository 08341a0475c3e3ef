package companies_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	companiesfeature "github.com/sprinthub/sprinthub/internal/app/features/companies"
	"github.com/sprinthub/sprinthub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeSuggest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	f.CreateCompany(ctx, "Acme Corp")
	f.CreateCompany(ctx, "Acme Labs")
	f.CreateCompany(ctx, "Globex")

	h := companiesfeature.NewHandler(db, zap.NewNop())

	// No session required; this serves the registration form.
	req := httptest.NewRequest("GET", "/companies/suggest?query=acme", nil)
	rec := testutil.NewRecorder()
	h.ServeSuggest(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Companies []string `json:"companies"`
	}
	rec.DecodeJSON(t, &resp)
	if len(resp.Companies) != 2 {
		t.Errorf("suggest: got %d names, want 2", len(resp.Companies))
	}

	req = httptest.NewRequest("GET", "/companies/suggest", nil)
	rec = testutil.NewRecorder()
	h.ServeSuggest(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &resp)
	if len(resp.Companies) != 0 {
		t.Errorf("blank query should suggest nothing, got %v", resp.Companies)
	}
}
