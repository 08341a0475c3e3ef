package projects_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	projectsfeature "github.com/sprinthub/sprinthub/internal/app/features/projects"
	auditstore "github.com/sprinthub/sprinthub/internal/app/store/audit"
	"github.com/sprinthub/sprinthub/internal/app/system/auditlog"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	handler *projectsfeature.Handler
	f       *testutil.Fixtures

	company models.Company
	admin   models.User
	member  models.User
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	logger := zap.NewNop()

	company := f.CreateCompany(ctx, "Acme")
	admin := f.CreateUser(ctx, company.ID, "Admin", "admin@acme.test", models.RoleAdmin)
	member := f.CreateUser(ctx, company.ID, "Member", "member@acme.test", models.RoleMember)

	audit := auditlog.New(auditstore.New(db), logger)
	return env{
		handler: projectsfeature.NewHandler(db, audit, logger),
		f:       f,
		company: company,
		admin:   admin,
		member:  member,
	}
}

func createBody(e env) map[string]any {
	start := time.Now().UTC()
	return map[string]any{
		"name":        "Apollo",
		"description": "The main delivery project.",
		"key":         "APOLLO",
		"startDate":   start,
		"endDate":     start.Add(90 * 24 * time.Hour),
		"members":     []string{e.member.ID.Hex()},
	}
}

func TestHandleCreate_CreatorBecomesMember(t *testing.T) {
	e := setup(t)

	req := testutil.NewJSONRequest(t, "POST", "/projects", createBody(e), testutil.AsUser(e.admin))
	rec := testutil.NewRecorder()
	e.handler.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var resp struct {
		Project models.Project `json:"project"`
	}
	rec.DecodeJSON(t, &resp)
	if !resp.Project.HasMember(e.admin.ID) {
		t.Errorf("creator should be added to the member list")
	}
	if !resp.Project.HasMember(e.member.ID) {
		t.Errorf("requested member missing from the member list")
	}
	if resp.Project.Visibility != models.VisibilityPublic {
		t.Errorf("visibility: got %q, want default %q", resp.Project.Visibility, models.VisibilityPublic)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	e := setup(t)

	cases := []struct {
		name   string
		mutate func(map[string]any)
		want   string
	}{
		{"short name", func(b map[string]any) { b["name"] = "Ap" }, "project name must be at least 3 characters"},
		{"short description", func(b map[string]any) { b["description"] = "too short" }, "description must be at least 10 characters"},
		{"bad key", func(b map[string]any) { b["key"] = "9BAD" }, "project key must be"},
		{"bad visibility", func(b map[string]any) { b["visibility"] = "Hidden" }, "visibility must be Public or Private"},
		{"dates reversed", func(b map[string]any) {
			b["startDate"] = time.Now().UTC()
			b["endDate"] = time.Now().UTC().Add(-time.Hour)
		}, "end date must be after start date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := createBody(e)
			tc.mutate(body)
			req := testutil.NewJSONRequest(t, "POST", "/projects", body, testutil.AsUser(e.admin))
			rec := testutil.NewRecorder()
			e.handler.HandleCreate(rec, req)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertBodyContains(t, tc.want)
		})
	}
}

func TestHandleCreate_DuplicateKey(t *testing.T) {
	e := setup(t)

	req := testutil.NewJSONRequest(t, "POST", "/projects", createBody(e), testutil.AsUser(e.admin))
	rec := testutil.NewRecorder()
	e.handler.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	body := createBody(e)
	body["name"] = "Apollo Again"
	req = testutil.NewJSONRequest(t, "POST", "/projects", body, testutil.AsUser(e.admin))
	rec = testutil.NewRecorder()
	e.handler.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertBodyContains(t, "project key already exists in this company")
}

func TestServeView_CrossTenantIsNotFound(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	project := e.f.CreateProject(ctx, e.company.ID, e.admin.ID, "Apollo", "APOLLO")
	globex := e.f.CreateCompany(ctx, "Globex")
	intruder := e.f.CreateUser(ctx, globex.ID, "Intruder", "intruder@globex.test", models.RoleAdmin)

	req := testutil.NewAuthenticatedRequest("GET", "/projects/"+project.ID.Hex(), testutil.AsUser(intruder))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.ServeView(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertBodyContains(t, "project not found")
}

func TestHandleEdit_CreatorOnly(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	project := e.f.CreateProject(ctx, e.company.ID, e.admin.ID, "Apollo", "APOLLO")
	otherAdmin := e.f.CreateUser(ctx, e.company.ID, "Other Admin", "other@acme.test", models.RoleAdmin)

	name := "Renamed"
	req := testutil.NewJSONRequest(t, "PUT", "/projects/"+project.ID.Hex(),
		map[string]*string{"name": &name}, testutil.AsUser(otherAdmin))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertBodyContains(t, "only the project creator may perform this action")
}

func TestServeList_ScopedByRole(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	e.f.CreateProject(ctx, e.company.ID, e.admin.ID, "Mine", "MINE", e.member.ID)
	otherAdmin := e.f.CreateUser(ctx, e.company.ID, "Other Admin", "other@acme.test", models.RoleAdmin)
	e.f.CreateProject(ctx, e.company.ID, otherAdmin.ID, "Theirs", "THEIRS")

	type listResponse struct {
		Count    int              `json:"count"`
		Projects []models.Project `json:"projects"`
	}

	// An admin's default list covers only projects they created.
	req := testutil.NewAuthenticatedRequest("GET", "/projects", testutil.AsUser(e.admin))
	rec := testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var mine listResponse
	rec.DecodeJSON(t, &mine)
	if mine.Count != 1 || mine.Projects[0].Name != "Mine" {
		t.Errorf("admin default list: got %d projects", mine.Count)
	}

	// ?all=true widens an admin to the whole company.
	req = testutil.NewAuthenticatedRequest("GET", "/projects?all=true", testutil.AsUser(e.admin))
	rec = testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var all listResponse
	rec.DecodeJSON(t, &all)
	if all.Count != 2 {
		t.Errorf("admin all list: got %d projects, want 2", all.Count)
	}

	// Members see the projects they belong to.
	req = testutil.NewAuthenticatedRequest("GET", "/projects", testutil.AsUser(e.member))
	rec = testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var membership listResponse
	rec.DecodeJSON(t, &membership)
	if membership.Count != 1 || membership.Projects[0].Name != "Mine" {
		t.Errorf("member list: got %d projects", membership.Count)
	}
}

func TestServeList_Paged(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	for _, key := range []string{"ONE", "TWO", "THREE"} {
		e.f.CreateProject(ctx, e.company.ID, e.admin.ID, "Project "+key, key)
	}

	type listResponse struct {
		Count      int              `json:"count"`
		Projects   []models.Project `json:"projects"`
		NextCursor string           `json:"nextCursor"`
	}

	req := testutil.NewAuthenticatedRequest("GET", "/projects?limit=2", testutil.AsUser(e.admin))
	rec := testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var first listResponse
	rec.DecodeJSON(t, &first)
	if first.Count != 2 || first.NextCursor == "" {
		t.Fatalf("first page: count=%d cursor=%q, want 2 and a cursor", first.Count, first.NextCursor)
	}

	req = testutil.NewAuthenticatedRequest("GET", "/projects?limit=2&after="+first.NextCursor, testutil.AsUser(e.admin))
	rec = testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var second listResponse
	rec.DecodeJSON(t, &second)
	if second.Count != 1 || second.NextCursor != "" {
		t.Errorf("second page: count=%d cursor=%q, want the final project", second.Count, second.NextCursor)
	}
	for _, p := range first.Projects {
		if len(second.Projects) > 0 && p.ID == second.Projects[0].ID {
			t.Errorf("page overlap on project %s", p.Name)
		}
	}
}

func TestHandleDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	project := e.f.CreateProject(ctx, e.company.ID, e.admin.ID, "Apollo", "APOLLO")

	req := testutil.NewAuthenticatedRequest("DELETE", "/projects/"+project.ID.Hex(), testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewAuthenticatedRequest("GET", "/projects/"+project.ID.Hex(), testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	rec = testutil.NewRecorder()
	e.handler.ServeView(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
