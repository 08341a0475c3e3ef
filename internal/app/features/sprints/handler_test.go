package sprints_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	sprintsfeature "github.com/sprinthub/sprinthub/internal/app/features/sprints"
	auditstore "github.com/sprinthub/sprinthub/internal/app/store/audit"
	"github.com/sprinthub/sprinthub/internal/app/system/auditlog"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	handler *sprintsfeature.Handler
	f       *testutil.Fixtures

	company models.Company
	admin   models.User
	project models.Project
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	logger := zap.NewNop()

	company := f.CreateCompany(ctx, "Acme")
	admin := f.CreateUser(ctx, company.ID, "Admin", "admin@acme.test", models.RoleAdmin)
	project := f.CreateProject(ctx, company.ID, admin.ID, "Apollo", "APOLLO")

	audit := auditlog.New(auditstore.New(db), logger)
	return env{
		handler: sprintsfeature.NewHandler(db, audit, logger),
		f:       f,
		company: company,
		admin:   admin,
		project: project,
	}
}

func TestHandleCreate(t *testing.T) {
	e := setup(t)

	start := time.Now().UTC()
	end := start.Add(14 * 24 * time.Hour)
	req := testutil.NewJSONRequest(t, "POST", "/sprints", map[string]any{
		"projectId": e.project.ID.Hex(),
		"name":      "Sprint 1",
		"goal":      "Ship the search MVP",
		"startDate": start,
		"endDate":   end,
	}, testutil.AsUser(e.admin))
	rec := testutil.NewRecorder()
	e.handler.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var resp struct {
		Sprint models.Sprint `json:"sprint"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Sprint.Status != models.SprintPlanned {
		t.Errorf("status: got %q, want %q", resp.Sprint.Status, models.SprintPlanned)
	}
}

func TestHandleCreate_DateOrder(t *testing.T) {
	e := setup(t)

	start := time.Now().UTC()
	req := testutil.NewJSONRequest(t, "POST", "/sprints", map[string]any{
		"projectId": e.project.ID.Hex(),
		"name":      "Sprint 1",
		"startDate": start,
		"endDate":   start.Add(-time.Hour),
	}, testutil.AsUser(e.admin))
	rec := testutil.NewRecorder()
	e.handler.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertBodyContains(t, "endDate must be after startDate")
}

func TestHandleEdit_Activate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint 1", models.SprintPlanned)

	status := models.SprintActive
	req := testutil.NewJSONRequest(t, "PUT", "/sprints/"+sprint.ID.Hex(),
		map[string]*string{"status": &status}, testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Sprint models.Sprint `json:"sprint"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Sprint.Status != models.SprintActive {
		t.Errorf("status: got %q, want %q", resp.Sprint.Status, models.SprintActive)
	}
}

func TestHandleEdit_ActivationNamesConflictingSprint(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint Alpha", models.SprintActive)
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint Beta", models.SprintPlanned)

	status := models.SprintActive
	req := testutil.NewJSONRequest(t, "PUT", "/sprints/"+sprint.ID.Hex(),
		map[string]*string{"status": &status}, testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertBodyContains(t, "complete the existing active sprint first: Sprint Alpha")
}

func TestHandleEdit_RejectedActivationChangesNothing(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint Alpha", models.SprintActive)
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint Beta", models.SprintPlanned)

	// The rename rides with the refused activation, so neither may land.
	status := models.SprintActive
	name := "Sprint Beta (renamed)"
	req := testutil.NewJSONRequest(t, "PUT", "/sprints/"+sprint.ID.Hex(),
		map[string]*string{"status": &status, "name": &name}, testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusConflict)

	current, err := e.handler.Sprints.GetScoped(ctx, sprint.ID, e.company.ID)
	if err != nil {
		t.Fatalf("reload sprint: %v", err)
	}
	if current.Name != "Sprint Beta" {
		t.Errorf("name changed despite rejected activation: %q", current.Name)
	}
	if current.Status != models.SprintPlanned {
		t.Errorf("status changed despite rejected activation: %q", current.Status)
	}
}

func TestHandleEdit_CompletedSprintIsFrozen(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Done Sprint", models.SprintCompleted)

	name := "Renamed"
	req := testutil.NewJSONRequest(t, "PUT", "/sprints/"+sprint.ID.Hex(),
		map[string]*string{"name": &name}, testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertBodyContains(t, "completed sprint cannot be updated")
}

func TestHandleEdit_CreatorOnly(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint 1", models.SprintPlanned)
	otherAdmin := e.f.CreateUser(ctx, e.company.ID, "Other Admin", "other@acme.test", models.RoleAdmin)

	name := "Renamed"
	req := testutil.NewJSONRequest(t, "PUT", "/sprints/"+sprint.ID.Hex(),
		map[string]*string{"name": &name}, testutil.AsUser(otherAdmin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleEdit(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleComplete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint 1", models.SprintActive)

	req := testutil.NewAuthenticatedRequest("POST", "/sprints/"+sprint.ID.Hex()+"/complete", testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleComplete(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertBodyContains(t, "sprint completed successfully")
}

func TestHandleComplete_OnlyFromActive(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint 1", models.SprintPlanned)

	req := testutil.NewAuthenticatedRequest("POST", "/sprints/"+sprint.ID.Hex()+"/complete", testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleComplete(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertBodyContains(t, "invalid status transition from Planned to Completed")
}

func TestHandleDelete_RefusedWhileTasksAssigned(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	member := e.f.CreateUser(ctx, e.company.ID, "Member", "member@acme.test", models.RoleMember)
	team := e.f.CreateTeam(ctx, e.company.ID, e.project.ID, e.admin.ID, "Core", "CORE", member.ID)
	sprint := e.f.CreateSprint(ctx, e.company.ID, e.project.ID, e.admin.ID, "Sprint 1", models.SprintActive)
	task := e.f.CreateTask(ctx, e.company.ID, e.project.ID, team.ID, member.ID, e.admin.ID, "In-sprint work", models.TaskTodo)
	e.f.AttachTaskToSprint(ctx, task.ID, sprint.ID)

	req := testutil.NewAuthenticatedRequest("DELETE", "/sprints/"+sprint.ID.Hex(), testutil.AsUser(e.admin))
	req = testutil.WithChiURLParam(req, "id", sprint.ID.Hex())
	rec := testutil.NewRecorder()
	e.handler.HandleDelete(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertBodyContains(t, "sprint cannot be deleted as tasks are assigned")
}

func TestServeList_RequiresProjectFilter(t *testing.T) {
	e := setup(t)

	req := testutil.NewAuthenticatedRequest("GET", "/sprints", testutil.AsUser(e.admin))
	rec := testutil.NewRecorder()
	e.handler.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertBodyContains(t, "project_id is required")
}
