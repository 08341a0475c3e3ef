package taskstore_test

import (
	"context"
	"errors"
	"testing"

	taskstore "github.com/sprinthub/sprinthub/internal/app/store/tasks"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type taskEnv struct {
	store   *taskstore.Store
	company models.Company
	admin   models.User
	member  models.User
	project models.Project
	team    models.Team
}

func setupTaskEnv(t *testing.T) (*testutil.Fixtures, taskEnv) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	company := f.CreateCompany(ctx, "Acme")
	admin := f.CreateUser(ctx, company.ID, "Admin", "admin@acme.test", models.RoleAdmin)
	member := f.CreateUser(ctx, company.ID, "Member", "member@acme.test", models.RoleMember)
	project := f.CreateProject(ctx, company.ID, admin.ID, "Apollo", "APOLLO", member.ID)
	team := f.CreateTeam(ctx, company.ID, project.ID, admin.ID, "Core", "CORE", member.ID)

	return f, taskEnv{
		store:   taskstore.New(db),
		company: company,
		admin:   admin,
		member:  member,
		project: project,
		team:    team,
	}
}

func TestCreate_DefaultsStatusAndPriority(t *testing.T) {
	_, env := setupTaskEnv(t)
	ctx := context.Background()

	created, err := env.store.Create(ctx, models.Task{
		CompanyID:  env.company.ID,
		ProjectID:  env.project.ID,
		TeamID:     env.team.ID,
		Title:      "Build the login page",
		Status:     models.TaskCompleted, // must be ignored
		AssignedTo: env.member.ID,
		CreatedBy:  env.admin.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.TaskTodo {
		t.Errorf("status: got %q, want %q", created.Status, models.TaskTodo)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("priority: got %q, want %q", created.Priority, models.PriorityMedium)
	}
}

func TestUpdateStatus_PinsCurrentStatus(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	task := f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Fix flaky test", models.TaskTodo)

	// A stale request that believes the task is In_Progress matches nothing.
	_, err := env.store.UpdateStatus(ctx, task.ID, env.company.ID, models.TaskInProgress, models.TaskBlocked)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("stale UpdateStatus: got %v, want ErrNoDocuments", err)
	}

	updated, err := env.store.UpdateStatus(ctx, task.ID, env.company.ID, models.TaskTodo, models.TaskInProgress)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.TaskInProgress {
		t.Errorf("status: got %q, want %q", updated.Status, models.TaskInProgress)
	}
}

func TestUpdateStatus_CrossTenantMatchesNothing(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	globex := f.CreateCompany(ctx, "Globex")
	task := f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Write docs", models.TaskTodo)

	_, err := env.store.UpdateStatus(ctx, task.ID, globex.ID, models.TaskTodo, models.TaskInProgress)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("cross-tenant UpdateStatus: got %v, want ErrNoDocuments", err)
	}
}

func TestApply_ClearSprint(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	sprint := f.CreateSprint(ctx, env.company.ID, env.project.ID, env.admin.ID, "Sprint 1", models.SprintActive)
	task := f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Ship it", models.TaskTodo)
	f.AttachTaskToSprint(ctx, task.ID, sprint.ID)

	var noSprint *primitive.ObjectID
	updated, err := env.store.Apply(ctx, task.ID, env.company.ID, taskstore.Update{SprintID: &noSprint})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if updated.SprintID != nil {
		t.Errorf("sprint_id should be cleared, got %s", updated.SprintID.Hex())
	}
}

func TestApply_SetSprintAndReassign(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	other := f.CreateUser(ctx, env.company.ID, "Other", "other@acme.test", models.RoleMember)
	sprint := f.CreateSprint(ctx, env.company.ID, env.project.ID, env.admin.ID, "Sprint 1", models.SprintPlanned)
	task := f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Refine backlog", models.TaskTodo)

	sprintID := &sprint.ID
	updated, err := env.store.Apply(ctx, task.ID, env.company.ID, taskstore.Update{
		AssignedTo: &other.ID,
		SprintID:   &sprintID,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if updated.AssignedTo != other.ID {
		t.Errorf("assigned_to: got %s, want %s", updated.AssignedTo.Hex(), other.ID.Hex())
	}
	if updated.SprintID == nil || *updated.SprintID != sprint.ID {
		t.Errorf("sprint_id not set to %s", sprint.ID.Hex())
	}
}

func TestCountBySprint(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	sprint := f.CreateSprint(ctx, env.company.ID, env.project.ID, env.admin.ID, "Sprint 1", models.SprintActive)
	first := f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "One", models.TaskTodo)
	second := f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Two", models.TaskTodo)
	f.AttachTaskToSprint(ctx, first.ID, sprint.ID)
	f.AttachTaskToSprint(ctx, second.ID, sprint.ID)
	f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Unsprinted", models.TaskTodo)

	n, err := env.store.CountBySprint(ctx, env.company.ID, sprint.ID)
	if err != nil {
		t.Fatalf("CountBySprint: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}
}

func TestList_ComposedFilter(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Open", models.TaskTodo)
	f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Moving", models.TaskInProgress)

	got, err := env.store.List(ctx, bson.M{
		"company_id": env.company.ID,
		"project_id": env.project.ID,
		"status":     models.TaskInProgress,
	}, paging.Default())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Moving" {
		t.Errorf("List: got %d tasks, want the single In_Progress one", len(got))
	}
}

func TestList_CursorPages(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, title, models.TaskTodo)
	}

	filter := func() bson.M { return bson.M{"company_id": env.company.ID} }
	pg := paging.Page{Limit: 2}

	first, err := env.store.List(ctx, filter(), pg)
	if err != nil {
		t.Fatalf("List first page: %v", err)
	}
	// One look-ahead row past the limit signals a next page.
	if len(first) != 3 {
		t.Fatalf("first page: got %d rows, want limit+1", len(first))
	}
	next, more := paging.Trim(pg, &first, func(tk models.Task) primitive.ObjectID { return tk.ID })
	if !more || len(first) != 2 {
		t.Fatalf("after trim: rows=%d more=%v, want 2 rows and a cursor", len(first), more)
	}

	after, err := primitive.ObjectIDFromHex(next)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	pg.After = &after
	second, err := env.store.List(ctx, filter(), pg)
	if err != nil {
		t.Fatalf("List second page: %v", err)
	}
	if _, more := paging.Trim(pg, &second, func(tk models.Task) primitive.ObjectID { return tk.ID }); more {
		t.Errorf("second page should be the last")
	}
	if len(second) != 1 {
		t.Fatalf("second page: got %d rows, want 1", len(second))
	}
	for _, row := range first {
		if row.ID == second[0].ID {
			t.Errorf("page overlap on task %s", row.Title)
		}
	}
}

func TestGetScoped_CrossTenantIsNotFound(t *testing.T) {
	f, env := setupTaskEnv(t)
	ctx := context.Background()

	globex := f.CreateCompany(ctx, "Globex")
	task := f.CreateTask(ctx, env.company.ID, env.project.ID, env.team.ID, env.member.ID, env.admin.ID, "Private work", models.TaskTodo)

	_, err := env.store.GetScoped(ctx, task.ID, globex.ID)
	if !apperr.IsNotFound(err) {
		t.Errorf("cross-tenant GetScoped: got %v, want NotFound", err)
	}
}
