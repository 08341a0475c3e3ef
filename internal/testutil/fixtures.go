package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCompany creates a test company with the given name.
func (f *Fixtures) CreateCompany(ctx context.Context, name string) models.Company {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Company{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("companies").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test company: %v", err)
	}
	return c
}

// CreateUser creates a test user in the given company with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, companyID primitive.ObjectID, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: "x", // never verified by fixtures
		Role:         role,
		CompanyID:    companyID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProject creates a test project with the given members. The creator
// is recorded but not implicitly added to the member list.
func (f *Fixtures) CreateProject(ctx context.Context, companyID, createdBy primitive.ObjectID, name, key string, members ...primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	if members == nil {
		members = []primitive.ObjectID{}
	}
	p := models.Project{
		ID:          primitive.NewObjectID(),
		CompanyID:   companyID,
		Name:        name,
		Description: "A test project for exercising handlers.",
		Key:         key,
		Visibility:  models.VisibilityPublic,
		Status:      models.ProjectActive,
		StartDate:   now,
		EndDate:     now.Add(90 * 24 * time.Hour),
		Members:     members,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateTeam creates a test team inside the given project.
func (f *Fixtures) CreateTeam(ctx context.Context, companyID, projectID, createdBy primitive.ObjectID, name, key string, members ...primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	if members == nil {
		members = []primitive.ObjectID{}
	}
	tm := models.Team{
		ID:        primitive.NewObjectID(),
		CompanyID: companyID,
		ProjectID: projectID,
		Name:      name,
		Key:       key,
		Status:    models.TeamActive,
		Members:   members,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, tm); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return tm
}

// CreateSprint creates a test sprint in the given status.
func (f *Fixtures) CreateSprint(ctx context.Context, companyID, projectID, createdBy primitive.ObjectID, name, status string) models.Sprint {
	f.t.Helper()

	now := time.Now().UTC()
	sp := models.Sprint{
		ID:        primitive.NewObjectID(),
		CompanyID: companyID,
		ProjectID: projectID,
		Name:      name,
		StartDate: now,
		EndDate:   now.Add(14 * 24 * time.Hour),
		Status:    status,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("sprints").InsertOne(ctx, sp); err != nil {
		f.t.Fatalf("failed to create test sprint: %v", err)
	}
	return sp
}

// CreateTask creates a test task in the given status assigned to assignee.
func (f *Fixtures) CreateTask(ctx context.Context, companyID, projectID, teamID, assignee, createdBy primitive.ObjectID, title, status string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	tk := models.Task{
		ID:         primitive.NewObjectID(),
		CompanyID:  companyID,
		ProjectID:  projectID,
		TeamID:     teamID,
		Title:      title,
		Status:     status,
		Priority:   models.PriorityMedium,
		AssignedTo: assignee,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, tk); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return tk
}

// AttachTaskToSprint sets a task's sprint reference directly.
func (f *Fixtures) AttachTaskToSprint(ctx context.Context, taskID, sprintID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("tasks").UpdateByID(ctx, taskID,
		map[string]any{"$set": map[string]any{"sprint_id": sprintID}})
	if err != nil {
		f.t.Fatalf("failed to attach task to sprint: %v", err)
	}
}
