// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// Create inserts a task in Todo state. Assignee membership has already been
// validated by the caller.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Status = models.TaskTodo
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetScoped loads a task by ID filtered to the caller's company.
func (s *Store) GetScoped(ctx context.Context, id, companyID primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, apperr.NotFound("task not found")
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListByProject returns a page of a project's tasks, newest first.
func (s *Store) ListByProject(ctx context.Context, companyID, projectID primitive.ObjectID, pg paging.Page) ([]models.Task, error) {
	return s.List(ctx, bson.M{"company_id": companyID, "project_id": projectID}, pg)
}

// ListAssignedTo returns a page of the company's tasks assigned to the
// given user.
func (s *Store) ListAssignedTo(ctx context.Context, companyID, userID primitive.ObjectID, pg paging.Page) ([]models.Task, error) {
	return s.List(ctx, bson.M{"company_id": companyID, "assigned_to": userID}, pg)
}

// ListCreatedBy returns a page of the company's tasks created by the given
// admin.
func (s *Store) ListCreatedBy(ctx context.Context, companyID, creatorID primitive.ObjectID, pg paging.Page) ([]models.Task, error) {
	return s.List(ctx, bson.M{"company_id": companyID, "created_by": creatorID}, pg)
}

// List returns a page of tasks matching an arbitrary company-scoped filter,
// newest first. The admin list endpoint composes its optional filters on
// top of the caller's company here. One row past the page limit is fetched;
// the handler trims it and builds the next cursor.
func (s *Store) List(ctx context.Context, filter bson.M, pg paging.Page) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, pg.Filter(filter), pg.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountBySprint reports how many tasks reference a sprint. Sprint deletion
// is refused while this is non-zero.
func (s *Store) CountBySprint(ctx context.Context, companyID, sprintID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"company_id": companyID, "sprint_id": sprintID})
}

// UpdateStatus writes a new status, pinning the expected current one so a
// stale concurrent request cannot apply a transition that was validated
// against an old snapshot. ErrNoDocuments means the task moved underneath
// the caller (or never existed).
func (s *Store) UpdateStatus(ctx context.Context, id, companyID primitive.ObjectID, from, to string) (models.Task, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "company_id": companyID, "status": from},
		bson.M{"$set": bson.M{
			"status":     to,
			"updated_at": time.Now().UTC(),
		}}, opts).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, mongo.ErrNoDocuments
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Update is the typed allow-list for creator-side task edits. Status is
// absent on purpose; transitions go through UpdateStatus only, and belong
// to the assignee.
type Update struct {
	Title       *string
	Description *string
	Priority    *string
	AssignedTo  *primitive.ObjectID
	SprintID    **primitive.ObjectID // set to a nil inner pointer to clear
}

// Apply writes the non-nil fields of u, company-scoped, returning the
// updated document.
func (s *Store) Apply(ctx context.Context, id, companyID primitive.ObjectID, u Update) (models.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	if u.AssignedTo != nil {
		set["assigned_to"] = *u.AssignedTo
	}
	if u.SprintID != nil {
		if *u.SprintID == nil {
			unset["sprint_id"] = ""
		} else {
			set["sprint_id"] = **u.SprintID
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "company_id": companyID},
		update, opts).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, apperr.NotFound("task not found")
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes a task, company-scoped.
func (s *Store) Delete(ctx context.Context, id, companyID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}
